package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/brl0/konch/internal/config"
)

// plainShell is the guaranteed fallback: a context inspector with no
// interpreter behind it. It reads a name per line and prints its value,
// works over pipes, and exits cleanly at EOF or when the session
// context is canceled. This keeps the fallback chain from ever running
// dry.
type plainShell struct{}

func newPlainShell() *plainShell {
	return &plainShell{}
}

func (s *plainShell) Name() string {
	return BackendPlain
}

// Available always succeeds; plain is the chain's terminal entry.
func (s *plainShell) Available() error {
	return nil
}

func (s *plainShell) Start(ctx context.Context, opts Options) error {
	if opts.Banner != "" {
		fmt.Fprintln(opts.Stdout, opts.Banner)
	}
	prompt := opts.Prompt
	if prompt == "" {
		prompt = ">>> "
	}
	names := opts.Context.Names()

	lines, readErr := readLines(ctx, opts.Stdin)
	fmt.Fprint(opts.Stdout, prompt)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(opts.Stdout)
			return nil
		case line, ok := <-lines:
			if !ok {
				return readErr()
			}
			line = strings.TrimSpace(line)
			switch {
			case line == "":
			case line == "exit" || line == "quit":
				return nil
			case line == ":help":
				fmt.Fprintln(opts.Stdout, "Type a context name to print its value. Commands: :vars, :help, exit")
			case line == ":vars":
				fmt.Fprintln(opts.Stdout, strings.Join(names, ", "))
			default:
				if value, ok := opts.Context[line]; ok {
					fmt.Fprintf(opts.Stdout, "%s%s\n", opts.Output, config.FormatValue(value))
				} else {
					fmt.Fprintf(opts.Stderr, "%q is not defined\n", line)
				}
			}
			fmt.Fprint(opts.Stdout, prompt)
		}
	}
}

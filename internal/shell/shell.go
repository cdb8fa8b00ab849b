package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/brl0/konch/internal/config"
	"github.com/brl0/konch/internal/logging"
)

// Backend names accepted by the shell config option and the -s flag.
const (
	BackendAuto  = "auto"
	BackendGo    = "go"
	BackendLua   = "lua"
	BackendPlain = "plain"
)

// Options carries everything a backend needs to run one session.
type Options struct {
	// Context is the resolved name to value mapping seeded into the
	// session.
	Context config.Context

	// Banner is printed before the first prompt.
	Banner string

	// Prompt overrides the backend's input prompt where the backend
	// supports that.
	Prompt string

	// Output is prefixed to evaluated results where the backend prints
	// them.
	Output string

	// Unrestricted lifts the go backend's interpreter restrictions on
	// process and environment access.
	Unrestricted bool

	// Setup and Teardown run around the session. Teardown runs whenever
	// Setup ran, however the session ended.
	Setup    config.Hook
	Teardown config.Hook

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger logging.Logger
}

// Backend is one interactive session provider.
type Backend interface {
	Name() string

	// Available reports whether the backend can take over this process's
	// stdin. Auto selection skips backends that return an error.
	Available() error

	Start(ctx context.Context, opts Options) error
}

// Launcher owns the backend chain and runs sessions on it.
type Launcher struct {
	chain  []Backend
	logger logging.Logger
}

// NewLauncher builds the default chain: go, then lua, then plain.
func NewLauncher(logger logging.Logger) *Launcher {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Launcher{
		chain:  []Backend{newGoShell(), newLuaShell(), newPlainShell()},
		logger: logger,
	}
}

// Names lists the accepted shell names, auto first.
func (l *Launcher) Names() []string {
	names := make([]string, 0, len(l.chain)+1)
	names = append(names, BackendAuto)
	for _, backend := range l.chain {
		names = append(names, backend.Name())
	}
	return names
}

// Lookup resolves an explicit backend name.
func (l *Launcher) Lookup(name string) (Backend, error) {
	for _, backend := range l.chain {
		if backend.Name() == name {
			return backend, nil
		}
	}
	return nil, &UnknownBackendError{Name: name, Known: l.Names()}
}

// Start runs a session. An empty or "auto" name walks the chain and
// starts the first available backend; unavailability there is expected
// and only logged. An explicit name skips the availability check, and a
// failure to start that backend comes back as an *UnavailableError.
func (l *Launcher) Start(ctx context.Context, name string, opts Options) error {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = l.logger
	}

	if name == "" || name == BackendAuto {
		for _, backend := range l.chain {
			if err := backend.Available(); err != nil {
				l.logger.Debugw("shell backend unavailable",
					"backend", backend.Name(), "reason", err.Error())
				continue
			}
			l.logger.Debugw("shell backend selected", "backend", backend.Name())
			return l.run(ctx, backend, opts)
		}
		return &UnavailableError{Name: BackendAuto, Reason: fmt.Errorf("no backend available")}
	}

	backend, err := l.Lookup(name)
	if err != nil {
		return err
	}
	if err := l.run(ctx, backend, opts); err != nil {
		if _, ok := err.(*HookError); ok {
			return err
		}
		return &UnavailableError{Name: backend.Name(), Reason: err}
	}
	return nil
}

// run wraps one backend session with the configured hooks. A setup
// failure aborts before the session; teardown runs whenever setup ran.
func (l *Launcher) run(ctx context.Context, backend Backend, opts Options) (err error) {
	if opts.Setup != nil {
		if herr := opts.Setup(); herr != nil {
			return &HookError{Hook: "setup", Err: herr}
		}
	}
	if opts.Teardown != nil {
		defer func() {
			if herr := opts.Teardown(); herr != nil && err == nil {
				err = &HookError{Hook: "teardown", Err: herr}
			}
		}()
	}
	return backend.Start(ctx, opts)
}

// readLines feeds session input one line per receive so a session loop
// can select between input and cancellation. The channel closes at EOF
// or read failure; err reports the failure once the channel is closed.
// A reader blocked in Scan when the context ends stays parked until the
// process exits.
func readLines(ctx context.Context, r io.Reader) (<-chan string, func() error) {
	lines := make(chan string)
	scanner := bufio.NewScanner(r)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines, scanner.Err
}

// stdinIsTerminal is the availability check shared by the go and lua
// backends. It looks at the process's real stdin rather than
// Options.Stdin: the question is whether this session has a keyboard.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

package shell

import (
	"context"
	"fmt"
	"go/token"
	"reflect"
	"sort"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/brl0/konch/internal/config"
)

// goShell runs a yaegi interpreter session. The context is exposed as
// the konch.Context map and, for names that are valid Go identifiers,
// as top-level variables of type interface{}.
//
// The interpreter supplies its own prompt; Options.Prompt and
// Options.Output are ignored here. Unrestricted maps to yaegi's
// unrestricted mode, which unlocks process and environment access the
// interpreter otherwise refuses.
type goShell struct {
	isTerminal func() bool
}

func newGoShell() *goShell {
	return &goShell{isTerminal: stdinIsTerminal}
}

func (s *goShell) Name() string {
	return BackendGo
}

func (s *goShell) Available() error {
	if !s.isTerminal() {
		return fmt.Errorf("shell %q needs stdin on a terminal", BackendGo)
	}
	return nil
}

func (s *goShell) Start(ctx context.Context, opts Options) error {
	i := interp.New(interp.Options{
		Stdin:        opts.Stdin,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		Unrestricted: opts.Unrestricted,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("load interpreter stdlib: %w", err)
	}
	if err := i.Use(interp.Exports{
		"konch/konch": {
			"Context": reflect.ValueOf(map[string]interface{}(opts.Context)),
		},
	}); err != nil {
		return fmt.Errorf("bind context: %w", err)
	}
	i.ImportUsed()

	for _, name := range identifiers(opts.Context) {
		src := fmt.Sprintf("%s := konch.Context[%q]", name, name)
		if _, err := i.EvalWithContext(ctx, src); err != nil {
			opts.Logger.Debugw("context binding skipped", "name", name, "reason", err.Error())
		}
	}

	if opts.Banner != "" {
		fmt.Fprintln(opts.Stdout, opts.Banner)
	}
	_, err := i.REPL()
	return err
}

// identifiers returns the context names usable as top-level variables,
// sorted. Names that are not Go identifiers (or are keywords) stay
// reachable through konch.Context.
func identifiers(ctx config.Context) []string {
	names := make([]string, 0, len(ctx))
	for name := range ctx {
		if token.IsIdentifier(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

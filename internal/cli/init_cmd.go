package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brl0/konch/internal/rcfile"
)

func (a *App) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a startup file and approve it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(fileArg(args))
		},
	}
}

// runInit scaffolds a fresh startup file and records its hash so the
// first launch is not blocked.
func (a *App) runInit(filename string) error {
	path, err := rcfile.Init(filename)
	if err != nil {
		return err
	}
	if err := a.store().Allow(path); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "Initialized konch at %s\n", path)
	return nil
}

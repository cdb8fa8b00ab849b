package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newDenyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deny [filename]",
		Short: "Revoke a startup file's approval",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDeny(fileArg(args))
		},
	}
}

// runDeny drops the file from the approval store, so the next launch
// blocks until it is allowed again.
func (a *App) runDeny(filename string) error {
	if err := a.store().Deny(filename); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "%s is now denied.\n", filename)
	return nil
}

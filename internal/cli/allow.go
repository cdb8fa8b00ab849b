package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newAllowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allow [filename]",
		Short: "Approve a startup file for execution",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAllow(fileArg(args))
		},
	}
}

// runAllow records the file's current hash in the approval store.
func (a *App) runAllow(filename string) error {
	if err := a.store().Allow(filename); err != nil {
		return err
	}
	fmt.Fprintf(a.Stdout, "%s is now allowed.\n", filename)
	return nil
}

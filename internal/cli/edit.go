package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brl0/konch/internal/rcfile"
)

func (a *App) newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [filename]",
		Short: "Open a startup file in your editor and re-approve it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) > 0 {
				filename = args[0]
			}
			return a.runEdit(filename)
		},
	}
}

// runEdit opens the startup file in the configured editor and, when the
// editor exits cleanly, re-records the hash so the edited file does not
// come back as changed. Without an argument it edits the discovered
// startup file, falling back to the conventional name for a new one.
func (a *App) runEdit(filename string) error {
	if filename == "" {
		resolved, err := rcfile.Resolve("")
		if err != nil {
			return err
		}
		filename = resolved
		if filename == "" {
			filename = rcfile.DefaultName
		}
	}

	parts := strings.Fields(a.Settings.Editor)
	if len(parts) == 0 {
		return fmt.Errorf("no editor configured: set KONCH_EDITOR or EDITOR")
	}

	fmt.Fprintf(a.Stdout, "Editing file: %s\n", filename)
	// The editor owns the terminal while it runs; interrupts belong to
	// it, so the subprocess is not tied to the command context.
	editor := exec.Command(parts[0], append(parts[1:], filename)...)
	editor.Stdin = a.Stdin
	editor.Stdout = a.Stdout
	editor.Stderr = a.Stderr
	if err := editor.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", parts[0], err)
	}

	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			a.Logger.Warnw("editor exited without creating the file", "path", filename)
			return nil
		}
		return err
	}
	return a.store().Allow(filename)
}

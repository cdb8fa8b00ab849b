// Package cli implements the konch command tree.
//
// The root command locates a startup file, gates it through the
// approval store, executes it in the sandboxed Lua runtime, and hands
// the selected profile to a shell backend. Subcommands manage the
// startup file itself: init scaffolds one, edit opens it in the
// configured editor, allow and deny move it in and out of the approval
// store.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brl0/konch/internal/logging"
	"github.com/brl0/konch/internal/rcfile"
	"github.com/brl0/konch/internal/settings"
	"github.com/brl0/konch/internal/shell"
	"github.com/brl0/konch/internal/trust"
)

// Version is overridden at build time via -ldflags.
var Version = "v0.1.0"

// App carries the state shared by every command: resolved settings, the
// process logger, and the streams commands talk to. main wires it to the
// process environment via New; tests construct one directly with buffers
// and a quiet logger.
type App struct {
	Settings settings.Settings
	Logger   logging.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// zlog is set when prepare built the logger itself and still owes
	// a Sync.
	zlog *zap.Logger
}

// New builds the konch command tree wired to the process streams.
func New() *cobra.Command {
	app := &App{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	return app.Root()
}

// Root assembles the command tree around the app.
func (a *App) Root() *cobra.Command {
	var (
		file      string
		name      string
		shellName string
		noStart   bool
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "konch",
		Short: "Configure your interactive Go shell",
		Long: `konch is a configuration launcher for interactive sessions.

It reads a .konchrc startup file written in Lua, builds a named context
of values, and drops you into a shell with that context preloaded. New
or modified startup files must be approved with "konch allow" before
they execute.

Examples:
  konch init           Scaffold .konchrc in the current directory
  konch                Launch a shell using the nearest startup file
  konch -n conf2       Launch the named config "conf2"
  konch -s lua         Force the Lua shell backend`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare(debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.zlog != nil {
				_ = a.zlog.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd.Context(), file, name, shellName, noStart)
		},
	}
	cmd.SetVersionTemplate("konch {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "Path of the startup file to use")
	flags.StringVarP(&name, "name", "n", "", "Named config to use")
	flags.StringVarP(&shellName, "shell", "s", "",
		"Shell backend to use ("+strings.Join(shell.NewLauncher(nil).Names(), ", ")+")")
	flags.BoolVar(&noStart, "no-start", false, "Print the banner without starting a shell")
	flags.BoolP("version", "v", false, "version for konch")

	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	cmd.AddCommand(
		a.newInitCmd(),
		a.newEditCmd(),
		a.newAllowCmd(),
		a.newDenyCmd(),
	)
	return cmd
}

// prepare loads settings and builds the process logger. A preset Logger
// is kept as-is so tests can stay quiet; the settings load always runs.
func (a *App) prepare(debug bool) error {
	s, err := settings.Load()
	if err != nil {
		return err
	}
	a.Settings = s

	if a.Logger == nil {
		zlog, err := logging.New(debug || s.Debug)
		if err != nil {
			return err
		}
		a.zlog = zlog
		a.Logger = zlog.Sugar()
	}
	return nil
}

// store opens the approval store at the configured location.
func (a *App) store() *trust.Store {
	return trust.NewStore(a.Settings.AuthFile, a.Settings.Keyring, a.Logger)
}

// fileArg returns the optional filename argument, defaulting to the
// conventional startup file name.
func fileArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return rcfile.DefaultName
}

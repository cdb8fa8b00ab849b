package cli

import (
	"context"
	"fmt"

	"github.com/brl0/konch/internal/config"
	"github.com/brl0/konch/internal/platform"
	"github.com/brl0/konch/internal/rcfile"
	"github.com/brl0/konch/internal/shell"
	"github.com/brl0/konch/internal/trust"
)

// runShell is the bare konch invocation: locate the startup file, gate
// it through the approval store, execute it, select a profile, and run
// the session on a shell backend.
func (a *App) runShell(ctx context.Context, file, name, shellName string, noStart bool) error {
	path, err := rcfile.Resolve(file)
	if err != nil {
		return err
	}

	host := platform.Detect(ctx)
	registry := config.NewRegistry()

	rt := rcfile.NewRuntime(registry, host, a.Logger)
	defer rt.Close()

	if path == "" {
		a.Logger.Warnw("no startup file found, using defaults", "filename", rcfile.DefaultName)
	} else {
		if err := a.checkTrust(path); err != nil {
			return err
		}
		a.Logger.Debugw("using startup file", "path", path)
		if err := rt.ExecuteFile(path); err != nil {
			return err
		}
	}

	cfg := registry.Default()
	if name != "" {
		cfg, err = registry.Lookup(name)
		if err != nil {
			return fmt.Errorf("Invalid --name: %w", err)
		}
	}
	rt.ApplyFileHooks(cfg)

	resolved, err := cfg.ResolveContext()
	if err != nil {
		return err
	}

	banner, err := config.MakeBanner(config.BannerOptions{
		Text:      cfg.Banner,
		Context:   resolved,
		Format:    cfg.ContextFormat,
		Formatter: cfg.Formatter,
		Host:      host,
	})
	if err != nil {
		return err
	}

	backend := a.pickShell(shellName, cfg.Shell)
	if noStart {
		fmt.Fprintln(a.Stdout, banner)
		a.Logger.Debugw("shell launch skipped", "shell", backend)
		return nil
	}

	return shell.NewLauncher(a.Logger).Start(ctx, backend, shell.Options{
		Context:      resolved,
		Banner:       banner,
		Prompt:       cfg.Prompt,
		Output:       cfg.Output,
		Unrestricted: cfg.GoUnrestricted,
		Setup:        cfg.Setup,
		Teardown:     cfg.Teardown,
		Stdin:        a.Stdin,
		Stdout:       a.Stdout,
		Stderr:       a.Stderr,
		Logger:       a.Logger,
	})
}

// checkTrust refuses a startup file that is unapproved or has drifted
// from its approved hash.
func (a *App) checkTrust(path string) error {
	status, err := a.store().Check(path)
	if err != nil {
		return err
	}
	switch status {
	case trust.StatusBlocked:
		return &trust.BlockedError{Path: path}
	case trust.StatusChanged:
		return &trust.ChangedError{Path: path}
	}
	return nil
}

// pickShell applies the backend override order: the -s flag beats
// everything, and the settings default fills in only when the startup
// file left automatic selection in place.
func (a *App) pickShell(flag, configured string) string {
	if flag != "" {
		return flag
	}
	if a.Settings.Shell != "" && configured == config.DefaultShell {
		return a.Settings.Shell
	}
	return configured
}

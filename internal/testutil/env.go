// Package testutil provides utilities for testing konch in isolation.
package testutil

import (
	"path/filepath"
	"testing"
)

// SetupTestEnv isolates a test from the developer's real konch state.
// Every environment override konch reads is pointed at a fresh temp
// directory, so tests never touch:
// - The user's actual approval store
// - The user's settings file
// - Editor and shell preferences inherited from the calling shell
//
// The returned directory is the isolation root; t.TempDir handles
// cleanup, so callers don't need to.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	// Point konch state at the temp location
	t.Setenv("KONCH_AUTH_FILE", filepath.Join(tmpDir, "konch_auth"))
	t.Setenv("KONCH_SETTINGS", filepath.Join(tmpDir, "settings.toml"))

	// Neutralize preference overrides that may leak in from the host.
	// Empty-valued variables read as unset.
	t.Setenv("KONCH_SHELL", "")
	t.Setenv("KONCH_DEBUG", "")
	t.Setenv("KONCH_KEYRING", "")
	t.Setenv("KONCH_EDITOR", "")
	t.Setenv("EDITOR", "")

	return tmpDir
}

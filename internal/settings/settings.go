// Package settings loads launcher-level preferences: where the approval
// store lives, which editor opens config files, and defaults that apply
// before any config file runs. These are deliberately separate from the
// config files themselves, which are per-project and untrusted until
// approved.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds the resolved preferences.
type Settings struct {
	// AuthFile is the path of the approval store. KONCH_AUTH_FILE
	// always wins over the settings file and the default.
	AuthFile string `mapstructure:"auth_file"`

	// Editor opens config files for the edit command. Resolution order:
	// KONCH_EDITOR, EDITOR, the settings file, then vi.
	Editor string `mapstructure:"editor"`

	// Keyring optionally points at a PGP keyring; when set, allow
	// verifies a detached signature sidecar before approving a file.
	Keyring string `mapstructure:"keyring"`

	// Shell overrides the automatic backend default for config files
	// that do not choose one themselves.
	Shell string `mapstructure:"shell"`

	// Debug turns on debug logging.
	Debug bool `mapstructure:"debug"`
}

// Load reads settings from the optional settings file and environment.
// Environment overrides use the KONCH_ prefix: KONCH_AUTH_FILE,
// KONCH_EDITOR, KONCH_KEYRING, KONCH_SHELL, KONCH_DEBUG. The settings
// file is $KONCH_SETTINGS if set, otherwise settings.toml under the
// user config directory; a missing file is fine.
func Load() (Settings, error) {
	v := viper.New()

	v.SetDefault("auth_file", defaultAuthFile())
	v.SetDefault("editor", "vi")
	v.SetDefault("keyring", "")
	v.SetDefault("shell", "")
	v.SetDefault("debug", false)

	v.SetConfigType("toml")
	if path := os.Getenv("KONCH_SETTINGS"); path != "" {
		v.SetConfigFile(path)
	} else if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "konch"))
		v.SetConfigName("settings")
	}

	v.SetEnvPrefix("KONCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("editor", "KONCH_EDITOR", "EDITOR")

	// read settings file if present
	_ = v.ReadInConfig()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return s, nil
}

// defaultAuthFile places the approval store under the user config
// directory, falling back to $HOME when that cannot be resolved.
func defaultAuthFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "konch", "konch_auth")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "konch", "konch_auth")
}

package config

import (
	"fmt"
	"sort"
)

// DefaultName is the profile every launch starts from.
const DefaultName = "default"

// Registry maps profile names to configs for one launch. The default
// profile is always present and receives top-level configuration calls;
// named profiles are alternates selectable at launch time.
//
// A Registry is confined to the launching goroutine; it needs no locking.
type Registry struct {
	configs map[string]*Config
}

// NewRegistry returns a Registry holding a single default config.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Default returns the default profile's config.
func (r *Registry) Default() *Config {
	return r.configs[DefaultName]
}

// Update merges opts into the default profile.
func (r *Registry) Update(opts map[string]interface{}) error {
	return r.configs[DefaultName].Update(opts)
}

// NamedConfig creates or updates a profile under one or more alias names
// and returns it. All aliases end up bound to a single Config instance.
// The first listed name that is already registered, wherever it sits in
// the list, supplies the instance to update; without one a fresh Config
// is created. Repeated declarations therefore accumulate, whatever the
// alias order.
func (r *Registry) NamedConfig(names []string, opts map[string]interface{}) (*Config, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("named config requires at least one name")
	}
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("named config requires non-empty names")
		}
	}

	var cfg *Config
	for _, name := range names {
		if existing, ok := r.configs[name]; ok {
			cfg = existing
			break
		}
	}
	if cfg == nil {
		cfg = New()
	}
	if err := cfg.Update(opts); err != nil {
		return nil, err
	}
	for _, name := range names {
		r.configs[name] = cfg
	}
	return cfg, nil
}

// Lookup resolves a profile by name, failing with an *UnknownProfileError
// listing the registered names.
func (r *Registry) Lookup(name string) (*Config, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return nil, &UnknownProfileError{Name: name, Known: r.Names()}
	}
	return cfg, nil
}

// Names lists the registered profile names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset discards every profile and restores a single fresh default.
// Required for test isolation and re-entrant invocation.
func (r *Registry) Reset() {
	r.configs = map[string]*Config{DefaultName: New()}
}

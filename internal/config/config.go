// Package config holds the session configuration a startup file mutates
// before a shell is launched: the option store, the named profile registry,
// context normalization, and banner rendering.
//
// A Config only accepts the documented option keys. Values arrive as plain
// Go values from the CLI or as converted Lua values from a startup file.
package config

import (
	"fmt"
)

// Recognized option keys.
const (
	OptShell          = "shell"
	OptBanner         = "banner"
	OptPrompt         = "prompt"
	OptOutput         = "output"
	OptContext        = "context"
	OptContextFormat  = "context_format"
	OptSetup          = "setup"
	OptTeardown       = "teardown"
	OptGoUnrestricted = "go_unrestricted"
)

// Context rendering modes for banner text.
const (
	FormatFull  = "full"
	FormatShort = "short"
	FormatHide  = "hide"
)

// DefaultShell selects the automatic backend fallback chain.
const DefaultShell = "auto"

// Hook is a setup or teardown callback run around the interactive session.
type Hook func() error

// Formatter renders the context block of a banner from the raw context
// mapping. It replaces the built-in full/short/hide modes when set.
type Formatter func(Context) string

// Config is the option store for one session. The zero value is not ready
// for use; construct with New.
type Config struct {
	Shell         string
	Banner        string
	Prompt        string
	Output        string
	Context       Context
	ContextFormat string
	Formatter     Formatter
	Setup         Hook
	Teardown      Hook

	// GoUnrestricted lifts the go backend's interpreter sandbox so
	// sessions can use os/exec and unsafe.
	GoUnrestricted bool

	// lazyContext holds a deferred context producer until ResolveContext
	// is called at shell start.
	lazyContext func() (interface{}, error)
}

// New returns a Config holding the documented defaults: automatic shell
// selection, no banner text, an empty context rendered in full mode.
func New() *Config {
	return &Config{
		Shell:         DefaultShell,
		Context:       Context{},
		ContextFormat: FormatFull,
	}
}

// Update merges opts into the Config. Later calls win key-wise; assigning
// the context key replaces the whole context after normalization. A key
// outside the recognized set or a value of the wrong shape fails with an
// *InvalidOptionError and leaves the remaining keys unapplied.
func (c *Config) Update(opts map[string]interface{}) error {
	for key, value := range opts {
		if err := c.set(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) set(key string, value interface{}) error {
	switch key {
	case OptShell:
		s, err := stringOption(key, value)
		if err != nil {
			return err
		}
		c.Shell = s
	case OptBanner:
		s, err := stringOption(key, value)
		if err != nil {
			return err
		}
		c.Banner = s
	case OptPrompt:
		s, err := stringOption(key, value)
		if err != nil {
			return err
		}
		c.Prompt = s
	case OptOutput:
		s, err := stringOption(key, value)
		if err != nil {
			return err
		}
		c.Output = s
	case OptContext:
		return c.setContext(value)
	case OptContextFormat:
		return c.setContextFormat(value)
	case OptSetup:
		hook, err := hookOption(key, value)
		if err != nil {
			return err
		}
		c.Setup = hook
	case OptTeardown:
		hook, err := hookOption(key, value)
		if err != nil {
			return err
		}
		c.Teardown = hook
	case OptGoUnrestricted:
		b, ok := value.(bool)
		if !ok {
			return &InvalidOptionError{Key: key, Reason: fmt.Sprintf("expected bool, got %T", value)}
		}
		c.GoUnrestricted = b
	default:
		return &InvalidOptionError{Key: key}
	}
	return nil
}

func (c *Config) setContext(value interface{}) error {
	if fn := lazyProducer(value); fn != nil {
		c.lazyContext = fn
		c.Context = Context{}
		return nil
	}
	ctx, err := NormalizeContext(value)
	if err != nil {
		return err
	}
	c.lazyContext = nil
	c.Context = ctx
	return nil
}

func (c *Config) setContextFormat(value interface{}) error {
	switch v := value.(type) {
	case string:
		if v != FormatFull && v != FormatShort && v != FormatHide {
			return &InvalidOptionError{
				Key:    OptContextFormat,
				Reason: fmt.Sprintf("must be %q, %q, %q, or a formatter function, got %q", FormatFull, FormatShort, FormatHide, v),
			}
		}
		c.ContextFormat = v
		c.Formatter = nil
	case Formatter:
		c.Formatter = v
	case func(Context) string:
		c.Formatter = v
	case func(map[string]interface{}) string:
		c.Formatter = func(ctx Context) string { return v(ctx) }
	default:
		return &InvalidOptionError{
			Key:    OptContextFormat,
			Reason: fmt.Sprintf("expected string or formatter function, got %T", value),
		}
	}
	return nil
}

// ResolveContext returns the context to seed the session with, invoking a
// lazily assigned producer now if one is pending. The resolved mapping
// replaces the pending producer so repeated calls are stable.
func (c *Config) ResolveContext() (Context, error) {
	if c.lazyContext == nil {
		return c.Context, nil
	}
	raw, err := c.lazyContext()
	if err != nil {
		return nil, err
	}
	ctx, err := NormalizeContext(raw)
	if err != nil {
		return nil, err
	}
	c.lazyContext = nil
	c.Context = ctx
	return ctx, nil
}

func stringOption(key string, value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", &InvalidOptionError{Key: key, Reason: fmt.Sprintf("expected string, got %T", value)}
	}
	return s, nil
}

func hookOption(key string, value interface{}) (Hook, error) {
	switch fn := value.(type) {
	case nil:
		return nil, nil
	case Hook:
		return fn, nil
	case func() error:
		return fn, nil
	case func():
		return func() error {
			fn()
			return nil
		}, nil
	default:
		return nil, &InvalidOptionError{Key: key, Reason: fmt.Sprintf("expected a zero-argument function, got %T", value)}
	}
}

// lazyProducer recognizes the supported deferred-context shapes and wraps
// them behind one signature. Returns nil when value is not a producer.
func lazyProducer(value interface{}) func() (interface{}, error) {
	switch fn := value.(type) {
	case func() (interface{}, error):
		return fn
	case func() interface{}:
		return func() (interface{}, error) { return fn(), nil }
	case func() Context:
		return func() (interface{}, error) { return fn(), nil }
	case func() map[string]interface{}:
		return func() (interface{}, error) { return fn(), nil }
	default:
		return nil
	}
}

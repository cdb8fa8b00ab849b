package config

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/brl0/konch/internal/platform"
)

// BannerOptions collects everything that goes into a session banner.
type BannerOptions struct {
	Text      string
	Context   Context
	Format    string
	Formatter Formatter
	Host      *platform.Info
}

// MakeBanner renders the banner printed when a session starts: the runtime
// preamble, the optional custom text, and the formatted context block.
func MakeBanner(opts BannerOptions) (string, error) {
	var b strings.Builder
	b.WriteString(Preamble(opts.Host))
	if opts.Text != "" {
		b.WriteString("\n\n")
		b.WriteString(opts.Text)
	}

	block, err := FormatContext(opts.Context, opts.Format, opts.Formatter)
	if err != nil {
		return "", err
	}
	b.WriteString(block)
	return b.String(), nil
}

// Preamble is the version header every banner starts with, e.g.
// "go1.25.2 devbox linux/amd64 (ubuntu 22.04)".
func Preamble(host *platform.Info) string {
	if host != nil {
		return runtime.Version() + " " + host.Describe()
	}
	return runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH
}

// FormatContext renders the context block appended to banners. A custom
// formatter, when present, receives the raw mapping and replaces the
// built-in modes. An empty context renders as nothing.
func FormatContext(ctx Context, format string, formatter Formatter) (string, error) {
	if formatter != nil {
		return formatter(ctx), nil
	}
	if format == "" {
		format = FormatFull
	}
	if len(ctx) == 0 || format == FormatHide {
		return "", nil
	}

	names := ctx.Names()
	switch format {
	case FormatFull:
		lines := make([]string, 0, len(names))
		for _, name := range names {
			lines = append(lines, name+": "+FormatValue(ctx[name]))
		}
		return "\nContext:\n" + strings.Join(lines, "\n"), nil
	case FormatShort:
		return "\nContext:\n" + strings.Join(names, ", "), nil
	default:
		return "", &InvalidOptionError{
			Key:    OptContextFormat,
			Reason: fmt.Sprintf("unknown format %q", format),
		}
	}
}

// FormatValue renders one context value for banner lines and inspector
// output. Functions render by declared name instead of a raw pointer.
func FormatValue(value interface{}) string {
	if value == nil {
		return "nil"
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Func {
		if name, ok := funcName(rv); ok {
			return "<function " + name + ">"
		}
		return "<function>"
	}
	return fmt.Sprintf("%v", value)
}

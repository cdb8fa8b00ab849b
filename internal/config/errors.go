package config

import (
	"fmt"
	"strings"
)

// InvalidOptionError reports an option that cannot be applied to a Config,
// either because the key is not recognized or because the value has the
// wrong shape.
type InvalidOptionError struct {
	Key    string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid option %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("invalid option %q: unrecognized key", e.Key)
}

// UnnameableValueError reports a context entry whose name could not be
// inferred. Such values must be wrapped in a NamedValue.
type UnnameableValueError struct {
	Value interface{}
}

func (e *UnnameableValueError) Error() string {
	return fmt.Sprintf("cannot infer a name for context value of type %T; use a NamedValue", e.Value)
}

// UnknownProfileError reports a lookup of a config name that was never
// registered.
type UnknownProfileError struct {
	Name  string
	Known []string
}

func (e *UnknownProfileError) Error() string {
	if len(e.Known) > 0 {
		return fmt.Sprintf("%q is not a registered config (registered: %s)",
			e.Name, strings.Join(e.Known, ", "))
	}
	return fmt.Sprintf("%q is not a registered config", e.Name)
}

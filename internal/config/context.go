package config

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strings"
)

// Context is the name-to-value mapping seeded into an interactive session.
type Context map[string]interface{}

// NamedValue binds an explicit name to a context value whose name cannot be
// inferred, such as literals and anonymous functions.
type NamedValue struct {
	Name  string
	Value interface{}
}

// Names returns the context's keys sorted.
func (c Context) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizeContext converts any accepted context shape into a Context.
// Mappings pass through unchanged (normalization is idempotent). Sequences
// are converted entry-wise: NamedValue entries use their explicit name,
// everything else is named by its intrinsic identifier (declared function
// name, named type name). An entry with no inferable name fails with an
// *UnnameableValueError.
func NormalizeContext(value interface{}) (Context, error) {
	switch v := value.(type) {
	case nil:
		return Context{}, nil
	case Context:
		return v, nil
	case map[string]interface{}:
		return Context(v), nil
	case []NamedValue:
		ctx := make(Context, len(v))
		for _, nv := range v {
			if nv.Name == "" {
				return nil, &UnnameableValueError{Value: nv.Value}
			}
			ctx[nv.Name] = nv.Value
		}
		return ctx, nil
	case []interface{}:
		ctx := make(Context, len(v))
		for _, item := range v {
			name, ok := inferName(item)
			if !ok {
				return nil, &UnnameableValueError{Value: item}
			}
			if nv, isNamed := item.(NamedValue); isNamed {
				ctx[name] = nv.Value
			} else {
				ctx[name] = item
			}
		}
		return ctx, nil
	default:
		return nil, &InvalidOptionError{
			Key:    OptContext,
			Reason: fmt.Sprintf("expected mapping, sequence, or producer function, got %T", value),
		}
	}
}

// synthesizedName matches the names the runtime gives function literals
// ("func1", nested "1"), which carry no useful identifier.
var synthesizedName = regexp.MustCompile(`^(func\d+|\d+)$`)

// inferName reports the intrinsic identifier of a context value: the
// explicit NamedValue name, a reflect.Type's name, a function's declared
// name, or the (possibly pointed-to) named type of the value.
func inferName(value interface{}) (string, bool) {
	if value == nil {
		return "", false
	}

	switch v := value.(type) {
	case NamedValue:
		return v.Name, v.Name != ""
	case reflect.Type:
		return v.Name(), v.Name() != ""
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Func {
		return funcName(rv)
	}

	t := rv.Type()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	// Predeclared types (int, string, ...) have no package path; naming a
	// bare literal after its type would collide and confuse.
	if t.Name() != "" && t.PkgPath() != "" {
		return t.Name(), true
	}
	return "", false
}

// funcName reports the declared identifier of a function value. Function
// literals have synthesized names and are rejected.
func funcName(rv reflect.Value) (string, bool) {
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return "", false
	}
	name := strings.TrimSuffix(fn.Name(), "-fm")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" || synthesizedName.MatchString(name) {
		return "", false
	}
	return name, true
}

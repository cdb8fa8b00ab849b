package rcfile

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/brl0/konch/internal/config"
)

// Callable wraps a Lua function so it can sit in a context map and be
// invoked from Go. Calls are protected; Lua errors come back as Go
// errors.
type Callable struct {
	r  *Runtime
	fn *lua.LFunction
}

// Call invokes the function and returns its first result converted to
// a Go value.
func (c *Callable) Call(args ...interface{}) (interface{}, error) {
	largs := make([]lua.LValue, len(args))
	for i, arg := range args {
		largs[i] = c.r.toLua(arg)
	}
	if err := c.r.vm.CallByParam(lua.P{Fn: c.fn, NRet: 1, Protect: true}, largs...); err != nil {
		return nil, err
	}
	ret := c.r.vm.Get(-1)
	c.r.vm.Pop(1)
	return c.r.toGo(ret), nil
}

func (c *Callable) String() string {
	return "<function>"
}

// toGo converts a Lua value into its Go equivalent. Tables become
// slices (contiguous integer keys) or string-keyed maps; functions
// become *Callable.
func (r *Runtime) toGo(v lua.LValue) interface{} {
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTBool:
		return bool(v.(lua.LBool))
	case lua.LTNumber:
		return float64(v.(lua.LNumber))
	case lua.LTString:
		return v.String()
	case lua.LTFunction:
		return &Callable{r: r, fn: v.(*lua.LFunction)}
	case lua.LTTable:
		return r.tableToGo(v.(*lua.LTable))
	default:
		return v.String()
	}
}

// tableToGo converts a table with a non-empty array part to a slice and
// anything else to a string-keyed map. Keys that are neither positive
// integers nor strings are dropped.
func (r *Runtime) tableToGo(t *lua.LTable) interface{} {
	if n := t.MaxN(); n > 0 {
		items := make([]interface{}, 0, n)
		for i := 1; i <= n; i++ {
			items = append(items, r.toGo(t.RawGetInt(i)))
		}
		return items
	}
	m := make(map[string]interface{})
	t.ForEach(func(key, value lua.LValue) {
		if key.Type() == lua.LTString {
			m[key.String()] = r.toGo(value)
		}
	})
	return m
}

// toLua converts a Go value into a Lua value for passing into user
// functions.
func (r *Runtime) toLua(v interface{}) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case config.Context:
		return r.mapToLua(val)
	case map[string]interface{}:
		return r.mapToLua(val)
	case []interface{}:
		t := r.vm.NewTable()
		for _, item := range val {
			t.Append(r.toLua(item))
		}
		return t
	case *Callable:
		return val.fn
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}

func (r *Runtime) mapToLua(m map[string]interface{}) lua.LValue {
	t := r.vm.NewTable()
	for key, value := range m {
		r.vm.SetField(t, key, r.toLua(value))
	}
	return t
}

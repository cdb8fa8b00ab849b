package rcfile

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/brl0/konch/internal/config"
	"github.com/brl0/konch/internal/logging"
	"github.com/brl0/konch/internal/platform"
)

// Runtime executes config files inside a sandboxed Lua VM wired to a
// config registry. The VM stays alive for the whole session so that
// hooks, formatters, and lazy context producers declared by the file
// remain callable after execution finishes.
type Runtime struct {
	vm       *lua.LState
	registry *config.Registry
	logger   logging.Logger
}

// NewRuntime creates a runtime bound to the given registry. Host
// platform details are exposed to config files as a read-only
// "platform" table; pass nil to omit it.
func NewRuntime(registry *config.Registry, host *platform.Info, logger logging.Logger) *Runtime {
	if logger == nil {
		logger = logging.Noop()
	}
	r := &Runtime{vm: newSandboxedVM(), registry: registry, logger: logger}
	r.installAPI()
	if host != nil {
		platform.InjectTable(r.vm, host)
	}
	return r
}

// Close releases the underlying Lua state. Hooks and lazy context
// producers obtained from this runtime must not be called after Close.
func (r *Runtime) Close() {
	r.vm.Close()
}

// ExecuteFile runs the config file at path. Declarations made by the
// file land in the registry; file-level setup and teardown functions
// become available through ApplyFileHooks afterwards.
func (r *Runtime) ExecuteFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: path}
		}
		return err
	}
	if err := r.vm.DoFile(path); err != nil {
		return &ExecError{Path: path, Message: "config file error", Detail: err.Error()}
	}
	r.logger.Debugw("config file executed", "path", path, "profiles", r.registry.Names())
	return nil
}

// ExecuteString runs in-memory config code.
func (r *Runtime) ExecuteString(src string) error {
	if err := r.vm.DoString(src); err != nil {
		return &ExecError{Message: "config file error", Detail: err.Error()}
	}
	return nil
}

// ApplyFileHooks fills cfg's setup and teardown hooks from file-level
// functions of the same name, for profiles that did not set their own.
func (r *Runtime) ApplyFileHooks(cfg *config.Config) {
	if cfg.Setup == nil {
		if fn, ok := r.vm.GetGlobal("setup").(*lua.LFunction); ok {
			cfg.Setup = r.hook(fn)
		}
	}
	if cfg.Teardown == nil {
		if fn, ok := r.vm.GetGlobal("teardown").(*lua.LFunction); ok {
			cfg.Teardown = r.hook(fn)
		}
	}
}

// installAPI exposes the konch table to config files:
//
//	konch.config({...})                -- update the default profile
//	konch.named_config(name, {...})    -- declare or update a named profile
//
// named_config also accepts a list of names; every name then refers to
// the same profile.
func (r *Runtime) installAPI() {
	t := r.vm.NewTable()
	r.vm.SetField(t, "config", r.vm.NewFunction(r.luaConfig))
	r.vm.SetField(t, "named_config", r.vm.NewFunction(r.luaNamedConfig))
	r.vm.SetGlobal("konch", t)
}

func (r *Runtime) luaConfig(L *lua.LState) int {
	opts := r.optionsFromTable(L.CheckTable(1))
	if err := r.registry.Update(opts); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

func (r *Runtime) luaNamedConfig(L *lua.LState) int {
	names, err := profileNames(L.Get(1))
	if err != nil {
		L.RaiseError("%s", err)
		return 0
	}
	opts := r.optionsFromTable(L.CheckTable(2))
	if _, err := r.registry.NamedConfig(names, opts); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// profileNames accepts a single profile name or a list of alias names.
func profileNames(v lua.LValue) ([]string, error) {
	switch v.Type() {
	case lua.LTString:
		return []string{v.String()}, nil
	case lua.LTTable:
		var names []string
		v.(*lua.LTable).ForEach(func(_, item lua.LValue) {
			if item.Type() == lua.LTString {
				names = append(names, item.String())
			}
		})
		if len(names) == 0 {
			return nil, fmt.Errorf("named_config: name list is empty")
		}
		return names, nil
	default:
		return nil, fmt.Errorf("named_config: name must be a string or a list of strings, got %s", v.Type())
	}
}

// optionsFromTable converts a config table into the option map the
// config layer understands. Functions are wrapped so they stay callable
// from Go after execution; the context keeps its Lua shape (map or
// list) and is normalized downstream.
func (r *Runtime) optionsFromTable(t *lua.LTable) map[string]interface{} {
	opts := make(map[string]interface{})
	t.ForEach(func(key, value lua.LValue) {
		if key.Type() != lua.LTString {
			return
		}
		name := key.String()
		switch name {
		case config.OptSetup, config.OptTeardown:
			if fn, ok := value.(*lua.LFunction); ok {
				opts[name] = r.hook(fn)
				return
			}
		case config.OptContext:
			if fn, ok := value.(*lua.LFunction); ok {
				opts[name] = r.lazyContext(fn)
			} else {
				opts[name] = r.contextValue(value)
			}
			return
		case config.OptContextFormat:
			if fn, ok := value.(*lua.LFunction); ok {
				opts[name] = r.formatter(fn)
				return
			}
		}
		opts[name] = r.toGo(value)
	})
	return opts
}

// hook wraps a Lua function as a config.Hook.
func (r *Runtime) hook(fn *lua.LFunction) config.Hook {
	return func() error {
		return r.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	}
}

// lazyContext wraps a Lua function as a deferred context producer. The
// function runs once, just before the shell starts.
func (r *Runtime) lazyContext(fn *lua.LFunction) func() (interface{}, error) {
	return func() (interface{}, error) {
		if err := r.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
			return nil, err
		}
		ret := r.vm.Get(-1)
		r.vm.Pop(1)
		return r.contextValue(ret), nil
	}
}

// formatter wraps a Lua function as a custom banner formatter. The
// function receives the context as a table and must return a string.
func (r *Runtime) formatter(fn *lua.LFunction) config.Formatter {
	return func(ctx config.Context) string {
		if err := r.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, r.toLua(ctx)); err != nil {
			r.logger.Warnw("context formatter failed", "error", err)
			return ""
		}
		ret := r.vm.Get(-1)
		r.vm.Pop(1)
		return lua.LVAsString(ret)
	}
}

// contextValue converts a context option. Entries of a list-form table
// may be {name = ..., value = ...} pairs, which become config.NamedValue
// items so the normalizer can name them.
func (r *Runtime) contextValue(v lua.LValue) interface{} {
	converted := r.toGo(v)
	items, ok := converted.([]interface{})
	if !ok {
		return converted
	}
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name, ok := m["name"].(string)
		if !ok {
			continue
		}
		value, ok := m["value"]
		if !ok {
			continue
		}
		items[i] = config.NamedValue{Name: name, Value: value}
	}
	return items
}

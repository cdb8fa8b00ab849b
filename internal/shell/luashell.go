package shell

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/brl0/konch/internal/config"
	"github.com/brl0/konch/internal/rcfile"
)

// luaShell runs a line-reader session on a fresh, unsandboxed Lua VM.
// Trust was granted before launch, so the full standard library is
// open. The context is exposed as a context table plus one global per
// name. Expressions are return-wrapped so their values print; unfinished
// statements continue on the next line. Cancellation of the session
// context ends the loop cleanly.
type luaShell struct {
	isTerminal func() bool
}

func newLuaShell() *luaShell {
	return &luaShell{isTerminal: stdinIsTerminal}
}

func (s *luaShell) Name() string {
	return BackendLua
}

func (s *luaShell) Available() error {
	if !s.isTerminal() {
		return fmt.Errorf("shell %q needs stdin on a terminal", BackendLua)
	}
	return nil
}

func (s *luaShell) Start(ctx context.Context, opts Options) error {
	L := lua.NewState()
	defer L.Close()
	seedContext(L, opts.Context)

	if opts.Banner != "" {
		fmt.Fprintln(opts.Stdout, opts.Banner)
	}
	prompt := opts.Prompt
	if prompt == "" {
		prompt = "> "
	}

	lines, readErr := readLines(ctx, opts.Stdin)
	var pending string
	fmt.Fprint(opts.Stdout, prompt)
	for {
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(opts.Stdout)
			return nil
		case l, ok := <-lines:
			if !ok {
				return readErr()
			}
			line = l
		}

		if pending == "" {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				fmt.Fprint(opts.Stdout, prompt)
				continue
			}
			if trimmed == "exit" || trimmed == "quit" {
				return nil
			}

			// Expression first, so bare expressions print their value.
			fn, err := L.LoadString("return " + line)
			if err == nil {
				s.call(L, fn, opts)
				fmt.Fprint(opts.Stdout, prompt)
				continue
			}
			if incompleteChunk(err) {
				pending = "return " + line + "\n"
				fmt.Fprint(opts.Stdout, ">> ")
				continue
			}
		}

		src := pending + line
		fn, err := L.LoadString(src)
		if err != nil {
			if incompleteChunk(err) {
				pending = src + "\n"
				fmt.Fprint(opts.Stdout, ">> ")
				continue
			}
			pending = ""
			fmt.Fprintln(opts.Stderr, err)
			fmt.Fprint(opts.Stdout, prompt)
			continue
		}
		pending = ""
		s.call(L, fn, opts)
		fmt.Fprint(opts.Stdout, prompt)
	}
}

// call runs a compiled chunk and prints anything it returns.
func (s *luaShell) call(L *lua.LState, fn *lua.LFunction, opts Options) {
	base := L.GetTop()
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.SetTop(base)
		fmt.Fprintln(opts.Stderr, err)
		return
	}
	top := L.GetTop()
	if top == base {
		return
	}
	parts := make([]string, 0, top-base)
	for i := base + 1; i <= top; i++ {
		parts = append(parts, L.Get(i).String())
	}
	L.SetTop(base)
	fmt.Fprintln(opts.Stdout, opts.Output+strings.Join(parts, "\t"))
}

// incompleteChunk reports whether a compile error means the input
// continues on the next line. gopher-lua reports those errors at an EOF
// position.
func incompleteChunk(err error) bool {
	return strings.Contains(err.Error(), "at EOF")
}

// seedContext exposes the context as a context table plus one global
// per name. Lua takes any string as a key, so no name is skipped.
func seedContext(L *lua.LState, ctx config.Context) {
	t := L.NewTable()
	for name, value := range ctx {
		lv := toLValue(L, value)
		L.SetField(t, name, lv)
		L.SetGlobal(name, lv)
	}
	L.SetGlobal("context", t)
}

// toLValue converts a Go context value for the session VM. Callables
// declared in the config file stay callable by bridging back into the
// config runtime's VM.
func toLValue(L *lua.LState, value interface{}) lua.LValue {
	switch v := value.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case config.Context:
		return toLValue(L, map[string]interface{}(v))
	case map[string]interface{}:
		t := L.NewTable()
		for key, item := range v {
			L.SetField(t, key, toLValue(L, item))
		}
		return t
	case []interface{}:
		t := L.NewTable()
		for _, item := range v {
			t.Append(toLValue(L, item))
		}
		return t
	case *rcfile.Callable:
		return L.NewFunction(func(call *lua.LState) int {
			n := call.GetTop()
			args := make([]interface{}, n)
			for i := 1; i <= n; i++ {
				args[i-1] = fromLValue(call.Get(i))
			}
			result, err := v.Call(args...)
			if err != nil {
				call.RaiseError("%s", err)
				return 0
			}
			call.Push(toLValue(call, result))
			return 1
		})
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}

// fromLValue converts session values for bridged calls. Tables and
// functions do not cross VMs; they go over as their printed form.
func fromLValue(v lua.LValue) interface{} {
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTBool:
		return bool(v.(lua.LBool))
	case lua.LTNumber:
		return float64(v.(lua.LNumber))
	default:
		return v.String()
	}
}

package rcfile

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxVM strips a Lua VM down to what a config file legitimately
// needs. Config files describe shells and context values; they cannot
// run commands, touch the filesystem, or pull in external code, so the
// os and io libraries and every code-loading entry point are removed.
//
// string, table, and math stay available, as do the basic utilities
// (type, tostring, tonumber, pairs, ipairs, and friends).
func sandboxVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	// The debug library can reach around the restrictions above.
	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a Lua state with the sandbox applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxVM(L)
	return L
}

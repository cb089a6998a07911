package module

import (
	"fmt"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"corelith/internal/core/subcontext"
)

// LuaCodeLoader opens a module's `<Name>.lua` script next to its
// Module.modconfig with an embedded gopher-lua VM, calling a global Lua
// init/shutdown function in place of a compiled plugin's exported
// symbols. applyLuaSandbox nils out the globals a script could use to
// reach outside its own VM before the script ever runs.
type LuaCodeLoader struct {
	ctx *subcontext.Context
}

// NewLuaCodeLoader returns a loader for Lua-runtime modules.
func NewLuaCodeLoader(ctx *subcontext.Context) *LuaCodeLoader {
	return &LuaCodeLoader{ctx: ctx}
}

func scriptPath(info Info) string {
	return filepath.Join(info.Dir, info.Name+".lua")
}

func applyLuaSandbox(state *lua.LState) {
	state.SetGlobal("io", lua.LNil)
	state.SetGlobal("dofile", lua.LNil)
	state.SetGlobal("loadfile", lua.LNil)
	state.SetGlobal("os", lua.LNil)
	state.SetGlobal("debug", lua.LNil)
	state.SetGlobal("package", lua.LNil)
	state.SetGlobal("require", lua.LNil)
}

// Open loads the script, runs its top level (declaring its init/shutdown
// functions as globals), and resolves those globals by the same
// same override chain used for native symbols.
func (l *LuaCodeLoader) Open(info Info, prefs *Preferences) (Handle, error) {
	state := lua.NewState()
	applyLuaSandbox(state)

	path := scriptPath(info)
	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, fmt.Errorf("module %s: running %s: %w", info.Name, path, err)
	}

	initName := ResolveInitSymbol(info, prefs)
	shutdownName := ResolveShutdownSymbol(info, prefs)

	initFn, ok := state.GetGlobal(initName).(*lua.LFunction)
	if !ok {
		state.Close()
		return nil, fmt.Errorf("module %s: script has no init function %q", info.Name, initName)
	}
	shutdownFn, ok := state.GetGlobal(shutdownName).(*lua.LFunction)
	if !ok {
		state.Close()
		return nil, fmt.Errorf("module %s: script has no shutdown function %q", info.Name, shutdownName)
	}

	return &luaHandle{
		ctx:        l.ctx,
		state:      state,
		initFn:     initFn,
		shutdownFn: shutdownFn,
	}, nil
}

// luaHandle bridges a ModuleResources into Lua by setting a single
// global function, register_subcontext(table), before calling the
// script's init function with no arguments — a script attaches itself to the frame
// loop by supplying Lua functions for the hooks it cares about
// (pre_update, update, post_update, shutdown), adapted into a
// subcontext.Subcontext by scriptSubcontext.
type luaHandle struct {
	ctx        *subcontext.Context
	state      *lua.LState
	initFn     *lua.LFunction
	shutdownFn *lua.LFunction
}

func (h *luaHandle) Init(res *ModuleResources) error {
	h.state.SetGlobal("register_subcontext", h.state.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		res.RegisterSubcontext(newScriptSubcontext(L, tbl))
		return 0
	}))
	return h.state.CallByParam(lua.P{Fn: h.initFn, NRet: 0, Protect: true})
}

func (h *luaHandle) Shutdown(res *ModuleResources) error {
	return h.state.CallByParam(lua.P{Fn: h.shutdownFn, NRet: 0, Protect: true})
}

func (h *luaHandle) Close() error {
	h.state.Close()
	return nil
}

// scriptSubcontext adapts a Lua table of optional hook functions into
// subcontext.Subcontext, so a pure-script module can participate in the
// frame loop without any compiled Go code of its own.
type scriptSubcontext struct {
	subcontext.NoopSubcontext
	state *lua.LState
	table *lua.LTable
}

func newScriptSubcontext(state *lua.LState, tbl *lua.LTable) *scriptSubcontext {
	return &scriptSubcontext{state: state, table: tbl}
}

func (s *scriptSubcontext) callHook(name string) {
	fn, ok := s.table.RawGetString(name).(*lua.LFunction)
	if !ok {
		return
	}
	_ = s.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
}

func (s *scriptSubcontext) PreUpdate()          { s.callHook("pre_update") }
func (s *scriptSubcontext) Update(dt float64)   { s.callHook("update") }
func (s *scriptSubcontext) PostUpdate()         { s.callHook("post_update") }
func (s *scriptSubcontext) Shutdown()           { s.callHook("shutdown") }

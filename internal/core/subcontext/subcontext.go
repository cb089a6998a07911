// Package subcontext provides the process-wide Context singleton: a
// type-keyed registry of Subcontexts that receive frame callbacks and
// module-lifecycle notifications, plus the Profiler and the shared
// running/ImGui flags every subcontext reads.
package subcontext

import (
	"fmt"
	"reflect"
)

// Subcontext is a process-wide service hosted by the Context: input,
// rendering, audio, UI — anything a module wants notified every frame
// and on every module load/unload. Embed NoopSubcontext to pick up
// no-op defaults for the hooks a given subcontext doesn't care about.
type Subcontext interface {
	Initialize() error
	PreUpdate()
	Update(dt float64)
	ImGui(dt float64, toSubwindow bool)
	PostUpdate()
	Shutdown()

	BeforeLoadModule(name string)
	AfterLoadModule(name string)
	BeforeUnloadModule(name string)
	AfterUnloadModule(name string)
	BeforeLoadBatch(names []string)
	AfterLoadBatch(names []string)
	BeforeUnloadBatch(names []string)
	AfterUnloadBatch(names []string)
}

// NoopSubcontext implements every Subcontext hook as a no-op.
type NoopSubcontext struct{}

func (NoopSubcontext) Initialize() error                 { return nil }
func (NoopSubcontext) PreUpdate()                          {}
func (NoopSubcontext) Update(dt float64)                   {}
func (NoopSubcontext) ImGui(dt float64, toSubwindow bool)  {}
func (NoopSubcontext) PostUpdate()                         {}
func (NoopSubcontext) Shutdown()                           {}
func (NoopSubcontext) BeforeLoadModule(name string)        {}
func (NoopSubcontext) AfterLoadModule(name string)         {}
func (NoopSubcontext) BeforeUnloadModule(name string)      {}
func (NoopSubcontext) AfterUnloadModule(name string)       {}
func (NoopSubcontext) BeforeLoadBatch(names []string)      {}
func (NoopSubcontext) AfterLoadBatch(names []string)       {}
func (NoopSubcontext) BeforeUnloadBatch(names []string)    {}
func (NoopSubcontext) AfterUnloadBatch(names []string)     {}

// Context is the process-wide singleton: exactly one instance exists for
// the life of the process, and every dynamically loaded module shares it
// by construction (it is resolved through the host process's symbol
// table, not duplicated per plugin image).
type Context struct {
	subcontexts map[reflect.Type]Subcontext
	order       []reflect.Type

	Profiler *Profiler

	imguiEnabled bool
	running      bool
}

var singleton *Context

// Get returns the process Context, creating it on first call.
func Get() *Context {
	if singleton == nil {
		singleton = newContext()
	}
	return singleton
}

// ResetForTest discards the singleton so tests can start from a clean
// Context. Production code never calls this.
func ResetForTest() {
	singleton = nil
}

func newContext() *Context {
	return &Context{
		subcontexts: make(map[reflect.Type]Subcontext),
		Profiler:    NewProfiler(),
		running:     true,
	}
}

func keyOf(sc Subcontext) reflect.Type {
	return reflect.TypeOf(sc)
}

// Register adds sc under its own concrete type. Registering the same
// subcontext type twice is a programmer error.
func (c *Context) Register(sc Subcontext) {
	key := keyOf(sc)
	if _, exists := c.subcontexts[key]; exists {
		panic(fmt.Sprintf("subcontext: %s is already registered", key))
	}
	c.subcontexts[key] = sc
	c.order = append(c.order, key)
}

// Deregister removes sc's type from the context.
func (c *Context) Deregister(sc Subcontext) {
	key := keyOf(sc)
	delete(c.subcontexts, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// lookup returns the subcontext registered under key, if any. Callers
// outside this package use the package-level generic Lookup function,
// which performs the type assertion for them.
func (c *Context) lookup(key reflect.Type) (Subcontext, bool) {
	sc, ok := c.subcontexts[key]
	return sc, ok
}

// Lookup returns the Context's subcontext of type T.
func Lookup[T Subcontext](c *Context) (T, bool) {
	var zero T
	sc, ok := c.lookup(reflect.TypeOf(zero))
	if !ok {
		return zero, false
	}
	typed, ok := sc.(T)
	return typed, ok
}

// IsRunning reports whether the engine should keep ticking frames.
func (c *Context) IsRunning() bool { return c.running }

// RequestShutdown is called by a subcontext to ask the engine to stop
// after the current frame.
func (c *Context) RequestShutdown() { c.running = false }

// ImGuiEnabled reports whether ImGui rendering is currently turned on.
func (c *Context) ImGuiEnabled() bool { return c.imguiEnabled }

// SetImGuiEnabled toggles ImGui rendering for subsequent frames.
func (c *Context) SetImGuiEnabled(enabled bool) { c.imguiEnabled = enabled }

func (c *Context) forEach(fn func(Subcontext)) {
	for _, key := range c.order {
		fn(c.subcontexts[key])
	}
}

// PreUpdate calls PreUpdate on every registered subcontext, in
// registration order.
func (c *Context) PreUpdate() { c.forEach(func(sc Subcontext) { sc.PreUpdate() }) }

// Update calls Update on every registered subcontext.
func (c *Context) Update(dt float64) { c.forEach(func(sc Subcontext) { sc.Update(dt) }) }

// ImGui calls ImGui on every registered subcontext, but only when ImGui
// rendering is enabled.
func (c *Context) ImGui(dt float64, toSubwindow bool) {
	if !c.imguiEnabled {
		return
	}
	c.forEach(func(sc Subcontext) { sc.ImGui(dt, toSubwindow) })
}

// PostUpdate calls PostUpdate on every registered subcontext, then
// clears the frame's profiler measurements.
func (c *Context) PostUpdate() {
	c.forEach(func(sc Subcontext) { sc.PostUpdate() })
	c.Profiler.EndFrame()
}

// Shutdown calls Shutdown on every registered subcontext.
func (c *Context) Shutdown() { c.forEach(func(sc Subcontext) { sc.Shutdown() }) }

// NotifyBeforeLoadModule fans a module-manager notification out to every
// subcontext before a module's init symbol runs.
func (c *Context) NotifyBeforeLoadModule(name string) {
	c.forEach(func(sc Subcontext) { sc.BeforeLoadModule(name) })
}

// NotifyAfterLoadModule fans out after a module finishes initializing.
func (c *Context) NotifyAfterLoadModule(name string) {
	c.forEach(func(sc Subcontext) { sc.AfterLoadModule(name) })
}

// NotifyBeforeUnloadModule fans out before a module's resources unload.
func (c *Context) NotifyBeforeUnloadModule(name string) {
	c.forEach(func(sc Subcontext) { sc.BeforeUnloadModule(name) })
}

// NotifyAfterUnloadModule fans out after a module's shutdown symbol runs.
func (c *Context) NotifyAfterUnloadModule(name string) {
	c.forEach(func(sc Subcontext) { sc.AfterUnloadModule(name) })
}

// NotifyBeforeLoadBatch fans out once before a whole pending-load batch
// is processed.
func (c *Context) NotifyBeforeLoadBatch(names []string) {
	c.forEach(func(sc Subcontext) { sc.BeforeLoadBatch(names) })
}

// NotifyAfterLoadBatch fans out once after a whole pending-load batch.
func (c *Context) NotifyAfterLoadBatch(names []string) {
	c.forEach(func(sc Subcontext) { sc.AfterLoadBatch(names) })
}

// NotifyBeforeUnloadBatch fans out once before a pending-unload batch.
func (c *Context) NotifyBeforeUnloadBatch(names []string) {
	c.forEach(func(sc Subcontext) { sc.BeforeUnloadBatch(names) })
}

// NotifyAfterUnloadBatch fans out once after a pending-unload batch.
func (c *Context) NotifyAfterUnloadBatch(names []string) {
	c.forEach(func(sc Subcontext) { sc.AfterUnloadBatch(names) })
}

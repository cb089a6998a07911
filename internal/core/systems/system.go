// Package systems provides the per-frame System and SystemsGroup
// abstraction: named, dependency-ordered units of logic that a module
// registers into a group, and groups that the engine drives in
// topological order once per frame.
package systems

// System is one unit of per-frame logic, keyed by its own concrete Go
// type within the group that owns it. A system need not implement every
// phase meaningfully; embedding NoopSystem gives every phase a no-op
// default so a system can override only the ones it cares about.
type System interface {
	Initialize() error
	PreUpdate()
	Update(dt float64)
	ImGui(dt float64, toSubwindow bool)
	PostUpdate()
	Shutdown()
}

// NoopSystem implements every System phase as a no-op. Embed it to avoid
// boilerplate for systems that only care about Update, the common case.
type NoopSystem struct{}

func (NoopSystem) Initialize() error                   { return nil }
func (NoopSystem) PreUpdate()                           {}
func (NoopSystem) Update(dt float64)                    {}
func (NoopSystem) ImGui(dt float64, toSubwindow bool)   {}
func (NoopSystem) PostUpdate()                          {}
func (NoopSystem) Shutdown()                            {}

package module

// Module is one entry in the manager's view of the world: its parsed
// descriptor, its resources once initialized, and the open code handle
// that owns its Resource-register callbacks.
type Module struct {
	Info      Info
	Resources *ModuleResources

	handle Handle
}

func newModule(info Info) *Module {
	return &Module{Info: info}
}

// Status reports Uninitialized until the module has been initialized at
// least once.
func (m *Module) Status() Status {
	if m.Resources == nil {
		return Uninitialized
	}
	return m.Resources.Status()
}

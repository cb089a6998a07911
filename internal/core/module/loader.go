package module

// Handle is an opened module's executable code: its init/shutdown entry
// points, located and ready to call, plus whatever the backend needs to
// release on Close.
type Handle interface {
	// Init invokes the module's resolved init function, passing res for
	// the module to call register* on.
	Init(res *ModuleResources) error
	// Shutdown invokes the module's resolved shutdown function.
	Shutdown(res *ModuleResources) error
	// Close releases the underlying code (unmaps a shared library,
	// drops a script VM). Called once: after Shutdown, or right after an
	// Init that returned an error.
	Close() error
}

// CodeLoader opens a module's executable code for the manager to drive
// through its lifecycle. The manager picks a loader per module based on
// Info.Runtime.
type CodeLoader interface {
	Open(info Info, prefs *Preferences) (Handle, error)
}

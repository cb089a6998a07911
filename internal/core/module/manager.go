package module

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"corelith/internal/core/depgraph"
	"corelith/internal/core/ecs"
	"corelith/internal/core/serialization"
	"corelith/internal/core/subcontext"
	"corelith/internal/core/systems"
)

// Manager discovers modules under a directory, tracks their dependency
// graph, and schedules their load and unload at frame boundaries per
// dependency graph.
type Manager struct {
	ctx         *subcontext.Context
	systems     *systems.Registry
	serializers *serialization.Registry
	entities    *ecs.EntityManager
	prefs       *Preferences
	loaders     map[Runtime]CodeLoader

	available map[string]Info
	graph     *depgraph.Graph[string]

	loaded         map[string]*Module
	pendingLoads   []string
	pendingUnloads []string
}

// NewManager creates a manager bound to the registries modules register
// resources into, and the entity manager the coarse unload policy
// resets.
func NewManager(ctx *subcontext.Context, sysReg *systems.Registry, serReg *serialization.Registry, entities *ecs.EntityManager, prefs *Preferences) *Manager {
	return &Manager{
		ctx:         ctx,
		systems:     sysReg,
		serializers: serReg,
		entities:    entities,
		prefs:       prefs,
		loaders: map[Runtime]CodeLoader{
			RuntimeNative: NewPluginCodeLoader(),
			RuntimeLua:    NewLuaCodeLoader(ctx),
		},
		available: make(map[string]Info),
		graph:     depgraph.New[string](),
		loaded:    make(map[string]*Module),
	}
}

// Discover scans dir for `<Name>/Module.modconfig` subdirectories,
// rebuilding the set of available modules and their dependency graph.
// Invalid configs are skipped with a logged warning rather than
// aborting discovery for the rest. A missing or unreadable modules
// directory is a programmer error.
func (mgr *Manager) Discover(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		fail("Discover", "cannot read modules directory %q: %v", dir, err)
	}

	discovered := make(map[string]Info)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		info, err := ParseInfoFile(sub)
		if err != nil {
			logrus.WithField("dir", sub).WithError(err).Warn("module discovery: skipping invalid Module.modconfig")
			continue
		}
		discovered[info.Name] = info
	}

	mgr.available = discovered
	mgr.rebuildGraph()
}

func (mgr *Manager) rebuildGraph() {
	g := depgraph.New[string]()
	for name := range mgr.available {
		g.Add(name)
	}
	for name, info := range mgr.available {
		for _, dep := range info.Dependencies {
			if !g.Contains(dep.Module) {
				logrus.WithFields(logrus.Fields{"module": name, "dependency": dep.Module}).
					Warn("module discovery: dependency is not available, module cannot be loaded")
				continue
			}
			g.AddEdge(dep.Module, name)
		}
	}
	mgr.graph = g
}

// Available returns the descriptors of every currently discovered
// module.
func (mgr *Manager) Available() map[string]Info {
	return mgr.available
}

// IsLoaded reports whether name is currently an initialized module.
func (mgr *Manager) IsLoaded(name string) bool {
	_, ok := mgr.loaded[name]
	return ok
}

func (mgr *Manager) isScheduledToLoad(name string) bool {
	for _, n := range mgr.pendingLoads {
		if n == name {
			return true
		}
	}
	return false
}

func (mgr *Manager) isScheduledToUnload(name string) bool {
	for _, n := range mgr.pendingUnloads {
		if n == name {
			return true
		}
	}
	return false
}

// LoadAtBeginOfFrame schedules name to load at the start of the next
// frame. Its preconditions are the manager's own contract: a
// caller violating them is a programmer error, not a recoverable
// outcome, since respecting dependency order is the caller's job (the
// convenience LoadWithDependencies does this automatically).
func (mgr *Manager) LoadAtBeginOfFrame(name string) {
	info, ok := mgr.available[name]
	if !ok {
		fail("LoadAtBeginOfFrame", "module %q is not available", name)
	}
	if mgr.IsLoaded(name) {
		fail("LoadAtBeginOfFrame", "module %q is already loaded", name)
	}
	if mgr.isScheduledToLoad(name) {
		fail("LoadAtBeginOfFrame", "module %q is already scheduled to load", name)
	}
	for _, dep := range info.Dependencies {
		if !mgr.IsLoaded(dep.Module) && !mgr.isScheduledToLoad(dep.Module) {
			fail("LoadAtBeginOfFrame", "module %q depends on %q, which will not be loaded next frame", name, dep.Module)
		}
	}
	mgr.pendingLoads = append(mgr.pendingLoads, name)
}

// UnloadAtEndOfFrame schedules name to unload at the end of the current
// frame.
func (mgr *Manager) UnloadAtEndOfFrame(name string) {
	if !mgr.IsLoaded(name) || mgr.isScheduledToUnload(name) {
		fail("UnloadAtEndOfFrame", "module %q will not still be loaded next frame", name)
	}
	for _, dependant := range mgr.graph.DirectNextOf(name) {
		if mgr.IsLoaded(dependant) && !mgr.isScheduledToUnload(dependant) {
			fail("UnloadAtEndOfFrame", "module %q has a dependant %q that will still be loaded next frame", name, dependant)
		}
	}
	mgr.pendingUnloads = append(mgr.pendingUnloads, name)
}

// LoadWithDependencies schedules name and every ancestor it depends on
// that isn't already loaded or scheduled, in dependency order.
func (mgr *Manager) LoadWithDependencies(name string) {
	order := mgr.graph.AllNodesFromVToStart(name)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	for _, n := range order {
		if mgr.IsLoaded(n) || mgr.isScheduledToLoad(n) {
			continue
		}
		mgr.LoadAtBeginOfFrame(n)
	}
}

// UnloadWithDependants schedules every module that depends on name,
// deepest first, followed by name itself.
func (mgr *Manager) UnloadWithDependants(name string) {
	order := mgr.graph.AllNodesFromVToEnd(name)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	for _, n := range order {
		if !mgr.IsLoaded(n) || mgr.isScheduledToUnload(n) {
			continue
		}
		mgr.UnloadAtEndOfFrame(n)
	}
}

// RunPendingLoads performs every scheduled load, firing the subcontext
// batch and per-module notifications around it. The engine calls this
// at the start of each frame, before the subcontexts' pre-update.
func (mgr *Manager) RunPendingLoads() {
	if len(mgr.pendingLoads) == 0 {
		return
	}
	names := mgr.pendingLoads
	mgr.pendingLoads = nil

	mgr.ctx.NotifyBeforeLoadBatch(names)
	for _, name := range names {
		mgr.ctx.NotifyBeforeLoadModule(name)
		mgr.initializeAndAddModule(name)
		mgr.ctx.NotifyAfterLoadModule(name)
	}
	mgr.ctx.NotifyAfterLoadBatch(names)
}

// RunPendingUnloads is RunPendingLoads' symmetric counterpart, called
// by the engine after the subcontexts' post-update.
func (mgr *Manager) RunPendingUnloads() {
	if len(mgr.pendingUnloads) == 0 {
		return
	}
	names := mgr.pendingUnloads
	mgr.pendingUnloads = nil

	mgr.ctx.NotifyBeforeUnloadBatch(names)
	for _, name := range names {
		mgr.ctx.NotifyBeforeUnloadModule(name)
		mgr.removeAndShutdownModule(name)
		mgr.ctx.NotifyAfterUnloadModule(name)
	}
	mgr.ctx.NotifyAfterUnloadBatch(names)
}

// initializeAndAddModule opens and initializes one module. A failure to
// open the module's code indicates a broken deployment and is a
// programmer error. A failing init function is logged and the module is
// left out of the loaded set rather than aborting the whole batch.
func (mgr *Manager) initializeAndAddModule(name string) {
	info := mgr.available[name]
	res := NewModuleResources(mgr.ctx, mgr.systems, mgr.serializers)
	res.status = Initializing

	loader, ok := mgr.loaders[info.Runtime]
	if !ok {
		logrus.WithField("module", name).Warn("module load: unknown runtime, skipping")
		return
	}

	handle, err := loader.Open(info, mgr.prefs)
	if err != nil {
		fail("initializeAndAddModule", "module %q: failed to open module code: %v", name, err)
	}

	if err := handle.Init(res); err != nil {
		logrus.WithField("module", name).WithError(err).Warn("module load: init function failed")
		_ = handle.Close()
		return
	}

	res.status = Initialized
	res.set.LoadAll()

	mod := newModule(info)
	mod.Resources = res
	mod.handle = handle
	mgr.loaded[name] = mod
}

// removeAndShutdownModule shuts down one module, followed by the coarse
// entity-manager wipe, a simpler but correct resolution for the
// "what do we do about entities owned by the unloading module" open
// question.
func (mgr *Manager) removeAndShutdownModule(name string) {
	mod, ok := mgr.loaded[name]
	if !ok {
		return
	}
	delete(mgr.loaded, name)

	mod.Resources.set.UnloadAll()
	mod.Resources.status = ShuttingDown
	if err := mod.handle.Shutdown(mod.Resources); err != nil {
		logrus.WithField("module", name).WithError(err).Warn("module unload: shutdown function failed")
	}
	if err := mod.handle.Close(); err != nil {
		logrus.WithField("module", name).WithError(err).Warn("module unload: failed to release module code")
	}
	mod.Resources.status = Uninitialized

	if mgr.entities != nil {
		mgr.entities.Reset()
	}
}

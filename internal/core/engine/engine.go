package engine

import (
	"corelith/internal/core/ecs"
	"corelith/internal/core/module"
	"corelith/internal/core/resource"
	"corelith/internal/core/serialization"
	"corelith/internal/core/subcontext"
	"corelith/internal/core/systems"
)

// Engine owns the process-wide runtime state: the entity store, the
// systems and subcontext registries, the serialization registry, and
// the module manager. One Engine exists per running process.
type Engine struct {
	Context     *subcontext.Context
	Systems     *systems.Registry
	Serializers *serialization.Registry
	Entities    *ecs.EntityManager
	Modules     *module.Manager
	bootstrap   *resource.Set
	running     bool
}

// New builds an Engine with the standard components, scene-graph
// systems, and module discovery wired in, but does not discover or
// load any modules yet. moduleDir is scanned by Discover; prefs
// supplies the Modulith.config preference overrides consulted by the
// symbol-resolution chain.
func New(moduleDir string, prefs *module.Preferences) *Engine {
	ctx := subcontext.Get()
	sysReg := systems.NewRegistry()
	serReg := serialization.NewRegistry()
	entities := ecs.NewEntityManager()
	mgr := module.NewManager(ctx, sysReg, serReg, entities, prefs)

	e := &Engine{
		Context:     ctx,
		Systems:     sysReg,
		Serializers: serReg,
		Entities:    entities,
		Modules:     mgr,
	}

	e.bootstrap = resource.NewSet()
	e.bootstrap.Register(newBootstrapResource(sysReg, entities))
	e.bootstrap.LoadAll()

	if moduleDir != "" {
		mgr.Discover(moduleDir)
	}

	e.running = true
	return e
}

// Running reports whether the engine should keep advancing frames.
// It mirrors the subcontext Context's shutdown-request flag so any
// subcontext can ask the host loop to stop.
func (e *Engine) Running() bool {
	return e.running && e.Context.IsRunning()
}

// Stop requests that the host loop exit after the current frame.
func (e *Engine) Stop() {
	e.running = false
}

// RunFrame advances the engine by one frame of length dt, in the
// fixed order: pending module loads, subcontext pre-update, systems
// groups pre-update/update/post-update, subcontext post-update,
// pending module unloads, and finally entity-manager cleanup of
// entities destroyed during the frame.
func (e *Engine) RunFrame(dt float64) {
	e.Modules.RunPendingLoads()

	e.Context.PreUpdate()
	e.Systems.PreUpdate()
	e.Systems.Update(dt)
	e.Systems.PostUpdate()
	e.Context.PostUpdate()

	e.Modules.RunPendingUnloads()

	e.Entities.Cleanup()
}

// ImGuiFrame runs the ImGui phase of every subcontext and systems
// group, for a host loop that renders a debug UI this frame.
// toSubwindow mirrors the host's choice of whether ImGui draws into a
// dedicated debug subwindow rather than the main view.
func (e *Engine) ImGuiFrame(dt float64, toSubwindow bool) {
	e.Systems.ImGui(dt, toSubwindow)
	e.Context.ImGui(dt, toSubwindow)
}

// Shutdown tears down every systems group in reverse dependency order,
// then every subcontext in registration order, then the bootstrap
// resource. It does not unload modules first; callers that
// want a graceful module unload should call Modules.UnloadWithDependants
// for each loaded module and RunFrame until none remain loaded before
// calling Shutdown.
func (e *Engine) Shutdown() {
	e.Systems.Shutdown()
	e.Context.Shutdown()
	e.bootstrap.UnloadAll()
}

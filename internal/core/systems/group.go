package systems

import (
	"fmt"
	"reflect"

	"corelith/internal/core/depgraph"
)

// Group is a named collection of Systems plus an ordering DAG over them.
// Systems are keyed by their own concrete type, so two distinct System
// implementations can never collide under a string alias.
type Group struct {
	Name    string
	graph   *depgraph.Graph[reflect.Type]
	systems map[reflect.Type]System
}

// NewGroup returns an empty, named group.
func NewGroup(name string) *Group {
	return &Group{
		Name:    name,
		graph:   depgraph.New[reflect.Type](),
		systems: make(map[reflect.Type]System),
	}
}

func keyOf(sys System) reflect.Type {
	return reflect.TypeOf(sys)
}

// Register adds sys to the group under its own type. Registering the
// same system type twice is a programmer error.
func (g *Group) Register(sys System) {
	key := keyOf(sys)
	if g.graph.Contains(key) {
		panic(fmt.Sprintf("systems: %s is already registered in group %q", key, g.Name))
	}
	g.graph.Add(key)
	g.systems[key] = sys
}

// Deregister removes sys's type from the group.
func (g *Group) Deregister(sys System) {
	key := keyOf(sys)
	g.graph.Remove(key)
	delete(g.systems, key)
}

// ExecuteBefore records that a must run before b within this group.
func (g *Group) ExecuteBefore(a, b System) {
	g.graph.AddEdge(keyOf(a), keyOf(b))
}

// ExecuteAfter records that a must run after b within this group.
func (g *Group) ExecuteAfter(a, b System) {
	g.graph.AddEdge(keyOf(b), keyOf(a))
}

// order returns the group's systems in a topological order consistent
// with every ExecuteBefore/ExecuteAfter edge registered so far.
func (g *Group) order() []System {
	keys := g.graph.AllNodesStartToEnd()
	out := make([]System, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.systems[k])
	}
	return out
}

// Initialize calls Initialize on every system in topological order,
// stopping at (and returning) the first error.
func (g *Group) Initialize() error {
	for _, sys := range g.order() {
		if err := sys.Initialize(); err != nil {
			return fmt.Errorf("systems: group %q: %s: %w", g.Name, keyOf(sys), err)
		}
	}
	return nil
}

// PreUpdate calls PreUpdate on every system in topological order.
func (g *Group) PreUpdate() {
	for _, sys := range g.order() {
		sys.PreUpdate()
	}
}

// Update calls Update on every system in topological order.
func (g *Group) Update(dt float64) {
	for _, sys := range g.order() {
		sys.Update(dt)
	}
}

// ImGui calls ImGui on every system in topological order.
func (g *Group) ImGui(dt float64, toSubwindow bool) {
	for _, sys := range g.order() {
		sys.ImGui(dt, toSubwindow)
	}
}

// PostUpdate calls PostUpdate on every system in topological order.
func (g *Group) PostUpdate() {
	for _, sys := range g.order() {
		sys.PostUpdate()
	}
}

// Shutdown calls Shutdown on every system in reverse topological order,
// mirroring the reverse-priority teardown the resource framework uses.
func (g *Group) Shutdown() {
	order := g.order()
	for i := len(order) - 1; i >= 0; i-- {
		order[i].Shutdown()
	}
}

package systems

import (
	"fmt"
	"reflect"

	"corelith/internal/core/depgraph"
)

// Registry is the global catalog of SystemsGroups, plus a DAG ordering
// the groups themselves and a reverse index from a system's type to the
// group it lives in. There is normally exactly one Registry per Context,
// mirroring the Context's own process-wide reach.
type Registry struct {
	graph       *depgraph.Graph[string]
	groups      map[string]*Group
	systemGroup map[reflect.Type]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		graph:       depgraph.New[string](),
		groups:      make(map[string]*Group),
		systemGroup: make(map[reflect.Type]string),
	}
}

// RegisterGroup creates and returns a new, empty group. Registering the
// same group name twice is a programmer error.
func (r *Registry) RegisterGroup(name string) *Group {
	if r.graph.Contains(name) {
		panic(fmt.Sprintf("systems: group %q is already registered", name))
	}
	r.graph.Add(name)
	g := NewGroup(name)
	r.groups[name] = g
	return g
}

// DeregisterGroup drops a group and every system registered under it.
func (r *Registry) DeregisterGroup(name string) {
	if g, ok := r.groups[name]; ok {
		for key := range g.systems {
			delete(r.systemGroup, key)
		}
	}
	r.graph.Remove(name)
	delete(r.groups, name)
}

// Group returns the group registered under name, if any.
func (r *Registry) Group(name string) (*Group, bool) {
	g, ok := r.groups[name]
	return g, ok
}

// GroupExecuteBefore orders group a before group b in the global group
// DAG; a must exist and finish before b may start.
func (r *Registry) GroupExecuteBefore(a, b string) {
	r.graph.AddEdge(a, b)
}

// RegisterSystem registers sys into the named group, which must already
// exist, and records the system-to-group mapping the registry uses to
// validate cross-system dependency edges.
func (r *Registry) RegisterSystem(groupName string, sys System) {
	g, ok := r.groups[groupName]
	if !ok {
		panic(fmt.Sprintf("systems: group %q does not exist", groupName))
	}
	g.Register(sys)
	r.systemGroup[keyOf(sys)] = groupName
}

// RequireSameGroup panics unless a and b were registered into the same
// group, the precondition for creating an ordering edge between them.
func (r *Registry) RequireSameGroup(a, b System) {
	ga, okA := r.systemGroup[keyOf(a)]
	gb, okB := r.systemGroup[keyOf(b)]
	if !okA || !okB || ga != gb {
		panic(fmt.Sprintf("systems: %s and %s must be registered in the same group to order them", keyOf(a), keyOf(b)))
	}
}

// groupOrder returns the registered groups in the global group DAG's
// topological order.
func (r *Registry) groupOrder() []*Group {
	names := r.graph.AllNodesStartToEnd()
	out := make([]*Group, 0, len(names))
	for _, n := range names {
		out = append(out, r.groups[n])
	}
	return out
}

// Initialize runs Initialize across every group, in group topological
// order, then per-system topological order within each group.
func (r *Registry) Initialize() error {
	for _, g := range r.groupOrder() {
		if err := g.Initialize(); err != nil {
			return err
		}
	}
	return nil
}

// PreUpdate runs PreUpdate across every group in topological order.
func (r *Registry) PreUpdate() {
	for _, g := range r.groupOrder() {
		g.PreUpdate()
	}
}

// Update runs Update across every group in topological order.
func (r *Registry) Update(dt float64) {
	for _, g := range r.groupOrder() {
		g.Update(dt)
	}
}

// ImGui runs ImGui across every group in topological order.
func (r *Registry) ImGui(dt float64, toSubwindow bool) {
	for _, g := range r.groupOrder() {
		g.ImGui(dt, toSubwindow)
	}
}

// PostUpdate runs PostUpdate across every group in topological order.
func (r *Registry) PostUpdate() {
	for _, g := range r.groupOrder() {
		g.PostUpdate()
	}
}

// Shutdown runs Shutdown across every group in reverse topological
// order.
func (r *Registry) Shutdown() {
	order := r.groupOrder()
	for i := len(order) - 1; i >= 0; i-- {
		order[i].Shutdown()
	}
}

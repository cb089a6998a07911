// Package resource implements the priority-ordered resource lifecycle a
// module's init function populates: subcontexts, component descriptors,
// systems groups, systems, and serializers, all brought up and torn down
// in an order that keeps their dependencies satisfied.
package resource

import "sort"

// Resource is a scoped bundle a module registers during its init call.
// Priority determines load/unload ordering: higher priorities load
// first and unload last.
type Resource interface {
	Priority() int
	OnLoad()
	OnInitializeAfterLoad()
	OnShutdownBeforeUnload()
	OnUnload()
}

// Set collects the resources registered by one module and drives their
// two-pass load and unload sequencing.
type Set struct {
	resources []Resource
}

// NewSet returns an empty resource set.
func NewSet() *Set {
	return &Set{}
}

// Register adds r to the set, to be ordered by priority at LoadAll time.
func (s *Set) Register(r Resource) {
	s.resources = append(s.resources, r)
}

func sortedByPriority(resources []Resource, descending bool) []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Priority() > out[j].Priority()
		}
		return out[i].Priority() < out[j].Priority()
	})
	return out
}

// LoadAll runs OnLoad on every resource in descending priority order,
// then OnInitializeAfterLoad on every resource in that same order — two
// full passes, so a later resource's OnLoad can never be observed by an
// earlier resource's OnInitializeAfterLoad before it has had its own
// OnLoad called.
func (s *Set) LoadAll() {
	ordered := sortedByPriority(s.resources, true)
	for _, r := range ordered {
		r.OnLoad()
	}
	for _, r := range ordered {
		r.OnInitializeAfterLoad()
	}
}

// UnloadAll runs OnShutdownBeforeUnload then OnUnload on every resource
// in ascending priority order, the reverse of LoadAll.
func (s *Set) UnloadAll() {
	ordered := sortedByPriority(s.resources, false)
	for _, r := range ordered {
		r.OnShutdownBeforeUnload()
	}
	for _, r := range ordered {
		r.OnUnload()
	}
}

// Resources returns the set's members in registration order.
func (s *Set) Resources() []Resource {
	return s.resources
}

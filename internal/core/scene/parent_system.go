package scene

import (
	"github.com/sirupsen/logrus"

	"corelith/internal/core/ecs"
	"corelith/internal/core/systems"
)

// ParentSystem rebuilds every entity's Children component from the
// current Parent components each frame. It also enforces the two
// invariants it must keep: destroying a parent destroys its
// recorded children, and a would-be cycle is never allowed to persist
// into the rebuilt graph.
type ParentSystem struct {
	systems.NoopSystem
	entities *ecs.EntityManager
}

// NewParentSystem creates a ParentSystem over entities.
func NewParentSystem(entities *ecs.EntityManager) *ParentSystem {
	return &ParentSystem{entities: entities}
}

func (s *ParentSystem) Update(dt float64) {
	parentOf := make(map[ecs.EntityID]ecs.EntityID)
	s.entities.QueryAll(ecs.Each(ecs.DescriptorOf[ecs.Parent]().TypeID), func(e ecs.EntityID, c *ecs.EntityChunk, row int) {
		p, ok := ecs.Get[ecs.Parent](s.entities, e)
		if ok {
			parentOf[e] = p.Entity
		}
	})

	orphans := s.collectOrphans(parentOf)
	for _, e := range orphans {
		delete(parentOf, e)
	}
	for _, e := range orphans {
		if s.entities.IsAlive(e) {
			s.entities.Destroy(e)
		}
	}

	cyclic := s.detectCycles(parentOf)
	for e := range cyclic {
		logrus.WithField("entity", e).Warn("scene: entity's Parent chain contains a cycle, treating it as a root this frame")
		delete(parentOf, e)
	}

	children := make(map[ecs.EntityID][]ecs.EntityID)
	for child, parent := range parentOf {
		children[parent] = append(children[parent], child)
	}

	s.entities.QueryAll(ecs.Each(ecs.DescriptorOf[ecs.Children]().TypeID), func(e ecs.EntityID, c *ecs.EntityChunk, row int) {
		if _, stillHasChildren := children[e]; !stillHasChildren {
			ecs.Remove[ecs.Children](s.entities, e)
		}
	})
	for parent, kids := range children {
		ecs.Add(s.entities, parent, ecs.Children{Entities: kids})
	}
}

// collectOrphans returns every entity whose Parent chain eventually
// points at an entity that no longer exists, plus everything beneath it
// transitively, so a whole destroyed subtree goes away in one frame.
func (s *ParentSystem) collectOrphans(parentOf map[ecs.EntityID]ecs.EntityID) []ecs.EntityID {
	dead := make(map[ecs.EntityID]bool)
	for child, parent := range parentOf {
		if !s.entities.IsAlive(parent) {
			dead[child] = true
		}
	}

	changed := true
	for changed {
		changed = false
		for child, parent := range parentOf {
			if dead[child] {
				continue
			}
			if dead[parent] {
				dead[child] = true
				changed = true
			}
		}
	}

	out := make([]ecs.EntityID, 0, len(dead))
	for e := range dead {
		out = append(out, e)
	}
	return out
}

func (s *ParentSystem) detectCycles(parentOf map[ecs.EntityID]ecs.EntityID) map[ecs.EntityID]bool {
	cyclic := make(map[ecs.EntityID]bool)
	for start := range parentOf {
		visited := map[ecs.EntityID]bool{start: true}
		cur := start
		for {
			next, ok := parentOf[cur]
			if !ok {
				break
			}
			if next == start {
				cyclic[start] = true
				break
			}
			if visited[next] {
				break
			}
			visited[next] = true
			cur = next
		}
	}
	return cyclic
}

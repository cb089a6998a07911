package scene

import (
	"github.com/sirupsen/logrus"

	"corelith/internal/core/depgraph"
	"corelith/internal/core/ecs"
	"corelith/internal/core/systems"
)

// TransformPropagationSystem composes each entity's local Position and
// Rotation with its parent's already-propagated WorldTransform, visiting
// entities in topological order from the roots. It runs after
// ParentSystem in the "Transforms" group.
type TransformPropagationSystem struct {
	systems.NoopSystem
	entities *ecs.EntityManager
}

// NewTransformPropagationSystem creates a TransformPropagationSystem
// over entities.
func NewTransformPropagationSystem(entities *ecs.EntityManager) *TransformPropagationSystem {
	return &TransformPropagationSystem{entities: entities}
}

// addDependencyEdge adds parent -> child, skipping and logging instead
// of panicking if the raw Parent data still contains a cycle that
// ParentSystem's rebuild already decided to ignore this frame.
func addDependencyEdge(g *depgraph.Graph[ecs.EntityID], parent, child ecs.EntityID) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{"parent": parent, "child": child}).
				Warn("scene: skipping a Parent edge that would create a propagation cycle")
		}
	}()
	g.AddEdge(parent, child)
}

func (s *TransformPropagationSystem) Update(dt float64) {
	g := depgraph.New[ecs.EntityID]()
	local := make(map[ecs.EntityID]struct {
		pos    ecs.Position
		rot    ecs.Rotation
		parent ecs.EntityID
		hasPar bool
	})

	s.entities.QueryAll(ecs.Each(ecs.DescriptorOf[ecs.Position]().TypeID), func(e ecs.EntityID, c *ecs.EntityChunk, row int) {
		pos, _ := ecs.Get[ecs.Position](s.entities, e)
		rot, hasRot := ecs.Get[ecs.Rotation](s.entities, e)
		if !hasRot {
			rot = ecs.IdentityRotation
		}
		parent, hasParent := ecs.Get[ecs.Parent](s.entities, e)
		entry := local[e]
		entry.pos, entry.rot = pos, rot
		if hasParent {
			entry.parent, entry.hasPar = parent.Entity, true
		}
		local[e] = entry
		if !g.Contains(e) {
			g.Add(e)
		}
	})

	for e, entry := range local {
		if entry.hasPar {
			if _, ok := local[entry.parent]; ok {
				if !g.Contains(entry.parent) {
					g.Add(entry.parent)
				}
				addDependencyEdge(g, entry.parent, e)
			}
		}
	}

	disabledTagID := ecs.DescriptorOf[ecs.DisabledTag]().TypeID
	indirectID := ecs.DescriptorOf[ecs.IndirectlyDisabledTag]().TypeID

	world := make(map[ecs.EntityID]WorldTransform, len(local))
	indirectlyDisabled := make(map[ecs.EntityID]bool, len(local))
	for _, e := range g.AllNodesStartToEnd() {
		entry, ok := local[e]
		if !ok {
			continue
		}

		parentDisabled := false
		if entry.hasPar {
			parentDisabled = indirectlyDisabled[entry.parent]
			if parentWorld, ok := world[entry.parent]; ok {
				world[e] = composeTransform(parentWorld, entry.pos, entry.rot)
			} else {
				world[e] = WorldTransform{Position: entry.pos, Rotation: entry.rot}
			}
		} else {
			world[e] = WorldTransform{Position: entry.pos, Rotation: entry.rot}
		}

		indirectlyDisabled[e] = parentDisabled || s.entities.Has(e, disabledTagID)
	}

	for e, wt := range world {
		ecs.Add(s.entities, e, wt)
	}

	// IndirectlyDisabledTag is only touched when it actually needs to
	// change, so an unaffected subtree doesn't migrate chunks every
	// frame for no reason.
	for e, wantDisabled := range indirectlyDisabled {
		hasTag := s.entities.Has(e, indirectID)
		switch {
		case wantDisabled && !hasTag:
			ecs.Add(s.entities, e, ecs.IndirectlyDisabledTag{})
		case !wantDisabled && hasTag:
			ecs.Remove[ecs.IndirectlyDisabledTag](s.entities, e)
		}
	}
}

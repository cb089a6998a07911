package ecs

// Filter describes which chunks a query visits: every type in Each must
// be present, at least one type in Any must be present (if Any is
// non-empty), and no type in None may be present.
type Filter struct {
	Each Signature
	Any  Signature
	None Signature
}

func (f Filter) matches(sig Signature) bool {
	if !sig.Contains(f.Each) {
		return false
	}
	if !f.Any.IsZero() && !sig.Intersects(f.Any) {
		return false
	}
	if sig.Intersects(f.None) {
		return false
	}
	return true
}

// indirectlyDisabledIndex is resolved lazily so package init order doesn't
// matter: IndirectlyDisabledTag is registered by the bootstrap resource,
// not by this file.
func indirectlyDisabledIndex() (int, bool) {
	d := DescriptorOf[IndirectlyDisabledTag]()
	return d.Index, true
}

// QueryAll visits every entity in every chunk whose signature satisfies
// f, calling visit(entity, chunk, row) once per row. Structural mutation
// during visit must go through m.Defer.
func (m *EntityManager) QueryAll(f Filter, visit func(EntityID, *EntityChunk, int)) {
	m.beginIteration()
	defer m.endIteration()

	for sig, chunks := range m.chunks {
		if !f.matches(sig) {
			continue
		}
		for _, c := range chunks {
			n := c.Count()
			for row := 0; row < n; row++ {
				visit(c.EntityAt(row), c, row)
			}
		}
	}
}

// QueryActive is QueryAll with IndirectlyDisabledTag added to the
// exclusion mask, for systems that should skip entities disabled by
// ancestry rather than directly.
func (m *EntityManager) QueryActive(f Filter, visit func(EntityID, *EntityChunk, int)) {
	if idx, ok := indirectlyDisabledIndex(); ok {
		f.None = sigWithBit(f.None, idx)
	}
	m.QueryAll(f, visit)
}

// Each returns a Filter matching entities that carry every one of the
// given component types.
func Each(types ...ComponentTypeID) Filter {
	var f Filter
	for _, t := range types {
		if d, ok := DescriptorByTypeID(t); ok {
			f.Each = sigWithBit(f.Each, d.Index)
		}
	}
	return f
}

// WithAny requires at least one of the given types.
func (f Filter) WithAny(types ...ComponentTypeID) Filter {
	for _, t := range types {
		if d, ok := DescriptorByTypeID(t); ok {
			f.Any = sigWithBit(f.Any, d.Index)
		}
	}
	return f
}

// WithNone excludes entities carrying any of the given types.
func (f Filter) WithNone(types ...ComponentTypeID) Filter {
	for _, t := range types {
		if d, ok := DescriptorByTypeID(t); ok {
			f.None = sigWithBit(f.None, d.Index)
		}
	}
	return f
}

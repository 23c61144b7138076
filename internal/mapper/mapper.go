// Package mapper provides the generic memoized topological instantiator: a
// post-order traversal over a module definition DAG that calls an
// instantiator callback exactly once per unique definition, dependencies
// first.
package mapper

import (
	"github.com/bakeware/recipekit/internal/universe"
)

// Instantiator constructs one instance for a definition. It is always
// invoked after the instantiators of all of the definition's dependencies
// have completed, so deps carries only fully constructed instances, keyed by
// local dependency name.
type Instantiator[T any] func(def *universe.Definition, deps map[string]T) (T, error)

// Mapper memoizes instantiation by definition identity. Its cache is scoped
// to one graph-building pass; two mappers over the same definitions produce
// isomorphic but disjoint instance graphs.
type Mapper[T any] struct {
	fn        Instantiator[T]
	instances map[string]T
}

// New creates a Mapper around the given instantiator callback.
func New[T any](fn Instantiator[T]) *Mapper[T] {
	return &Mapper[T]{
		fn:        fn,
		instances: make(map[string]T),
	}
}

// Instantiate returns the instance for def, constructing it and any
// not-yet-visited transitive dependencies first. Repeated calls for the same
// definition return the identical cached instance, so shared sub-dependencies
// are wired to one object everywhere they appear.
//
// The traversal uses an explicit stack rather than native recursion so that
// pathologically deep dependency chains cannot exhaust the goroutine stack.
// Cycles were rejected at load time, so the walk always terminates.
func (m *Mapper[T]) Instantiate(def *universe.Definition) (T, error) {
	if inst, ok := m.instances[def.ID]; ok {
		return inst, nil
	}

	type frame struct {
		def  *universe.Definition
		next int // index into def.DepOrder of the next dep to visit
	}

	var zero T
	stack := []frame{{def: def}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		d := top.def

		if _, done := m.instances[d.ID]; done {
			stack = stack[:len(stack)-1]
			continue
		}

		// Descend into the first unvisited dependency, if any.
		pushed := false
		for top.next < len(d.DepOrder) {
			depDef := d.Deps[d.DepOrder[top.next]]
			top.next++
			if _, ok := m.instances[depDef.ID]; !ok {
				stack = append(stack, frame{def: depDef})
				pushed = true
				break
			}
		}
		if pushed {
			continue
		}

		// All dependencies are built; construct this definition.
		deps := make(map[string]T, len(d.DepOrder))
		for _, local := range d.DepOrder {
			deps[local] = m.instances[d.Deps[local].ID]
		}
		inst, err := m.fn(d, deps)
		if err != nil {
			return zero, err
		}
		m.instances[d.ID] = inst
		stack = stack[:len(stack)-1]
	}

	return m.instances[def.ID], nil
}

// Package composer orchestrates the dependency mapper and the property
// injector to build two parallel instance graphs from one set of module
// definitions: the production capability graph and its isomorphic test-double
// counterpart.
//
// Each node exposes its dependencies' instances under their local names via
// a namespace that is sealed once composition finishes, so the graphs are
// immutable by the time callers see them.
package composer

import (
	"fmt"

	"github.com/bakeware/recipekit/internal/inject"
	"github.com/bakeware/recipekit/internal/mapper"
	"github.com/bakeware/recipekit/internal/universe"
)

// API is one node of the production graph: a constructed capability instance,
// its companion test double, and the namespace of its dependencies. The root
// node of a composed graph has a nil Def and Impl.
type API struct {
	Def  *universe.Definition
	Impl any

	// Test is the companion test-double node built from the same definition
	// in the same traversal step.
	Test *TestAPI

	deps *Namespace[*API]
}

// Dep returns the dependency attached under the given local name.
func (a *API) Dep(name string) (*API, bool) {
	return a.deps.Get(name)
}

// DepNames returns the attached local names in attachment order.
func (a *API) DepNames() []string {
	return a.deps.Names()
}

// TestAPI is one node of the test-double graph. The root node of a composed
// test graph has a nil Def.
type TestAPI struct {
	Def  *universe.Definition
	Impl any

	deps *Namespace[*TestAPI]
}

// Dep returns the test-double dependency attached under the given local name.
func (a *TestAPI) Dep(name string) (*TestAPI, bool) {
	return a.deps.Get(name)
}

// DepNames returns the attached local names in attachment order.
func (a *TestAPI) DepNames() []string {
	return a.deps.Names()
}

// EmptyTestDouble is substituted for modules that declare no test double.
type EmptyTestDouble struct {
	Def *universe.Definition
}

// Production builds the production capability graph rooted at the given
// top-level dependencies, together with the isomorphic test-double graph
// hanging off each node's Test link. Construction order per node: resolve
// properties and invoke the capability constructor, build the companion test
// double, then cross-wire both namespaces with the already-built dependency
// nodes.
func Production(topDeps map[string]*universe.Definition, order []string, eng *Engine, td TestData) (*API, error) {
	if td == nil {
		td = DisabledTestData{}
	}

	m := mapper.New(func(def *universe.Definition, deps map[string]*API) (*API, error) {
		extras := make(map[string]any, len(deps)+3)
		for local, depNode := range deps {
			extras[local] = depNode.Impl
		}
		// Engine-provided context objects shadow same-named deps.
		extras["module"] = def
		extras["engine"] = eng
		extras["test_data"] = td.Module(def.Name)

		impl, err := inject.Invoke(def.Capability.New, def.Params, def.Properties, eng.Properties, extras)
		if err != nil {
			return nil, fmt.Errorf("constructing capability for module %s: %w", def.Name, err)
		}

		test, err := buildTestDouble(def)
		if err != nil {
			return nil, err
		}

		node := &API{Def: def, Impl: impl, Test: test, deps: newNamespace[*API]()}
		for _, local := range def.DepOrder {
			depNode := deps[local]
			node.deps.attach(local, depNode)
			node.Test.deps.attach(local, depNode.Test)
		}
		return node, nil
	})

	root := &API{deps: newNamespace[*API](), Test: &TestAPI{deps: newNamespace[*TestAPI]()}}
	for _, local := range order {
		node, err := m.Instantiate(topDeps[local])
		if err != nil {
			return nil, err
		}
		root.deps.attach(local, node)
		root.Test.deps.attach(local, node.Test)
	}

	sealAPIGraph(root)
	return root, nil
}

// Test builds a standalone test-double graph with its own instance cache,
// isomorphic to what Production would build for the same definitions.
func Test(topDeps map[string]*universe.Definition, order []string) (*TestAPI, error) {
	m := mapper.New(func(def *universe.Definition, deps map[string]*TestAPI) (*TestAPI, error) {
		node, err := buildTestDouble(def)
		if err != nil {
			return nil, err
		}
		for _, local := range def.DepOrder {
			node.deps.attach(local, deps[local])
		}
		return node, nil
	})

	root := &TestAPI{deps: newNamespace[*TestAPI]()}
	for _, local := range order {
		node, err := m.Instantiate(topDeps[local])
		if err != nil {
			return nil, err
		}
		root.deps.attach(local, node)
	}

	sealTestGraph(root, make(map[*TestAPI]bool))
	return root, nil
}

func buildTestDouble(def *universe.Definition) (*TestAPI, error) {
	node := &TestAPI{Def: def, deps: newNamespace[*TestAPI]()}
	if def.TestDouble == nil {
		node.Impl = &EmptyTestDouble{Def: def}
		return node, nil
	}

	impl, err := inject.Invoke(def.TestDouble.New, nil, nil, nil, map[string]any{"module": def})
	if err != nil {
		return nil, fmt.Errorf("constructing test double for module %s: %w", def.Name, err)
	}
	node.Impl = impl
	return node, nil
}

// The seal walks use worklists for the same reason the mapper uses an
// explicit stack: graph depth is caller-controlled.

func sealAPIGraph(root *API) {
	seen := map[*API]bool{root: true}
	testSeen := make(map[*TestAPI]bool)

	work := []*API{root}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]

		n.deps.seal()
		if n.Test != nil {
			sealTestGraph(n.Test, testSeen)
		}
		for _, name := range n.deps.Names() {
			child, _ := n.deps.Get(name)
			if !seen[child] {
				seen[child] = true
				work = append(work, child)
			}
		}
	}
}

func sealTestGraph(root *TestAPI, seen map[*TestAPI]bool) {
	if seen[root] {
		return
	}
	seen[root] = true

	work := []*TestAPI{root}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]

		n.deps.seal()
		for _, name := range n.deps.Names() {
			child, _ := n.deps.Get(name)
			if !seen[child] {
				seen[child] = true
				work = append(work, child)
			}
		}
	}
}

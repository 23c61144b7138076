package mapper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakeware/recipekit/internal/universe"
)

// def builds a synthetic definition with the given name and dependencies.
func def(name string, deps ...*universe.Definition) *universe.Definition {
	d := &universe.Definition{
		ID:   "/modules/" + name,
		Name: name,
		Deps: make(map[string]*universe.Definition, len(deps)),
	}
	for _, dep := range deps {
		d.DepOrder = append(d.DepOrder, dep.Name)
		d.Deps[dep.Name] = dep
	}
	return d
}

type built struct {
	def  *universe.Definition
	seq  int
	deps map[string]*built
}

// builder returns an instantiator that stamps each construction with a
// global sequence number.
func builder(counter *int) Instantiator[*built] {
	return func(d *universe.Definition, deps map[string]*built) (*built, error) {
		*counter++
		return &built{def: d, seq: *counter, deps: deps}, nil
	}
}

func TestDiamondTopologicalOrder(t *testing.T) {
	a := def("a")
	b := def("b", a)
	c := def("c", a)
	d := def("d", b, c)

	var counter int
	m := New(builder(&counter))

	instD, err := m.Instantiate(d)
	require.NoError(t, err)

	instB := instD.deps["b"]
	instC := instD.deps["c"]
	instA := instB.deps["a"]
	require.NotNil(t, instA)

	// Every dependency completes before its dependent is invoked.
	assert.Less(t, instA.seq, instB.seq)
	assert.Less(t, instA.seq, instC.seq)
	assert.Less(t, instB.seq, instD.seq)
	assert.Less(t, instC.seq, instD.seq)

	// a is instantiated exactly once and shared by both paths.
	assert.Same(t, instA, instC.deps["a"])
	assert.Equal(t, 4, counter)
}

func TestInstantiateMemoization(t *testing.T) {
	a := def("a")
	b := def("b", a)

	var counter int
	m := New(builder(&counter))

	first, err := m.Instantiate(b)
	require.NoError(t, err)
	second, err := m.Instantiate(b)
	require.NoError(t, err)
	assert.Same(t, first, second)

	viaA, err := m.Instantiate(a)
	require.NoError(t, err)
	assert.Same(t, first.deps["a"], viaA)
	assert.Equal(t, 2, counter)
}

func TestDisjointMappersProduceDisjointInstances(t *testing.T) {
	a := def("a")

	var counter int
	m1 := New(builder(&counter))
	m2 := New(builder(&counter))

	inst1, err := m1.Instantiate(a)
	require.NoError(t, err)
	inst2, err := m2.Instantiate(a)
	require.NoError(t, err)
	assert.NotSame(t, inst1, inst2)
}

func TestInstantiatorErrorAborts(t *testing.T) {
	a := def("a")
	b := def("b", a)

	boom := errors.New("constructor exploded")
	m := New(func(d *universe.Definition, deps map[string]*built) (*built, error) {
		if d.Name == "a" {
			return nil, boom
		}
		return &built{def: d}, nil
	})

	_, err := m.Instantiate(b)
	assert.ErrorIs(t, err, boom)
}

func TestDeepChainUsesExplicitStack(t *testing.T) {
	// Long enough that naive recursion depth would be uncomfortable.
	const depth = 50_000

	leaf := def("m0")
	prev := leaf
	for i := 1; i < depth; i++ {
		prev = def(fmt.Sprintf("m%d", i), prev)
	}

	var counter int
	m := New(builder(&counter))
	root, err := m.Instantiate(prev)
	require.NoError(t, err)
	assert.Equal(t, depth, counter)
	assert.Equal(t, depth, root.seq)
}

package composer

import (
	"fmt"
)

// Namespace is the per-instance container exposing a node's dependencies by
// local name. It is mutable while the composer builds the graph and sealed
// before the graph is handed to callers; attaching to a sealed namespace is
// a programmer error and panics.
type Namespace[T any] struct {
	children map[string]T
	order    []string
	sealed   bool
}

func newNamespace[T any]() *Namespace[T] {
	return &Namespace[T]{children: make(map[string]T)}
}

func (n *Namespace[T]) attach(name string, child T) {
	if n.sealed {
		panic(fmt.Sprintf("composer: attaching %q to a sealed namespace", name))
	}
	if _, exists := n.children[name]; exists {
		panic(fmt.Sprintf("composer: namespace already has a child named %q", name))
	}
	n.children[name] = child
	n.order = append(n.order, name)
}

func (n *Namespace[T]) seal() {
	n.sealed = true
}

// Get returns the child attached under name.
func (n *Namespace[T]) Get(name string) (T, bool) {
	child, ok := n.children[name]
	return child, ok
}

// Names returns the attached local names in attachment order.
func (n *Namespace[T]) Names() []string {
	return append([]string(nil), n.order...)
}

// Len returns the number of attached children.
func (n *Namespace[T]) Len() int {
	return len(n.children)
}

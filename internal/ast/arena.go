package ast

import "github.com/kajmany/bytebeat/internal/invariant"

// Arena is an append-only store of Node values. A parse never mutates or
// frees a node once pushed, so a *Arena can be shared freely between the
// compiler thread that built it and the audio thread that evaluates it: it
// is immutable from the moment Parse returns.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty arena sized for a typical one-line expression.
func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 0, 32)}
}

// Push appends a node and returns its NodeID.
func (a *Arena) Push(n Node) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	invariant.Postcondition(int(id) == len(a.nodes)-1, "pushed node id must match its slice index")
	return id
}

// Get returns the node at id. id must be a value previously returned by
// Push on this same arena (or NoNode, which is never valid to Get).
func (a *Arena) Get(id NodeID) Node {
	invariant.Precondition(id >= 0 && int(id) < len(a.nodes), "node id %d out of range [0, %d)", id, len(a.nodes))
	return a.nodes[id]
}

// Len reports how many nodes have been pushed.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Root is a convenience for the common case: the last node pushed by a
// top-level parse is the root of the expression tree.
func (a *Arena) Root() NodeID {
	invariant.Precondition(len(a.nodes) > 0, "arena must not be empty")
	return NodeID(len(a.nodes) - 1)
}

package weight

import "github.com/systeminit/si-sub002/idgen"

// Update is the closed tagged union of atomic deltas a snapshot graph applies via
// PerformUpdates: a new node, a node replacement, a new edge, or an edge removal.
// Callers type-switch on the concrete type (there are only four); the unexported
// isUpdate method keeps other packages from adding a fifth.
type Update interface {
	isUpdate()
}

// NewNode inserts NodeWeight iff no node with its id already exists in the graph.
type NewNode struct {
	NodeWeight NodeWeight
}

// ReplaceNode overwrites the weight of an existing node with the same id; a no-op if
// no node with that id exists.
type ReplaceNode struct {
	NodeWeight NodeWeight
}

// NewEdge adds an edge between two already-present nodes. A Use edge with IsDefault
// true first demotes any existing default Use edges from Source to non-default,
// enforcing "at most one default Use per source".
type NewEdge struct {
	Source      idgen.ID
	Destination idgen.ID
	EdgeWeight  EdgeWeight
}

// RemoveEdge removes every edge from Source to Destination matching EdgeKind.
type RemoveEdge struct {
	Source      idgen.ID
	Destination idgen.ID
	EdgeKind    EdgeKind
}

func (NewNode) isUpdate()     {}
func (ReplaceNode) isUpdate() {}
func (NewEdge) isUpdate()     {}
func (RemoveEdge) isUpdate()  {}

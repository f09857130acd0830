package snapshot

import "github.com/systeminit/si-sub002/idgen"

// RemoveNodeId unlinks id from the id-index without deleting the underlying arena
// slot. The slot becomes a legal hole that stays alive, still fully wired into the
// graph's edges and still listed under its lineage, until Cleanup's unreachability
// sweep physically frees it and prunes the lineage index with it. Splitting the steps
// keeps RemoveEdge-driven unreachability and explicit "this id is gone" bookkeeping
// independent.
func (g *Graph) RemoveNodeId(id idgen.ID) {
	if _, ok := g.nodeIndexById[id]; !ok {
		return
	}
	delete(g.nodeIndexById, id)
}

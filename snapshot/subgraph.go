package snapshot

import "github.com/systeminit/si-sub002/idgen"

// Subgraph produces a fresh graph containing subgraphRoot's ancestor closure and
// descendant closure, with a new root set to the topmost ancestor discovered (a node
// in the ancestor closure with no incoming edges of its own; subgraphRoot itself if it
// has no ancestors). For debugging only: the result shares NodeWeight values with the
// source graph and must never be used for persistence.
func (g *Graph) Subgraph(subgraphRoot NodeIndex) (*Graph, error) {
	if !g.validIndex(subgraphRoot) || !g.slots[subgraphRoot].occupied {
		return nil, ErrNodeWeightNotFound
	}

	ancestors := make(map[NodeIndex]bool)
	var collectAncestors func(idx NodeIndex)
	collectAncestors = func(idx NodeIndex) {
		for _, parent := range g.slots[idx].incoming {
			if ancestors[parent] {
				continue
			}
			ancestors[parent] = true
			collectAncestors(parent)
		}
	}
	collectAncestors(subgraphRoot)

	descendants := map[NodeIndex]bool{subgraphRoot: true}
	var collectDescendants func(idx NodeIndex)
	collectDescendants = func(idx NodeIndex) {
		for _, e := range g.slots[idx].outgoing {
			if descendants[e.target] {
				continue
			}
			descendants[e.target] = true
			collectDescendants(e.target)
		}
	}
	collectDescendants(subgraphRoot)

	included := make(map[NodeIndex]bool, len(ancestors)+len(descendants))
	for idx := range ancestors {
		included[idx] = true
	}
	for idx := range descendants {
		included[idx] = true
	}

	newRoot := subgraphRoot
	for idx := range ancestors {
		if len(g.slots[idx].incoming) == 0 {
			newRoot = idx
			break
		}
	}

	out := &Graph{
		nodeIndexById:    make(map[idgen.ID]NodeIndex),
		indicesByLineage: make(map[idgen.ID]map[NodeIndex]struct{}),
		touched:          make(map[NodeIndex]struct{}),
		idGen:            g.idGen,
		contentStore:     g.contentStore,
	}

	mapping := make(map[NodeIndex]NodeIndex, len(included))
	for idx := range included {
		w := g.slots[idx].weight
		newIdx := out.insertSlot(w)
		mapping[idx] = newIdx
		out.nodeIndexById[w.Id()] = newIdx
		out.addLineage(w.LineageId(), newIdx)
	}

	for idx := range included {
		newIdx := mapping[idx]
		for _, e := range g.slots[idx].outgoing {
			if !included[e.target] {
				continue
			}
			out.AddEdge(newIdx, e.weight, mapping[e.target])
		}
	}

	out.rootIndex = mapping[newRoot]
	return out, nil
}

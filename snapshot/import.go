package snapshot

import (
	"fmt"

	"github.com/systeminit/si-sub002/content"
	"github.com/systeminit/si-sub002/idgen"
	"github.com/systeminit/si-sub002/weight"
)

type deferredEdge struct {
	target NodeIndex
	weight weight.EdgeWeight
}

// ImportComponentSubgraph imports the transitive closure of componentNodeIndex from
// other into g, excluding the far side of any AttributePrototypeArgument edge whose
// argument carries non-empty cross-component targets (those are connections into a
// different component, which must not be dragged along). Newly-inserted Func and
// Component nodes are additionally wired to their respective Category node in g via a
// Use edge, matching how those categories are populated everywhere else in the graph.
func (g *Graph) ImportComponentSubgraph(other *Graph, componentNodeIndex NodeIndex) error {
	visited := make(map[NodeIndex]bool)
	deferredEdges := make(map[NodeIndex][]deferredEdge)

	var visit func(idx NodeIndex) error
	visit = func(idx NodeIndex) error {
		if visited[idx] {
			return nil
		}
		visited[idx] = true

		w := other.slots[idx].weight

		// Discover: prune cross-component AttributePrototypeArgument targets and
		// anything already present in g by id+lineage.
		if _, hasTargets := w.APATargets(); hasTargets {
			return nil
		}
		if g.hasIdAndLineage(w.Id(), w.LineageId()) {
			return nil
		}

		for _, e := range other.slots[idx].outgoing {
			deferredEdges[idx] = append(deferredEdges[idx], deferredEdge{target: e.target, weight: e.weight})
			if err := visit(e.target); err != nil {
				return err
			}
		}

		return g.finishImport(other, idx, w, deferredEdges[idx])
	}

	return visit(componentNodeIndex)
}

func (g *Graph) hasIdAndLineage(id, lineage idgen.ID) bool {
	idx, ok := g.nodeIndexById[id]
	if !ok {
		return false
	}
	return g.slots[idx].weight.LineageId() == lineage
}

// finishImport runs the Finish (post-order) phase for one node discovered during
// ImportComponentSubgraph: insert the node if needed, then wire every edge recorded
// for it while it was the DFS's current source.
func (g *Graph) finishImport(other *Graph, otherIdx NodeIndex, w weight.NodeWeight, edges []deferredEdge) error {
	if hash, ok := w.ContentHashValue(); ok && hash != (content.Hash{}) {
		if _, err := g.contentStore.Get(hash); err != nil {
			return fmt.Errorf("%w: %w", ErrContentStore, err)
		}
	}

	selfIdx := g.AddOrReplaceNode(w)

	for _, e := range edges {
		targetWeight := other.slots[e.target].weight
		targetIdx, ok := g.nodeIndexById[targetWeight.Id()]
		if !ok {
			// The target was pruned (cross-component APA or a node this import
			// never reached); skip the edge rather than dangling it.
			continue
		}
		g.AddEdge(selfIdx, e.weight, targetIdx)
	}

	switch w.Kind() {
	case weight.NodeKindFunc:
		return g.wireToCategory(selfIdx, weight.CategoryKindFunc)
	case weight.NodeKindComponent:
		return g.wireToCategory(selfIdx, weight.CategoryKindComponent)
	default:
		return nil
	}
}

func (g *Graph) wireToCategory(idx NodeIndex, kind weight.CategoryKind) error {
	catIdx, ok := g.findCategoryNode(kind)
	if !ok {
		return &CategoryNodeNotFoundError{Kind: kind}
	}
	g.AddEdge(catIdx, weight.NewUseEdgeWeight(false), idx)
	return nil
}

func (g *Graph) findCategoryNode(kind weight.CategoryKind) (NodeIndex, bool) {
	for i := range g.slots {
		idx := NodeIndex(i)
		if !g.slots[idx].occupied {
			continue
		}
		if k, ok := g.slots[idx].weight.CategoryKindValue(); ok && k == kind {
			return idx, true
		}
	}
	return NodeIndex(0), false
}

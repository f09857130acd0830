package snapshot

import "github.com/systeminit/si-sub002/weight"

// PerformUpdates applies a sequence of Updates in order. Updates referring to ids not
// present in the graph are silently skipped; they are not errors, since the compacted
// update batch an Update applies may legitimately race ahead of or behind the local
// graph's own history.
func (g *Graph) PerformUpdates(updates []weight.Update) error {
	for _, u := range updates {
		if err := g.applyUpdate(u); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) applyUpdate(u weight.Update) error {
	switch up := u.(type) {
	case weight.NewNode:
		if _, ok := g.nodeIndexById[up.NodeWeight.Id()]; ok {
			return nil
		}
		g.AddOrReplaceNode(up.NodeWeight)
		return nil

	case weight.ReplaceNode:
		if _, ok := g.nodeIndexById[up.NodeWeight.Id()]; !ok {
			return nil
		}
		g.AddOrReplaceNode(up.NodeWeight)
		return nil

	case weight.NewEdge:
		sourceIdx, ok := g.nodeIndexById[up.Source]
		if !ok {
			return nil
		}
		destIdx, ok := g.nodeIndexById[up.Destination]
		if !ok {
			return nil
		}

		if up.EdgeWeight.Kind() == weight.EdgeKindUse && up.EdgeWeight.IsDefault() {
			g.demoteExistingDefaultUse(sourceIdx)
		}
		g.AddEdge(sourceIdx, up.EdgeWeight, destIdx)
		return nil

	case weight.RemoveEdge:
		sourceIdx, ok := g.nodeIndexById[up.Source]
		if !ok {
			return nil
		}
		destIdx, ok := g.nodeIndexById[up.Destination]
		if !ok {
			return nil
		}
		if err := g.RemoveEdge(sourceIdx, destIdx, up.EdgeKind); err != nil {
			// Not-found is not an error at the update-application layer: the edge
			// may already have been removed by a concurrently-applied update batch.
			if err == ErrEdgeDoesNotExist {
				return nil
			}
			return err
		}
		return nil

	default:
		return nil
	}
}

// demoteExistingDefaultUse removes every outgoing default Use edge from source and
// re-adds it as non-default, enforcing "at most one default Use per source" before a
// new default Use edge is added.
func (g *Graph) demoteExistingDefaultUse(source NodeIndex) {
	s := &g.slots[source]
	for i, e := range s.outgoing {
		if e.weight.Kind() == weight.EdgeKindUse && e.weight.IsDefault() {
			s.outgoing[i].weight = weight.NewUseEdgeWeight(false)
			g.markTouched(source)
		}
	}
}

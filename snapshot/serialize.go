package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/systeminit/si-sub002/content"
	"github.com/systeminit/si-sub002/idgen"
	"github.com/systeminit/si-sub002/weight"
)

// serializedGraph is the persisted snapshot format: an adjacency list plus the id and
// lineage maps and the root index. Slot indices are compacted on write, so consumers
// must treat the id and lineage maps as the source of truth and never rely on index
// stability across a serialize/deserialize round trip.
type serializedGraph struct {
	Nodes            []serializedNode `json:"nodes"`
	IdToIndex        map[string]int   `json:"idToIndex"`
	LineageToIndices map[string][]int `json:"lineageToIndices"`
	RootIndex        int              `json:"rootIndex"`
}

type serializedNode struct {
	Weight weight.WireNode  `json:"weight"`
	Edges  []serializedEdge `json:"edges"`
}

type serializedEdge struct {
	Target int             `json:"target"`
	Weight weight.WireEdge `json:"weight"`
}

// Serialize encodes the graph for persistence. Callers must have called
// CleanupAndMerkleTreeHash first so the encoded merkle hashes are current.
func (g *Graph) Serialize() ([]byte, error) {
	compact := make(map[NodeIndex]int, len(g.slots))
	var nodes []serializedNode
	for i := range g.slots {
		idx := NodeIndex(i)
		if !g.slots[idx].occupied {
			continue
		}
		compact[idx] = len(nodes)
		nodes = append(nodes, serializedNode{Weight: weight.NodeToWire(g.slots[idx].weight)})
	}

	for i := range g.slots {
		idx := NodeIndex(i)
		if !g.slots[idx].occupied {
			continue
		}
		ci := compact[idx]
		for _, e := range g.slots[idx].outgoing {
			target, ok := compact[e.target]
			if !ok {
				// An edge into a vacant slot can only mean Cleanup was skipped.
				return nil, fmt.Errorf("snapshot: serialize found edge into vacant slot %d", e.target)
			}
			nodes[ci].Edges = append(nodes[ci].Edges, serializedEdge{
				Target: target,
				Weight: weight.EdgeToWire(e.weight),
			})
		}
	}

	sg := serializedGraph{
		Nodes:            nodes,
		IdToIndex:        make(map[string]int, len(g.nodeIndexById)),
		LineageToIndices: make(map[string][]int, len(g.indicesByLineage)),
		RootIndex:        compact[g.rootIndex],
	}
	for id, idx := range g.nodeIndexById {
		ci, ok := compact[idx]
		if !ok {
			continue
		}
		sg.IdToIndex[id.String()] = ci
	}
	for lineage, set := range g.indicesByLineage {
		for idx := range set {
			if ci, ok := compact[idx]; ok {
				sg.LineageToIndices[lineage.String()] = append(sg.LineageToIndices[lineage.String()], ci)
			}
		}
	}

	data, err := json.Marshal(sg)
	if err != nil {
		return nil, fmt.Errorf("snapshot: serialize graph: %w", err)
	}
	return data, nil
}

// Deserialize decodes a persisted snapshot into a fresh graph wired to idGen and
// store. The id and lineage indices are rebuilt from the serialized maps.
func Deserialize(data []byte, idGen *idgen.Generator, store content.Store) (*Graph, error) {
	var sg serializedGraph
	if err := json.Unmarshal(data, &sg); err != nil {
		return nil, fmt.Errorf("snapshot: deserialize graph: %w", err)
	}
	if sg.RootIndex < 0 || sg.RootIndex >= len(sg.Nodes) {
		return nil, fmt.Errorf("snapshot: deserialized root index %d out of range", sg.RootIndex)
	}

	g := &Graph{
		nodeIndexById:    make(map[idgen.ID]NodeIndex, len(sg.IdToIndex)),
		indicesByLineage: make(map[idgen.ID]map[NodeIndex]struct{}, len(sg.LineageToIndices)),
		touched:          make(map[NodeIndex]struct{}),
		idGen:            idGen,
		contentStore:     store,
	}

	for _, sn := range sg.Nodes {
		w, err := weight.NodeFromWire(sn.Weight)
		if err != nil {
			return nil, err
		}
		g.insertSlot(w)
	}

	for i, sn := range sg.Nodes {
		from := NodeIndex(i)
		for _, se := range sn.Edges {
			if se.Target < 0 || se.Target >= len(sg.Nodes) {
				return nil, fmt.Errorf("snapshot: deserialized edge target %d out of range", se.Target)
			}
			ew, err := weight.EdgeFromWire(se.Weight)
			if err != nil {
				return nil, err
			}
			g.addEdgeRaw(from, ew, NodeIndex(se.Target))
		}
	}

	for idStr, ci := range sg.IdToIndex {
		id, err := idgen.ParseID(idStr)
		if err != nil {
			return nil, err
		}
		if ci < 0 || ci >= len(sg.Nodes) {
			return nil, fmt.Errorf("snapshot: deserialized id index %d out of range", ci)
		}
		g.nodeIndexById[id] = NodeIndex(ci)
	}
	for lineageStr, indices := range sg.LineageToIndices {
		lineage, err := idgen.ParseID(lineageStr)
		if err != nil {
			return nil, err
		}
		for _, ci := range indices {
			if ci < 0 || ci >= len(sg.Nodes) {
				return nil, fmt.Errorf("snapshot: deserialized lineage index %d out of range", ci)
			}
			g.addLineage(lineage, NodeIndex(ci))
		}
	}

	g.rootIndex = NodeIndex(sg.RootIndex)
	return g, nil
}

// WriteToStore serializes the graph and persists it in the content store, returning
// the snapshot's content address. Callers must have called CleanupAndMerkleTreeHash
// first; WriteToStore does not do it for them, since a caller may legitimately want
// to persist the same cleaned graph more than once.
func (g *Graph) WriteToStore() (content.Hash, error) {
	data, err := g.Serialize()
	if err != nil {
		return content.Hash{}, err
	}
	hash, err := g.contentStore.Put(data)
	if err != nil {
		return content.Hash{}, fmt.Errorf("%w: %w", ErrContentStore, err)
	}
	return hash, nil
}

// ReadFromStore fetches a snapshot by content address and deserializes it.
func ReadFromStore(store content.Store, hash content.Hash, idGen *idgen.Generator) (*Graph, error) {
	data, err := store.Get(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentStore, err)
	}
	return Deserialize(data, idGen, store)
}

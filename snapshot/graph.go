// Package snapshot implements the workspace snapshot graph: a content-addressed,
// arena-indexed DAG of NodeWeight/EdgeWeight values, plus the operations that mutate
// it and the merkle hashing that makes every node's subtree verifiable.
//
// The graph is not internally synchronized. Callers must serialize every mutating
// call (the Add*, Remove*, Update*, PerformUpdates, and Cleanup* methods); read-only
// methods may run concurrently with each other but never concurrently with a writer.
// Concurrency control lives at the call site, not inside the data structure.
package snapshot

import (
	"fmt"
	"sort"

	"github.com/systeminit/si-sub002/content"
	"github.com/systeminit/si-sub002/idgen"
	"github.com/systeminit/si-sub002/merkle"
	"github.com/systeminit/si-sub002/metrics"
	"github.com/systeminit/si-sub002/weight"
)

// NodeIndex addresses a node's arena slot. It is meaningful only within one Graph
// instance: AddOrReplaceNode keeps a replaced node at its existing NodeIndex, but a
// slot vacated by Cleanup can be reused by a later insertion. A NodeIndex must never
// be persisted; the id/lineage maps are the durable source of truth.
type NodeIndex int

// EdgeIndex addresses one directed edge by its endpoints. Opaque handle only; callers
// needing to remove an edge go through RemoveEdge with the (source, target, kind)
// triple, not through this value.
type EdgeIndex struct {
	From NodeIndex
	To   NodeIndex
}

type edgeRef struct {
	target NodeIndex
	weight weight.EdgeWeight
}

type nodeSlot struct {
	occupied bool
	weight   weight.NodeWeight
	outgoing []edgeRef
	incoming []NodeIndex
	touched  bool
}

// Graph stores the DAG arena-and-index style: one slice of slots (vacant slots are
// tombstoned rather than compacted, so NodeIndex values stay valid across a single
// session), plus id and lineage indices that are the actual source of truth for
// "is this node alive."
type Graph struct {
	slots            []nodeSlot
	freeSlots        []NodeIndex
	nodeIndexById    map[idgen.ID]NodeIndex
	indicesByLineage map[idgen.ID]map[NodeIndex]struct{}
	rootIndex        NodeIndex
	touched          map[NodeIndex]struct{}
	idGen            *idgen.Generator
	contentStore     content.Store

	metrics     *metrics.Metrics
	changeSetID string
}

// SetMetrics attaches a metrics sink labeled with changeSetID; subsequent Cleanup
// calls report the resulting node count under it. A graph with no metrics attached
// simply skips recording.
func (g *Graph) SetMetrics(m *metrics.Metrics, changeSetID string) {
	g.metrics = m
	g.changeSetID = changeSetID
}

// New creates a graph with one root node (Content(Root, …)), assigning it a fresh id
// and lineage and registering it in both indices.
func New(idGen *idgen.Generator, store content.Store) (*Graph, error) {
	g := &Graph{
		nodeIndexById:    make(map[idgen.ID]NodeIndex),
		indicesByLineage: make(map[idgen.ID]map[NodeIndex]struct{}),
		touched:          make(map[NodeIndex]struct{}),
		idGen:            idGen,
		contentStore:     store,
	}

	rootId, err := idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("snapshot: mint root id: %w", err)
	}
	rootLineage, err := idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("snapshot: mint root lineage: %w", err)
	}

	root := weight.NewContentNodeWeight(rootId, rootLineage, weight.ContentAddressKindRoot, content.Hash{})
	idx := g.insertSlot(root)
	g.rootIndex = idx
	g.nodeIndexById[rootId] = idx
	g.addLineage(rootLineage, idx)
	g.refreshOwnMerkleHash(idx)

	return g, nil
}

// RootIndex returns the NodeIndex of the graph's single root node.
func (g *Graph) RootIndex() NodeIndex { return g.rootIndex }

// NodeCount returns the number of live (occupied) slots.
func (g *Graph) NodeCount() int {
	n := 0
	for _, s := range g.slots {
		if s.occupied {
			n++
		}
	}
	return n
}

// NodeWeight returns the weight stored at idx, or nil if the slot is vacant.
func (g *Graph) NodeWeight(idx NodeIndex) weight.NodeWeight {
	if !g.validIndex(idx) || !g.slots[idx].occupied {
		return nil
	}
	return g.slots[idx].weight
}

// NodeIndexById resolves a NodeId to its current NodeIndex.
func (g *Graph) NodeIndexById(id idgen.ID) (NodeIndex, bool) {
	idx, ok := g.nodeIndexById[id]
	return idx, ok
}

// IndicesForLineage returns every currently-live NodeIndex sharing the given lineage.
func (g *Graph) IndicesForLineage(lineage idgen.ID) []NodeIndex {
	set, ok := g.indicesByLineage[lineage]
	if !ok {
		return nil
	}
	out := make([]NodeIndex, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	return out
}

// EdgesDirected returns the outgoing edges from idx as (target, weight) pairs.
func (g *Graph) EdgesDirected(idx NodeIndex) []EdgeWithTarget {
	if !g.validIndex(idx) || !g.slots[idx].occupied {
		return nil
	}
	out := make([]EdgeWithTarget, 0, len(g.slots[idx].outgoing))
	for _, e := range g.slots[idx].outgoing {
		out = append(out, EdgeWithTarget{Target: e.target, Weight: e.weight})
	}
	return out
}

// EdgeWithTarget pairs an edge's weight with the NodeIndex it points at.
type EdgeWithTarget struct {
	Target NodeIndex
	Weight weight.EdgeWeight
}

// IsAcyclicDirected reports whether the graph currently has no directed cycles,
// computed via Kahn's algorithm.
func (g *Graph) IsAcyclicDirected() bool {
	return g.isAcyclic()
}

// AddOrReplaceNode inserts w as a new node, or, if a node with the same id already
// exists, overwrites its weight in place at the existing NodeIndex. Either way the
// node is marked touched and its own merkle tree hash is refreshed without
// re-hashing children.
func (g *Graph) AddOrReplaceNode(w weight.NodeWeight) NodeIndex {
	if existing, ok := g.nodeIndexById[w.Id()]; ok {
		g.slots[existing].weight = w
		g.markTouched(existing)
		g.refreshOwnMerkleHash(existing)
		return existing
	}

	idx := g.insertSlot(w)
	g.nodeIndexById[w.Id()] = idx
	g.addLineage(w.LineageId(), idx)
	g.markTouched(idx)
	g.refreshOwnMerkleHash(idx)
	return idx
}

// AddEdge adds or updates the edge between from and to: if an edge already connects
// this exact pair of endpoints, its weight is replaced in place; otherwise a new edge
// is appended. Does not check for cycles; callers needing that guarantee use
// AddEdgeWithCycleCheck.
func (g *Graph) AddEdge(from NodeIndex, ew weight.EdgeWeight, to NodeIndex) EdgeIndex {
	g.addEdgeRaw(from, ew, to)
	g.markTouched(from)
	return EdgeIndex{From: from, To: to}
}

// AddEdgeWithCycleCheck tentatively inserts the edge, verifies the graph is still
// acyclic, and rolls back to the prior state (restoring a replaced edge's previous
// weight, or removing a brand new edge) if the insertion would have created a cycle.
func (g *Graph) AddEdgeWithCycleCheck(from NodeIndex, ew weight.EdgeWeight, to NodeIndex) (EdgeIndex, error) {
	prev, existed := g.addEdgeRaw(from, ew, to)
	if g.isAcyclic() {
		g.markTouched(from)
		return EdgeIndex{From: from, To: to}, nil
	}

	if existed {
		s := &g.slots[from]
		for i := range s.outgoing {
			if s.outgoing[i].target == to {
				s.outgoing[i].weight = *prev
				break
			}
		}
	} else {
		g.popLastOutgoing(from)
		g.popLastIncoming(to)
	}
	return EdgeIndex{}, ErrCreateGraphCycle
}

// AddOrderedEdge adds an edge as AddEdge does, then, iff from has an outgoing
// Ordering edge to an Ordering node O, also adds an Ordinal edge from O to to and
// appends to's id to O's order. Returns the main edge and, when present, the Ordinal
// edge added alongside it.
func (g *Graph) AddOrderedEdge(from NodeIndex, ew weight.EdgeWeight, to NodeIndex) (EdgeIndex, *EdgeIndex, error) {
	main := g.AddEdge(from, ew, to)

	o, ok, err := g.orderingNodeForChecked(from)
	if err != nil {
		return main, nil, err
	}
	if !ok {
		return main, nil, nil
	}

	ordinal := g.AddEdge(o, weight.NewSimpleEdgeWeight(weight.EdgeKindOrdinal), to)
	targetId := g.slots[to].weight.Id()
	if err := g.slots[o].weight.PushToOrder(targetId); err != nil {
		return main, nil, fmt.Errorf("snapshot: push to order: %w", err)
	}
	g.markTouched(o)
	return main, &ordinal, nil
}

// AddOrderedNode inserts weight as a new container node and creates a fresh Ordering
// child connected to it by one Ordering edge. Returns the container's NodeIndex.
func (g *Graph) AddOrderedNode(w weight.NodeWeight) (NodeIndex, error) {
	containerIdx := g.AddOrReplaceNode(w)

	orderId, err := g.idGen.NewID()
	if err != nil {
		return containerIdx, fmt.Errorf("snapshot: mint ordering id: %w", err)
	}
	orderLineage, err := g.idGen.NewID()
	if err != nil {
		return containerIdx, fmt.Errorf("snapshot: mint ordering lineage: %w", err)
	}

	orderingIdx := g.AddOrReplaceNode(weight.NewOrderingNodeWeight(orderId, orderLineage))
	g.AddEdge(containerIdx, weight.NewSimpleEdgeWeight(weight.EdgeKindOrdering), orderingIdx)
	return containerIdx, nil
}

// RemoveEdge removes every edge between source and target whose kind matches kind.
// If source has an ordering node and target's id is in its order, the id is removed
// from the order and the corresponding Ordinal edge is removed too.
func (g *Graph) RemoveEdge(source, target NodeIndex, kind weight.EdgeKind) error {
	if !g.validIndex(source) || !g.slots[source].occupied {
		return ErrNodeWeightNotFound
	}

	s := &g.slots[source]
	removedAny := false
	newOut := s.outgoing[:0:0]
	for _, e := range s.outgoing {
		if e.target == target && e.weight.Kind() == kind {
			removedAny = true
			continue
		}
		newOut = append(newOut, e)
	}
	if !removedAny {
		return ErrEdgeDoesNotExist
	}
	s.outgoing = newOut
	g.removeIncomingOnce(target, source)
	g.markTouched(source)

	if o, ok := g.orderingNodeFor(source); ok {
		targetId := g.slots[target].weight.Id()
		order, _ := g.slots[o].weight.Order()
		inOrder := false
		for _, id := range order {
			if id == targetId {
				inOrder = true
				break
			}
		}
		if inOrder {
			_ = g.slots[o].weight.RemoveFromOrder(targetId)
			os := &g.slots[o]
			newOut2 := os.outgoing[:0:0]
			for _, e := range os.outgoing {
				if e.target == target && e.weight.Kind() == weight.EdgeKindOrdinal {
					continue
				}
				newOut2 = append(newOut2, e)
			}
			os.outgoing = newOut2
			g.removeIncomingOnce(target, o)
			g.markTouched(o)
		}
	}
	return nil
}

// UpdateContent sets the node's content hash and marks it touched.
func (g *Graph) UpdateContent(id idgen.ID, newHash content.Hash) error {
	idx, ok := g.nodeIndexById[id]
	if !ok {
		return &NodeWithIdNotFoundError{Id: id}
	}
	if err := g.slots[idx].weight.NewContentHash(newHash); err != nil {
		return err
	}
	g.markTouched(idx)
	return nil
}

// UpdateNodeWeight mutates the node with the given id in place via mutate and marks
// it touched. The callback must not change the node's id or lineage; use
// AddOrReplaceNode for replacements.
func (g *Graph) UpdateNodeWeight(id idgen.ID, mutate func(weight.NodeWeight) error) error {
	idx, ok := g.nodeIndexById[id]
	if !ok {
		return &NodeWithIdNotFoundError{Id: id}
	}
	if err := mutate(g.slots[idx].weight); err != nil {
		return err
	}
	g.markTouched(idx)
	return nil
}

// UpdateOrder replaces a container's ordering node's order with newOrder. newOrder
// must be a permutation of the current order; a mismatched element set returns
// ErrOrderingNotAPermutation instead of silently accepting it.
func (g *Graph) UpdateOrder(containerId idgen.ID, newOrder []idgen.ID) error {
	containerIdx, ok := g.nodeIndexById[containerId]
	if !ok {
		return &NodeWithIdNotFoundError{Id: containerId}
	}
	o, ok, err := g.orderingNodeForChecked(containerIdx)
	if err != nil {
		return err
	}
	if !ok {
		return weight.ErrOrderingRequired
	}

	current, _ := g.slots[o].weight.Order()
	if !samePermutation(current, newOrder) {
		return ErrOrderingNotAPermutation
	}

	if err := g.slots[o].weight.SetOrder(newOrder); err != nil {
		return err
	}
	g.markTouched(o)
	return nil
}

func samePermutation(a, b []idgen.ID) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[idgen.ID]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}

// Cleanup iteratively removes every node that is not root and has no incoming edges,
// until the only such node left is root. It then prunes the id and lineage indices to
// contain only surviving nodes. Deleting a slot drops the incoming-edge records it
// held on its targets; it does not rewrite the order of any surviving ordering node,
// so an order can keep the id of a node removed here (OrderedChildrenForNode skips
// ids that no longer resolve).
func (g *Graph) Cleanup() {
	for {
		removedAny := false
		for i := range g.slots {
			idx := NodeIndex(i)
			if idx == g.rootIndex || !g.slots[idx].occupied {
				continue
			}
			if len(g.slots[idx].incoming) == 0 {
				g.deleteSlot(idx)
				removedAny = true
			}
		}
		if !removedAny {
			break
		}
	}

	if g.metrics != nil {
		g.metrics.RecordGraphCleanup(g.changeSetID, g.NodeCount())
	}
}

func (g *Graph) deleteSlot(idx NodeIndex) {
	s := &g.slots[idx]
	w := s.weight

	for _, e := range s.outgoing {
		g.removeIncomingOnce(e.target, idx)
	}

	if cur, ok := g.nodeIndexById[w.Id()]; ok && cur == idx {
		delete(g.nodeIndexById, w.Id())
	}
	g.removeLineage(w.LineageId(), idx)
	delete(g.touched, idx)

	g.slots[idx] = nodeSlot{}
	g.freeSlots = append(g.freeSlots, idx)
}

// CleanupAndMerkleTreeHash runs Cleanup then recalculates merkle tree hashes for
// every node touched (directly or transitively) since the last call. Callers must
// always call this before persisting a graph.
func (g *Graph) CleanupAndMerkleTreeHash() {
	g.Cleanup()
	g.RecalculateEntireMerkleTreeHashBasedOnTouchedNodes()
}

// RecalculateEntireMerkleTreeHashBasedOnTouchedNodes runs a post-order DFS from root,
// recomputing a node's merkle tree hash when the node itself is touched or when any
// of its children were just recomputed. The touched set is cleared afterward.
func (g *Graph) RecalculateEntireMerkleTreeHashBasedOnTouchedNodes() {
	order := g.postOrderFromRoot()
	recomputed := make(map[NodeIndex]bool, len(order))

	for _, idx := range order {
		needsUpdate := g.slots[idx].touched
		if !needsUpdate {
			for _, e := range g.slots[idx].outgoing {
				if recomputed[e.target] {
					needsUpdate = true
					break
				}
			}
		}
		if needsUpdate {
			g.updateMerkleTreeHash(idx)
			recomputed[idx] = true
		}
	}

	g.touched = make(map[NodeIndex]struct{})
	for i := range g.slots {
		g.slots[i].touched = false
	}
}

// RecalculateEntireMerkleTreeHash unconditionally post-orders every live node and
// recomputes its merkle tree hash, ignoring the touched set.
func (g *Graph) RecalculateEntireMerkleTreeHash() {
	for _, idx := range g.postOrderFromRoot() {
		g.updateMerkleTreeHash(idx)
	}
	g.touched = make(map[NodeIndex]struct{})
	for i := range g.slots {
		g.slots[i].touched = false
	}
}

func (g *Graph) postOrderFromRoot() []NodeIndex {
	visited := make(map[NodeIndex]bool)
	order := make([]NodeIndex, 0, len(g.slots))

	var visit func(idx NodeIndex)
	visit = func(idx NodeIndex) {
		if visited[idx] {
			return
		}
		visited[idx] = true
		for _, e := range g.slots[idx].outgoing {
			visit(e.target)
		}
		order = append(order, idx)
	}
	visit(g.rootIndex)
	return order
}

// OrderedChildrenForNode returns idx's ordered children (via its Ordering edge and the
// Ordering node's order) in order, or nil if idx has no Ordering edge.
func (g *Graph) OrderedChildrenForNode(idx NodeIndex) []NodeIndex {
	o, ok := g.orderingNodeFor(idx)
	if !ok {
		return nil
	}
	order, _ := g.slots[o].weight.Order()
	out := make([]NodeIndex, 0, len(order))
	for _, id := range order {
		if childIdx, ok := g.nodeIndexById[id]; ok {
			out = append(out, childIdx)
		}
	}
	return out
}

func (g *Graph) updateMerkleTreeHash(idx NodeIndex) {
	s := &g.slots[idx]
	h := merkle.New()
	h.AbsorbNodeHash(s.weight.NodeHash())

	ordered := g.OrderedChildrenForNode(idx)
	inOrdered := make(map[NodeIndex]bool, len(ordered))
	for _, c := range ordered {
		inOrdered[c] = true
	}

	seen := make(map[NodeIndex]bool, len(s.outgoing))
	unordered := make([]NodeIndex, 0, len(s.outgoing))
	for _, e := range s.outgoing {
		if inOrdered[e.target] || seen[e.target] {
			continue
		}
		seen[e.target] = true
		unordered = append(unordered, e.target)
	}
	sort.Slice(unordered, func(i, j int) bool {
		return g.slots[unordered[i]].weight.Id().Compare(g.slots[unordered[j]].weight.Id()) < 0
	})

	children := make([]NodeIndex, 0, len(ordered)+len(unordered))
	children = append(children, ordered...)
	children = append(children, unordered...)

	for _, child := range children {
		childHash := g.slots[child].weight.MerkleTreeHash()
		var edgeBytes [][]byte
		if b, ok := g.edgeBytesBetween(idx, child); ok && b != nil {
			edgeBytes = append(edgeBytes, b)
		}
		h.AbsorbChild(merkle.Hash(childHash), edgeBytes)
	}

	s.weight.SetMerkleTreeHash([32]byte(h.Finalize()))
}

func (g *Graph) edgeBytesBetween(from, to NodeIndex) ([]byte, bool) {
	for _, e := range g.slots[from].outgoing {
		if e.target == to {
			return e.weight.MerkleBytes(), true
		}
	}
	return nil, false
}

func (g *Graph) refreshOwnMerkleHash(idx NodeIndex) {
	w := g.slots[idx].weight
	var h [32]byte
	nh := w.NodeHash()
	copy(h[:], nh[:])
	w.SetMerkleTreeHash(h)
}

func (g *Graph) orderingNodeFor(idx NodeIndex) (NodeIndex, bool) {
	for _, e := range g.slots[idx].outgoing {
		if e.weight.Kind() == weight.EdgeKindOrdering {
			return e.target, true
		}
	}
	return NodeIndex(0), false
}

// orderingNodeForChecked is orderingNodeFor plus enforcement of the at-most-one
// Ordering edge invariant; a second Ordering edge means the graph is malformed.
func (g *Graph) orderingNodeForChecked(idx NodeIndex) (NodeIndex, bool, error) {
	found := false
	var ordering NodeIndex
	for _, e := range g.slots[idx].outgoing {
		if e.weight.Kind() == weight.EdgeKindOrdering {
			if found {
				return NodeIndex(0), false, fmt.Errorf("%w: node index %d", ErrTooManyOrderingForNode, idx)
			}
			found = true
			ordering = e.target
		}
	}
	return ordering, found, nil
}

// addEdgeRaw adds or replaces the edge for one (from, to) endpoint pair: if from
// already has an outgoing edge to to (any kind, endpoints alone are the match key),
// its weight is replaced and the previous weight is returned for potential rollback;
// otherwise a new edge is appended.
func (g *Graph) addEdgeRaw(from NodeIndex, ew weight.EdgeWeight, to NodeIndex) (prev *weight.EdgeWeight, existed bool) {
	s := &g.slots[from]
	for i := range s.outgoing {
		if s.outgoing[i].target == to {
			old := s.outgoing[i].weight
			s.outgoing[i].weight = ew
			return &old, true
		}
	}
	s.outgoing = append(s.outgoing, edgeRef{target: to, weight: ew})
	g.slots[to].incoming = append(g.slots[to].incoming, from)
	return nil, false
}

func (g *Graph) popLastOutgoing(idx NodeIndex) {
	s := &g.slots[idx]
	s.outgoing = s.outgoing[:len(s.outgoing)-1]
}

func (g *Graph) popLastIncoming(idx NodeIndex) {
	s := &g.slots[idx]
	s.incoming = s.incoming[:len(s.incoming)-1]
}

func (g *Graph) removeIncomingOnce(idx, source NodeIndex) {
	s := &g.slots[idx]
	for i, in := range s.incoming {
		if in == source {
			s.incoming = append(s.incoming[:i], s.incoming[i+1:]...)
			return
		}
	}
}

// isAcyclic runs Kahn's algorithm over every occupied slot: if the topological sort
// cannot consume every live node, a cycle exists.
func (g *Graph) isAcyclic() bool {
	indegree := make(map[NodeIndex]int)
	total := 0
	for i := range g.slots {
		idx := NodeIndex(i)
		if !g.slots[idx].occupied {
			continue
		}
		total++
		if _, ok := indegree[idx]; !ok {
			indegree[idx] = 0
		}
	}
	for i := range g.slots {
		idx := NodeIndex(i)
		if !g.slots[idx].occupied {
			continue
		}
		for _, e := range g.slots[idx].outgoing {
			indegree[e.target]++
		}
	}

	queue := make([]NodeIndex, 0, total)
	for idx, d := range indegree {
		if d == 0 {
			queue = append(queue, idx)
		}
	}

	processed := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		processed++
		for _, e := range g.slots[cur].outgoing {
			indegree[e.target]--
			if indegree[e.target] == 0 {
				queue = append(queue, e.target)
			}
		}
	}

	return processed == total
}

func (g *Graph) insertSlot(w weight.NodeWeight) NodeIndex {
	if n := len(g.freeSlots); n > 0 {
		idx := g.freeSlots[n-1]
		g.freeSlots = g.freeSlots[:n-1]
		g.slots[idx] = nodeSlot{occupied: true, weight: w}
		return idx
	}
	g.slots = append(g.slots, nodeSlot{occupied: true, weight: w})
	return NodeIndex(len(g.slots) - 1)
}

func (g *Graph) addLineage(lineage idgen.ID, idx NodeIndex) {
	set, ok := g.indicesByLineage[lineage]
	if !ok {
		set = make(map[NodeIndex]struct{})
		g.indicesByLineage[lineage] = set
	}
	set[idx] = struct{}{}
}

func (g *Graph) removeLineage(lineage idgen.ID, idx NodeIndex) {
	set, ok := g.indicesByLineage[lineage]
	if !ok {
		return
	}
	delete(set, idx)
	if len(set) == 0 {
		delete(g.indicesByLineage, lineage)
	}
}

func (g *Graph) markTouched(idx NodeIndex) {
	g.slots[idx].touched = true
	g.touched[idx] = struct{}{}
}

func (g *Graph) validIndex(idx NodeIndex) bool {
	return idx >= 0 && int(idx) < len(g.slots)
}

// DebugSummary renders a bounded, human-readable snapshot of the graph's shape for
// operators inspecting a stuck change set: node/edge counts, the root id, and the
// current touched-set size. It prints no node content and must never be used for
// persistence.
func (g *Graph) DebugSummary() string {
	edgeCount := 0
	for _, s := range g.slots {
		if s.occupied {
			edgeCount += len(s.outgoing)
		}
	}
	rootId := g.slots[g.rootIndex].weight.Id()
	return fmt.Sprintf(
		"snapshot.Graph{nodes=%d, edges=%d, root=%s, ids=%d, lineages=%d, touched=%d}",
		g.NodeCount(), edgeCount, rootId, len(g.nodeIndexById), len(g.indicesByLineage), len(g.touched),
	)
}

package snapshot

import (
	"errors"
	"fmt"

	"github.com/systeminit/si-sub002/idgen"
	"github.com/systeminit/si-sub002/weight"
)

// ErrNodeWeightNotFound is returned when an operation references a NodeIndex that has
// no occupied slot.
var ErrNodeWeightNotFound = errors.New("snapshot: node weight not found")

// ErrNodeWithIdNotFound is returned when an operation references a NodeId that has no
// live node in the graph.
var ErrNodeWithIdNotFound = errors.New("snapshot: node with id not found")

// ErrEdgeDoesNotExist is returned when RemoveEdge finds no matching edge.
var ErrEdgeDoesNotExist = errors.New("snapshot: edge does not exist")

// ErrCreateGraphCycle is returned by AddEdgeWithCycleCheck when the proposed edge
// would create a cycle; the graph is left unchanged.
var ErrCreateGraphCycle = errors.New("snapshot: edge would create a cycle")

// ErrTooManyOrderingForNode indicates a container has more than one outgoing
// Ordering edge. Should not occur in a well-formed graph.
var ErrTooManyOrderingForNode = errors.New("snapshot: too many ordering edges for node")

// ErrTooManyPropForNode mirrors ErrTooManyOrderingForNode for the analogous
// at-most-one-Prop-child invariant some callers enforce on Prop containers.
var ErrTooManyPropForNode = errors.New("snapshot: too many prop edges for node")

// ErrCategoryNodeNotFound is returned by ImportComponentSubgraph when the destination
// graph has no Category node of the kind required to wire a newly-imported node.
var ErrCategoryNodeNotFound = errors.New("snapshot: category node not found")

// ErrOrderingNotAPermutation is returned by UpdateOrder when the proposed order's
// element set differs from the current order's element set.
var ErrOrderingNotAPermutation = errors.New("snapshot: new order is not a permutation of the current order")

// ErrContentStore wraps a failure from the content store collaborator surfaced during
// ImportComponentSubgraph.
var ErrContentStore = errors.New("snapshot: content store operation failed")

// NodeWithIdNotFoundError carries the missing id for programmatic inspection.
type NodeWithIdNotFoundError struct {
	Id idgen.ID
}

func (e *NodeWithIdNotFoundError) Error() string {
	return fmt.Sprintf("snapshot: node with id %s not found", e.Id)
}

func (e *NodeWithIdNotFoundError) Unwrap() error { return ErrNodeWithIdNotFound }

// CategoryNodeNotFoundError carries the missing category kind.
type CategoryNodeNotFoundError struct {
	Kind weight.CategoryKind
}

func (e *CategoryNodeNotFoundError) Error() string {
	return fmt.Sprintf("snapshot: category node not found for kind %s", e.Kind)
}

func (e *CategoryNodeNotFoundError) Unwrap() error { return ErrCategoryNodeNotFound }

// Package weight implements the closed tagged unions that carry a snapshot graph's
// node and edge data (NodeWeight and EdgeWeight), along with the node-hash logic the
// merkle package composes into whole-subtree hashes.
//
// Each NodeWeight variant is its own exported Go type implementing the NodeWeight
// interface; none of the variant-specific fields leak into a shared struct. Graph code
// works through the interface and Kind(); the wire codec type-switches on the
// concrete variant types to reach their fields. Operations that only make sense for one or
// two variants (NewContentHash, SetOrder/PushToOrder/RemoveFromOrder) are part of the
// interface for every variant, defaulting to an error on variants that do not
// support them.
package weight

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/systeminit/si-sub002/content"
	"github.com/systeminit/si-sub002/idgen"
)

// ErrIncompatibleKind is returned by NewContentHash when called on a variant that
// carries no content hash.
var ErrIncompatibleKind = errors.New("weight: incompatible node kind for this operation")

// ErrOrderingRequired is returned by SetOrder, PushToOrder, and RemoveFromOrder when
// called on any variant other than Ordering.
var ErrOrderingRequired = errors.New("weight: operation requires an Ordering node")

// NodeKind discriminates the closed set of NodeWeight variants.
type NodeKind int

const (
	NodeKindContent NodeKind = iota
	NodeKindOrdering
	NodeKindCategory
	NodeKindProp
	NodeKindComponent
	NodeKindFunc
	NodeKindFuncArg
	NodeKindInputSocket
	NodeKindAttributeValue
	NodeKindAttributePrototypeArgument
	NodeKindSecret
	NodeKindAction
	NodeKindActionPrototype
	NodeKindManagementPrototype
	NodeKindGeometry
	NodeKindView
	NodeKindDependentValueRoot
	NodeKindFinishedDependentValueRoot
	NodeKindApprovalRequirementDefinition
	NodeKindDiagramObject
	NodeKindSchemaVariant
)

func (k NodeKind) String() string {
	names := [...]string{
		"Content", "Ordering", "Category", "Prop", "Component", "Func", "FuncArg",
		"InputSocket", "AttributeValue", "AttributePrototypeArgument", "Secret",
		"Action", "ActionPrototype", "ManagementPrototype", "Geometry", "View",
		"DependentValueRoot", "FinishedDependentValueRoot",
		"ApprovalRequirementDefinition", "DiagramObject", "SchemaVariant",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// NodeWeight is the interface every node variant implements.
type NodeWeight interface {
	Kind() NodeKind
	Id() idgen.ID
	LineageId() idgen.ID

	// NodeHash is a stable hash of the node's own content, excluding children.
	NodeHash() [32]byte

	MerkleTreeHash() [32]byte
	SetMerkleTreeHash(h [32]byte)
	SetIdAndLineage(id, lineage idgen.ID)

	// NewContentHash replaces the content hash carried by Content-like variants.
	// Variants without one return ErrIncompatibleKind.
	NewContentHash(h content.Hash) error

	// SetOrder, PushToOrder, and RemoveFromOrder mutate an Ordering node's child
	// order. Every other variant returns ErrOrderingRequired.
	SetOrder(order []idgen.ID) error
	PushToOrder(id idgen.ID) error
	RemoveFromOrder(id idgen.ID) error

	// Order reports the current child order and whether this variant carries one at
	// all (only Ordering does); every other variant reports (nil, false).
	Order() ([]idgen.ID, bool)

	// ContentHashValue reports the node's content hash and whether this variant
	// carries one at all (Content and Prop do); every other variant reports
	// (zero value, false). The read-only counterpart to NewContentHash.
	ContentHashValue() (content.Hash, bool)

	// APATargets reports an AttributePrototypeArgument's cross-component targets and
	// whether any are set; every non-APA variant, and an APA with no targets, reports
	// (nil, false).
	APATargets() (*ArgumentTargets, bool)

	// CategoryKindValue reports a Category node's grouping kind; every other variant
	// reports (0, false).
	CategoryKindValue() (CategoryKind, bool)
}

// base holds the fields every NodeWeight variant shares and the default
// implementations of the operations most variants do not support. Variant structs
// embed base and shadow the methods they do support.
type base struct {
	id             idgen.ID
	lineageId      idgen.ID
	merkleTreeHash [32]byte
}

func (b *base) Id() idgen.ID                 { return b.id }
func (b *base) LineageId() idgen.ID          { return b.lineageId }
func (b *base) MerkleTreeHash() [32]byte     { return b.merkleTreeHash }
func (b *base) SetMerkleTreeHash(h [32]byte) { b.merkleTreeHash = h }
func (b *base) SetIdAndLineage(id, lineage idgen.ID) {
	b.id = id
	b.lineageId = lineage
}
func (b *base) NewContentHash(content.Hash) error       { return ErrIncompatibleKind }
func (b *base) SetOrder([]idgen.ID) error               { return ErrOrderingRequired }
func (b *base) PushToOrder(idgen.ID) error              { return ErrOrderingRequired }
func (b *base) RemoveFromOrder(idgen.ID) error          { return ErrOrderingRequired }
func (b *base) Order() ([]idgen.ID, bool)               { return nil, false }
func (b *base) ContentHashValue() (content.Hash, bool)  { return content.Hash{}, false }
func (b *base) APATargets() (*ArgumentTargets, bool)    { return nil, false }
func (b *base) CategoryKindValue() (CategoryKind, bool) { return 0, false }

// hashFields combines a node kind tag with a sequence of length-prefixed byte strings
// into a single node_hash, so that two variants (or two field orderings) can never
// collide on the same digest.
func hashFields(kind NodeKind, parts ...[]byte) [32]byte {
	h := sha256.New()
	var kindBuf [8]byte
	binary.BigEndian.PutUint64(kindBuf[:], uint64(kind))
	h.Write(kindBuf[:])

	var lenBuf [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(p)))
		h.Write(lenBuf[:])
		h.Write(p)
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func boolByte(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

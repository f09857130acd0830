package weight

import (
	"github.com/systeminit/si-sub002/content"
	"github.com/systeminit/si-sub002/idgen"
)

// ArgumentTargets identifies the source and destination component of a cross-component
// AttributePrototypeArgument edge (see spec discussion of ImportComponentSubgraph
// pruning "AttributePrototypeArgument-with-targets" nodes).
type ArgumentTargets struct {
	SourceComponentId      idgen.ID
	DestinationComponentId idgen.ID
}

func newBase(id, lineage idgen.ID) base {
	return base{id: id, lineageId: lineage}
}

// --- Content ---

type ContentNodeWeight struct {
	base
	contentKind ContentAddressKind
	hash        content.Hash
}

func NewContentNodeWeight(id, lineage idgen.ID, kind ContentAddressKind, hash content.Hash) *ContentNodeWeight {
	return &ContentNodeWeight{base: newBase(id, lineage), contentKind: kind, hash: hash}
}

func (w *ContentNodeWeight) Kind() NodeKind                  { return NodeKindContent }
func (w *ContentNodeWeight) ContentKind() ContentAddressKind { return w.contentKind }
func (w *ContentNodeWeight) Hash() content.Hash              { return w.hash }

func (w *ContentNodeWeight) NodeHash() [32]byte {
	var kindBuf [8]byte
	kindBuf[0] = byte(w.contentKind)
	return hashFields(w.Kind(), kindBuf[:], w.hash[:])
}

func (w *ContentNodeWeight) NewContentHash(h content.Hash) error {
	w.hash = h
	return nil
}

func (w *ContentNodeWeight) ContentHashValue() (content.Hash, bool) { return w.hash, true }

// --- Ordering ---

type OrderingNodeWeight struct {
	base
	order []idgen.ID
}

func NewOrderingNodeWeight(id, lineage idgen.ID) *OrderingNodeWeight {
	return &OrderingNodeWeight{base: newBase(id, lineage)}
}

func (w *OrderingNodeWeight) Kind() NodeKind { return NodeKindOrdering }

// CurrentOrder returns a defensive copy of the child order.
func (w *OrderingNodeWeight) CurrentOrder() []idgen.ID {
	out := make([]idgen.ID, len(w.order))
	copy(out, w.order)
	return out
}

func (w *OrderingNodeWeight) NodeHash() [32]byte {
	parts := make([][]byte, 0, len(w.order))
	for _, id := range w.order {
		idCopy := id
		parts = append(parts, idCopy[:])
	}
	return hashFields(w.Kind(), parts...)
}

func (w *OrderingNodeWeight) SetOrder(order []idgen.ID) error {
	w.order = append([]idgen.ID(nil), order...)
	return nil
}

func (w *OrderingNodeWeight) PushToOrder(id idgen.ID) error {
	w.order = append(w.order, id)
	return nil
}

func (w *OrderingNodeWeight) RemoveFromOrder(id idgen.ID) error {
	out := w.order[:0:0]
	for _, existing := range w.order {
		if existing != id {
			out = append(out, existing)
		}
	}
	w.order = out
	return nil
}

func (w *OrderingNodeWeight) Order() ([]idgen.ID, bool) {
	return w.CurrentOrder(), true
}

// --- Category ---

type CategoryNodeWeight struct {
	base
	categoryKind CategoryKind
}

func NewCategoryNodeWeight(id, lineage idgen.ID, kind CategoryKind) *CategoryNodeWeight {
	return &CategoryNodeWeight{base: newBase(id, lineage), categoryKind: kind}
}

func (w *CategoryNodeWeight) Kind() NodeKind             { return NodeKindCategory }
func (w *CategoryNodeWeight) CategoryKind() CategoryKind { return w.categoryKind }

func (w *CategoryNodeWeight) CategoryKindValue() (CategoryKind, bool) {
	return w.categoryKind, true
}

func (w *CategoryNodeWeight) NodeHash() [32]byte {
	return hashFields(w.Kind(), []byte{byte(w.categoryKind)})
}

// --- Prop ---

type PropNodeWeight struct {
	base
	name        string
	propKind    PropKind
	contentHash content.Hash
}

func NewPropNodeWeight(id, lineage idgen.ID, name string, kind PropKind, contentHash content.Hash) *PropNodeWeight {
	return &PropNodeWeight{base: newBase(id, lineage), name: name, propKind: kind, contentHash: contentHash}
}

func (w *PropNodeWeight) Kind() NodeKind            { return NodeKindProp }
func (w *PropNodeWeight) Name() string              { return w.name }
func (w *PropNodeWeight) PropKind() PropKind        { return w.propKind }
func (w *PropNodeWeight) ContentHash() content.Hash { return w.contentHash }

func (w *PropNodeWeight) NodeHash() [32]byte {
	return hashFields(w.Kind(), []byte(w.name), []byte{byte(w.propKind)}, w.contentHash[:])
}

func (w *PropNodeWeight) NewContentHash(h content.Hash) error {
	w.contentHash = h
	return nil
}

func (w *PropNodeWeight) ContentHashValue() (content.Hash, bool) { return w.contentHash, true }

// --- Component ---

type ComponentNodeWeight struct {
	base
	toDelete bool
}

func NewComponentNodeWeight(id, lineage idgen.ID, toDelete bool) *ComponentNodeWeight {
	return &ComponentNodeWeight{base: newBase(id, lineage), toDelete: toDelete}
}

func (w *ComponentNodeWeight) Kind() NodeKind     { return NodeKindComponent }
func (w *ComponentNodeWeight) ToDelete() bool     { return w.toDelete }
func (w *ComponentNodeWeight) SetToDelete(v bool) { w.toDelete = v }

func (w *ComponentNodeWeight) NodeHash() [32]byte {
	return hashFields(w.Kind(), boolByte(w.toDelete))
}

// --- Func ---

type FuncNodeWeight struct {
	base
	name string
}

func NewFuncNodeWeight(id, lineage idgen.ID, name string) *FuncNodeWeight {
	return &FuncNodeWeight{base: newBase(id, lineage), name: name}
}

func (w *FuncNodeWeight) Kind() NodeKind { return NodeKindFunc }
func (w *FuncNodeWeight) Name() string   { return w.name }

func (w *FuncNodeWeight) NodeHash() [32]byte {
	return hashFields(w.Kind(), []byte(w.name))
}

// --- FuncArg ---

type FuncArgNodeWeight struct {
	base
	name string
}

func NewFuncArgNodeWeight(id, lineage idgen.ID, name string) *FuncArgNodeWeight {
	return &FuncArgNodeWeight{base: newBase(id, lineage), name: name}
}

func (w *FuncArgNodeWeight) Kind() NodeKind { return NodeKindFuncArg }
func (w *FuncArgNodeWeight) Name() string   { return w.name }

func (w *FuncArgNodeWeight) NodeHash() [32]byte {
	return hashFields(w.Kind(), []byte(w.name))
}

// --- InputSocket ---

type InputSocketNodeWeight struct{ base }

func NewInputSocketNodeWeight(id, lineage idgen.ID) *InputSocketNodeWeight {
	return &InputSocketNodeWeight{base: newBase(id, lineage)}
}

func (w *InputSocketNodeWeight) Kind() NodeKind     { return NodeKindInputSocket }
func (w *InputSocketNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

// --- AttributeValue ---

type AttributeValueNodeWeight struct{ base }

func NewAttributeValueNodeWeight(id, lineage idgen.ID) *AttributeValueNodeWeight {
	return &AttributeValueNodeWeight{base: newBase(id, lineage)}
}

func (w *AttributeValueNodeWeight) Kind() NodeKind     { return NodeKindAttributeValue }
func (w *AttributeValueNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

// --- AttributePrototypeArgument ---

type AttributePrototypeArgumentNodeWeight struct {
	base
	targets *ArgumentTargets
}

func NewAttributePrototypeArgumentNodeWeight(id, lineage idgen.ID, targets *ArgumentTargets) *AttributePrototypeArgumentNodeWeight {
	return &AttributePrototypeArgumentNodeWeight{base: newBase(id, lineage), targets: targets}
}

func (w *AttributePrototypeArgumentNodeWeight) Kind() NodeKind {
	return NodeKindAttributePrototypeArgument
}

func (w *AttributePrototypeArgumentNodeWeight) Targets() *ArgumentTargets { return w.targets }

func (w *AttributePrototypeArgumentNodeWeight) APATargets() (*ArgumentTargets, bool) {
	return w.targets, w.targets != nil
}

func (w *AttributePrototypeArgumentNodeWeight) NodeHash() [32]byte {
	if w.targets == nil {
		return hashFields(w.Kind(), []byte{0})
	}
	src := w.targets.SourceComponentId
	dst := w.targets.DestinationComponentId
	return hashFields(w.Kind(), []byte{1}, src[:], dst[:])
}

// --- Secret ---

type SecretNodeWeight struct {
	base
	key string
}

func NewSecretNodeWeight(id, lineage idgen.ID, key string) *SecretNodeWeight {
	return &SecretNodeWeight{base: newBase(id, lineage), key: key}
}

func (w *SecretNodeWeight) Kind() NodeKind { return NodeKindSecret }
func (w *SecretNodeWeight) Key() string    { return w.key }

func (w *SecretNodeWeight) NodeHash() [32]byte {
	return hashFields(w.Kind(), []byte(w.key))
}

// --- Action ---

type ActionNodeWeight struct{ base }

func NewActionNodeWeight(id, lineage idgen.ID) *ActionNodeWeight {
	return &ActionNodeWeight{base: newBase(id, lineage)}
}

func (w *ActionNodeWeight) Kind() NodeKind     { return NodeKindAction }
func (w *ActionNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

// --- ActionPrototype ---

type ActionPrototypeNodeWeight struct{ base }

func NewActionPrototypeNodeWeight(id, lineage idgen.ID) *ActionPrototypeNodeWeight {
	return &ActionPrototypeNodeWeight{base: newBase(id, lineage)}
}

func (w *ActionPrototypeNodeWeight) Kind() NodeKind     { return NodeKindActionPrototype }
func (w *ActionPrototypeNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

// --- ManagementPrototype ---

type ManagementPrototypeNodeWeight struct{ base }

func NewManagementPrototypeNodeWeight(id, lineage idgen.ID) *ManagementPrototypeNodeWeight {
	return &ManagementPrototypeNodeWeight{base: newBase(id, lineage)}
}

func (w *ManagementPrototypeNodeWeight) Kind() NodeKind     { return NodeKindManagementPrototype }
func (w *ManagementPrototypeNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

// --- Geometry ---

type GeometryNodeWeight struct{ base }

func NewGeometryNodeWeight(id, lineage idgen.ID) *GeometryNodeWeight {
	return &GeometryNodeWeight{base: newBase(id, lineage)}
}

func (w *GeometryNodeWeight) Kind() NodeKind     { return NodeKindGeometry }
func (w *GeometryNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

// --- View ---

type ViewNodeWeight struct{ base }

func NewViewNodeWeight(id, lineage idgen.ID) *ViewNodeWeight {
	return &ViewNodeWeight{base: newBase(id, lineage)}
}

func (w *ViewNodeWeight) Kind() NodeKind     { return NodeKindView }
func (w *ViewNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

// --- DependentValueRoot ---

type DependentValueRootNodeWeight struct {
	base
	valueId idgen.ID
}

func NewDependentValueRootNodeWeight(id, lineage idgen.ID, valueId idgen.ID) *DependentValueRootNodeWeight {
	return &DependentValueRootNodeWeight{base: newBase(id, lineage), valueId: valueId}
}

func (w *DependentValueRootNodeWeight) Kind() NodeKind    { return NodeKindDependentValueRoot }
func (w *DependentValueRootNodeWeight) ValueId() idgen.ID { return w.valueId }

func (w *DependentValueRootNodeWeight) NodeHash() [32]byte {
	return hashFields(w.Kind(), w.valueId[:])
}

// --- FinishedDependentValueRoot ---

type FinishedDependentValueRootNodeWeight struct {
	base
	valueId idgen.ID
}

func NewFinishedDependentValueRootNodeWeight(id, lineage idgen.ID, valueId idgen.ID) *FinishedDependentValueRootNodeWeight {
	return &FinishedDependentValueRootNodeWeight{base: newBase(id, lineage), valueId: valueId}
}

func (w *FinishedDependentValueRootNodeWeight) Kind() NodeKind {
	return NodeKindFinishedDependentValueRoot
}
func (w *FinishedDependentValueRootNodeWeight) ValueId() idgen.ID { return w.valueId }

func (w *FinishedDependentValueRootNodeWeight) NodeHash() [32]byte {
	return hashFields(w.Kind(), w.valueId[:])
}

// --- ApprovalRequirementDefinition ---

type ApprovalRequirementDefinitionNodeWeight struct{ base }

func NewApprovalRequirementDefinitionNodeWeight(id, lineage idgen.ID) *ApprovalRequirementDefinitionNodeWeight {
	return &ApprovalRequirementDefinitionNodeWeight{base: newBase(id, lineage)}
}

func (w *ApprovalRequirementDefinitionNodeWeight) Kind() NodeKind {
	return NodeKindApprovalRequirementDefinition
}
func (w *ApprovalRequirementDefinitionNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

// --- DiagramObject ---

type DiagramObjectNodeWeight struct{ base }

func NewDiagramObjectNodeWeight(id, lineage idgen.ID) *DiagramObjectNodeWeight {
	return &DiagramObjectNodeWeight{base: newBase(id, lineage)}
}

func (w *DiagramObjectNodeWeight) Kind() NodeKind     { return NodeKindDiagramObject }
func (w *DiagramObjectNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

// --- SchemaVariant ---

type SchemaVariantNodeWeight struct{ base }

func NewSchemaVariantNodeWeight(id, lineage idgen.ID) *SchemaVariantNodeWeight {
	return &SchemaVariantNodeWeight{base: newBase(id, lineage)}
}

func (w *SchemaVariantNodeWeight) Kind() NodeKind     { return NodeKindSchemaVariant }
func (w *SchemaVariantNodeWeight) NodeHash() [32]byte { return hashFields(w.Kind()) }

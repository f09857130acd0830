package weight

// EdgeKind discriminates the closed set of EdgeWeight variants.
type EdgeKind int

const (
	EdgeKindUse EdgeKind = iota
	EdgeKindContain
	EdgeKindPrototype
	EdgeKindPrototypeArgument
	EdgeKindPrototypeArgumentValue
	EdgeKindProp
	EdgeKindSocket
	EdgeKindSocketValue
	EdgeKindOrdering
	EdgeKindOrdinal
	EdgeKindRoot
	EdgeKindProxy
	EdgeKindRepresents
	EdgeKindFrameContains
	EdgeKindAction
	EdgeKindActionPrototype
	EdgeKindAuthenticationPrototype
	EdgeKindManagementPrototype
	EdgeKindManages
	EdgeKindDiagramObject
	EdgeKindApprovalRequirementDefinition
	EdgeKindValidationOutput
)

func (k EdgeKind) String() string {
	names := [...]string{
		"Use", "Contain", "Prototype", "PrototypeArgument", "PrototypeArgumentValue",
		"Prop", "Socket", "SocketValue", "Ordering", "Ordinal", "Root", "Proxy",
		"Represents", "FrameContains", "Action", "ActionPrototype",
		"AuthenticationPrototype", "ManagementPrototype", "Manages", "DiagramObject",
		"ApprovalRequirementDefinition", "ValidationOutput",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// Key encodes a map-element or attribute-prototype-argument element key. Keys
// participate in merkle hashing alongside the edge kind they are attached to.
type Key string

// EdgeWeight is the closed tagged union every graph edge carries. Unlike NodeWeight,
// every variant shares the same shape (a kind plus two optional fields), so EdgeWeight
// is a single struct rather than an interface hierarchy; constructors enforce which
// fields are meaningful for which kind. Key reports whether a key applies via its ok
// return, the same pattern a map lookup uses; IsDefault is false for every non-Use
// kind.
type EdgeWeight struct {
	kind      EdgeKind
	key       Key
	hasKey    bool
	isDefault bool
}

// NewUseEdgeWeight builds a Use edge, recording whether it is the source's default Use.
func NewUseEdgeWeight(isDefault bool) EdgeWeight {
	return EdgeWeight{kind: EdgeKindUse, isDefault: isDefault}
}

// NewContainEdgeWeight builds a Contain edge, optionally keyed for map-element containment.
func NewContainEdgeWeight(key Key, hasKey bool) EdgeWeight {
	return EdgeWeight{kind: EdgeKindContain, key: key, hasKey: hasKey}
}

// NewPrototypeEdgeWeight builds a Prototype edge, optionally keyed for map-element prototypes.
func NewPrototypeEdgeWeight(key Key, hasKey bool) EdgeWeight {
	return EdgeWeight{kind: EdgeKindPrototype, key: key, hasKey: hasKey}
}

// NewSimpleEdgeWeight builds an edge for any kind that carries no key or default flag.
func NewSimpleEdgeWeight(kind EdgeKind) EdgeWeight {
	return EdgeWeight{kind: kind}
}

func (e EdgeWeight) Kind() EdgeKind { return e.kind }

// Key reports the edge's element key and whether one is present. Only meaningful for
// Contain and Prototype edges.
func (e EdgeWeight) Key() (Key, bool) { return e.key, e.hasKey }

// IsDefault reports whether this is the source's default Use edge. Only meaningful for
// Use edges; returns false for every other kind.
func (e EdgeWeight) IsDefault() bool { return e.kind == EdgeKindUse && e.isDefault }

// MerkleBytes returns the edge-kind-specific bytes the merkle hasher absorbs beyond
// the target's own merkle tree hash: the key of a keyed Contain or Prototype edge,
// the default flag of a Use edge, and nil for everything else.
func (e EdgeWeight) MerkleBytes() []byte {
	switch e.kind {
	case EdgeKindContain, EdgeKindPrototype:
		if e.hasKey {
			return []byte(e.key)
		}
		return nil
	case EdgeKindUse:
		return boolByte(e.isDefault)
	default:
		return nil
	}
}

package weight

// CategoryKind is the closed set of well-known Category node groupings hung off root.
type CategoryKind int

const (
	CategoryKindComponent CategoryKind = iota
	CategoryKindFunc
	CategoryKindSchema
	CategoryKindModule
	CategoryKindSecret
	CategoryKindView
	CategoryKindAction
	CategoryKindDiagramObject
)

func (k CategoryKind) String() string {
	names := [...]string{
		"Component", "Func", "Schema", "Module", "Secret", "View", "Action", "DiagramObject",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// PropKind is the closed set of primitive shapes a Prop node's value may take.
type PropKind int

const (
	PropKindString PropKind = iota
	PropKindInteger
	PropKindBoolean
	PropKindObject
	PropKindArray
	PropKindMap
	PropKindFloat
	PropKindJson
)

func (k PropKind) String() string {
	names := [...]string{
		"String", "Integer", "Boolean", "Object", "Array", "Map", "Float", "Json",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

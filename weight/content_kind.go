package weight

// ContentAddressKind is the closed set of semantic types a Content node variant may
// carry. It tags what the node's content hash refers to; the hash itself is a
// separate field of the node.
type ContentAddressKind int

const (
	ContentAddressKindSchema ContentAddressKind = iota
	ContentAddressKindSchemaVariant
	ContentAddressKindComponent
	ContentAddressKindFunc
	ContentAddressKindFuncArg
	ContentAddressKindProp
	ContentAddressKindInputSocket
	ContentAddressKindOutputSocket
	ContentAddressKindAttributePrototype
	ContentAddressKindAttributeValue
	ContentAddressKindModule
	ContentAddressKindSecret
	ContentAddressKindJsonValue
	ContentAddressKindGeometry
	ContentAddressKindView
	ContentAddressKindRoot
)

func (k ContentAddressKind) String() string {
	switch k {
	case ContentAddressKindSchema:
		return "Schema"
	case ContentAddressKindSchemaVariant:
		return "SchemaVariant"
	case ContentAddressKindComponent:
		return "Component"
	case ContentAddressKindFunc:
		return "Func"
	case ContentAddressKindFuncArg:
		return "FuncArg"
	case ContentAddressKindProp:
		return "Prop"
	case ContentAddressKindInputSocket:
		return "InputSocket"
	case ContentAddressKindOutputSocket:
		return "OutputSocket"
	case ContentAddressKindAttributePrototype:
		return "AttributePrototype"
	case ContentAddressKindAttributeValue:
		return "AttributeValue"
	case ContentAddressKindModule:
		return "Module"
	case ContentAddressKindSecret:
		return "Secret"
	case ContentAddressKindJsonValue:
		return "JsonValue"
	case ContentAddressKindGeometry:
		return "Geometry"
	case ContentAddressKindView:
		return "View"
	case ContentAddressKindRoot:
		return "Root"
	default:
		return "Unknown"
	}
}

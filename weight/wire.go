package weight

import (
	"encoding/hex"
	"fmt"

	"github.com/systeminit/si-sub002/content"
	"github.com/systeminit/si-sub002/idgen"
)

// WireNode is the serialized form of a NodeWeight: a kind discriminant plus the
// superset of variant fields, empty fields omitted. Ids travel as their sortable
// base32 strings, hashes as hex.
type WireNode struct {
	Kind           int    `json:"kind"`
	Id             string `json:"id"`
	LineageId      string `json:"lineageId"`
	MerkleTreeHash string `json:"merkleTreeHash"`

	ContentKind *int         `json:"contentKind,omitempty"`
	ContentHash string       `json:"contentHash,omitempty"`
	Order       []string     `json:"order,omitempty"`
	Category    *int         `json:"category,omitempty"`
	Name        string       `json:"name,omitempty"`
	PropKind    *int         `json:"propKind,omitempty"`
	ToDelete    bool         `json:"toDelete,omitempty"`
	SecretKey   string       `json:"secretKey,omitempty"`
	ValueId     string       `json:"valueId,omitempty"`
	Targets     *WireTargets `json:"targets,omitempty"`
}

// WireTargets is the serialized form of an AttributePrototypeArgument's
// cross-component targets.
type WireTargets struct {
	SourceComponentId      string `json:"sourceComponentId"`
	DestinationComponentId string `json:"destinationComponentId"`
}

// WireEdge is the serialized form of an EdgeWeight.
type WireEdge struct {
	Kind      int     `json:"kind"`
	Key       *string `json:"key,omitempty"`
	IsDefault bool    `json:"isDefault,omitempty"`
}

func intPtr(v int) *int { return &v }

// NodeToWire converts a NodeWeight into its wire form.
func NodeToWire(w NodeWeight) WireNode {
	mth := w.MerkleTreeHash()
	out := WireNode{
		Kind:           int(w.Kind()),
		Id:             w.Id().String(),
		LineageId:      w.LineageId().String(),
		MerkleTreeHash: hex.EncodeToString(mth[:]),
	}

	switch v := w.(type) {
	case *ContentNodeWeight:
		out.ContentKind = intPtr(int(v.ContentKind()))
		h := v.Hash()
		out.ContentHash = hex.EncodeToString(h[:])
	case *OrderingNodeWeight:
		order := v.CurrentOrder()
		out.Order = make([]string, len(order))
		for i, id := range order {
			out.Order[i] = id.String()
		}
	case *CategoryNodeWeight:
		out.Category = intPtr(int(v.CategoryKind()))
	case *PropNodeWeight:
		out.Name = v.Name()
		out.PropKind = intPtr(int(v.PropKind()))
		h := v.ContentHash()
		out.ContentHash = hex.EncodeToString(h[:])
	case *ComponentNodeWeight:
		out.ToDelete = v.ToDelete()
	case *FuncNodeWeight:
		out.Name = v.Name()
	case *FuncArgNodeWeight:
		out.Name = v.Name()
	case *AttributePrototypeArgumentNodeWeight:
		if targets := v.Targets(); targets != nil {
			out.Targets = &WireTargets{
				SourceComponentId:      targets.SourceComponentId.String(),
				DestinationComponentId: targets.DestinationComponentId.String(),
			}
		}
	case *SecretNodeWeight:
		out.SecretKey = v.Key()
	case *DependentValueRootNodeWeight:
		out.ValueId = v.ValueId().String()
	case *FinishedDependentValueRootNodeWeight:
		out.ValueId = v.ValueId().String()
	}

	return out
}

// NodeFromWire reconstructs a NodeWeight from its wire form.
func NodeFromWire(wn WireNode) (NodeWeight, error) {
	id, err := idgen.ParseID(wn.Id)
	if err != nil {
		return nil, err
	}
	lineage, err := idgen.ParseID(wn.LineageId)
	if err != nil {
		return nil, err
	}

	var w NodeWeight
	switch NodeKind(wn.Kind) {
	case NodeKindContent:
		if wn.ContentKind == nil {
			return nil, fmt.Errorf("weight: wire Content node %s missing contentKind", wn.Id)
		}
		hash, err := hashFromHex(wn.ContentHash)
		if err != nil {
			return nil, err
		}
		w = NewContentNodeWeight(id, lineage, ContentAddressKind(*wn.ContentKind), hash)
	case NodeKindOrdering:
		ow := NewOrderingNodeWeight(id, lineage)
		order := make([]idgen.ID, len(wn.Order))
		for i, s := range wn.Order {
			order[i], err = idgen.ParseID(s)
			if err != nil {
				return nil, err
			}
		}
		if err := ow.SetOrder(order); err != nil {
			return nil, err
		}
		w = ow
	case NodeKindCategory:
		if wn.Category == nil {
			return nil, fmt.Errorf("weight: wire Category node %s missing category", wn.Id)
		}
		w = NewCategoryNodeWeight(id, lineage, CategoryKind(*wn.Category))
	case NodeKindProp:
		if wn.PropKind == nil {
			return nil, fmt.Errorf("weight: wire Prop node %s missing propKind", wn.Id)
		}
		hash, err := hashFromHex(wn.ContentHash)
		if err != nil {
			return nil, err
		}
		w = NewPropNodeWeight(id, lineage, wn.Name, PropKind(*wn.PropKind), hash)
	case NodeKindComponent:
		w = NewComponentNodeWeight(id, lineage, wn.ToDelete)
	case NodeKindFunc:
		w = NewFuncNodeWeight(id, lineage, wn.Name)
	case NodeKindFuncArg:
		w = NewFuncArgNodeWeight(id, lineage, wn.Name)
	case NodeKindInputSocket:
		w = NewInputSocketNodeWeight(id, lineage)
	case NodeKindAttributeValue:
		w = NewAttributeValueNodeWeight(id, lineage)
	case NodeKindAttributePrototypeArgument:
		var targets *ArgumentTargets
		if wn.Targets != nil {
			src, err := idgen.ParseID(wn.Targets.SourceComponentId)
			if err != nil {
				return nil, err
			}
			dst, err := idgen.ParseID(wn.Targets.DestinationComponentId)
			if err != nil {
				return nil, err
			}
			targets = &ArgumentTargets{SourceComponentId: src, DestinationComponentId: dst}
		}
		w = NewAttributePrototypeArgumentNodeWeight(id, lineage, targets)
	case NodeKindSecret:
		w = NewSecretNodeWeight(id, lineage, wn.SecretKey)
	case NodeKindAction:
		w = NewActionNodeWeight(id, lineage)
	case NodeKindActionPrototype:
		w = NewActionPrototypeNodeWeight(id, lineage)
	case NodeKindManagementPrototype:
		w = NewManagementPrototypeNodeWeight(id, lineage)
	case NodeKindGeometry:
		w = NewGeometryNodeWeight(id, lineage)
	case NodeKindView:
		w = NewViewNodeWeight(id, lineage)
	case NodeKindDependentValueRoot, NodeKindFinishedDependentValueRoot:
		valueId, err := idgen.ParseID(wn.ValueId)
		if err != nil {
			return nil, err
		}
		if NodeKind(wn.Kind) == NodeKindDependentValueRoot {
			w = NewDependentValueRootNodeWeight(id, lineage, valueId)
		} else {
			w = NewFinishedDependentValueRootNodeWeight(id, lineage, valueId)
		}
	case NodeKindApprovalRequirementDefinition:
		w = NewApprovalRequirementDefinitionNodeWeight(id, lineage)
	case NodeKindDiagramObject:
		w = NewDiagramObjectNodeWeight(id, lineage)
	case NodeKindSchemaVariant:
		w = NewSchemaVariantNodeWeight(id, lineage)
	default:
		return nil, fmt.Errorf("weight: unrecognized wire node kind %d", wn.Kind)
	}

	mth, err := hex.DecodeString(wn.MerkleTreeHash)
	if err != nil || len(mth) != 32 {
		return nil, fmt.Errorf("weight: wire node %s carries malformed merkle tree hash", wn.Id)
	}
	var h [32]byte
	copy(h[:], mth)
	w.SetMerkleTreeHash(h)

	return w, nil
}

// EdgeToWire converts an EdgeWeight into its wire form.
func EdgeToWire(e EdgeWeight) WireEdge {
	out := WireEdge{Kind: int(e.Kind()), IsDefault: e.IsDefault()}
	if key, ok := e.Key(); ok {
		s := string(key)
		out.Key = &s
	}
	return out
}

// EdgeFromWire reconstructs an EdgeWeight from its wire form.
func EdgeFromWire(we WireEdge) (EdgeWeight, error) {
	kind := EdgeKind(we.Kind)
	switch kind {
	case EdgeKindUse:
		return NewUseEdgeWeight(we.IsDefault), nil
	case EdgeKindContain:
		if we.Key != nil {
			return NewContainEdgeWeight(Key(*we.Key), true), nil
		}
		return NewContainEdgeWeight("", false), nil
	case EdgeKindPrototype:
		if we.Key != nil {
			return NewPrototypeEdgeWeight(Key(*we.Key), true), nil
		}
		return NewPrototypeEdgeWeight("", false), nil
	default:
		if kind.String() == "Unknown" {
			return EdgeWeight{}, fmt.Errorf("weight: unrecognized wire edge kind %d", we.Kind)
		}
		return NewSimpleEdgeWeight(kind), nil
	}
}

func hashFromHex(s string) (content.Hash, error) {
	var h content.Hash
	if s == "" {
		return h, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(h) {
		return h, fmt.Errorf("weight: malformed content hash %q", s)
	}
	copy(h[:], b)
	return h, nil
}

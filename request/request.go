// Package request implements the three change-set index-rebuild request kinds a
// producer enqueues and the Compressor consumes: NewChangeSet, Update, and Rebuild.
// Each carries an opaque uuid request id and is JSON-serializable over the wire,
// wrapped in an envelope whose message_type header names the concrete kind.
package request

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind discriminates the three request variants and their matching
// CompressedRequest counterpart (a Rebuild compresses to itself).
type Kind string

const (
	KindNewChangeSet Kind = "NewChangeSet"
	KindUpdate       Kind = "Update"
	KindRebuild      Kind = "Rebuild"
)

// MessageType values identify a request's wire encoding in the transport's
// message_type header; an unrecognized value yields ErrUnsupportedContentType.
const (
	NewChangeSetMessageType = "NewChangeSetRequest"
	UpdateMessageType       = "UpdateRequest"
	RebuildMessageType      = "RebuildRequest"
)

// ErrUnsupportedContentType is returned by Decode when message_type names none of the
// three known request kinds.
var ErrUnsupportedContentType = fmt.Errorf("request: unsupported content type")

// Request is the closed union every request kind implements. RequestId is opaque and
// only used for tracing/logging; it plays no role in compression.
type Request interface {
	Kind() Kind
	RequestId() string
}

// NewChangeSet requests the index for a brand-new change set be built from scratch,
// copying from base_change_set_id's index where possible.
type NewChangeSet struct {
	ID                string `json:"requestId"`
	BaseChangeSetID   string `json:"baseChangeSetId"`
	NewChangeSetID    string `json:"newChangeSetId"`
	ToSnapshotAddress string `json:"toSnapshotAddress"`
}

func (r NewChangeSet) Kind() Kind        { return KindNewChangeSet }
func (r NewChangeSet) RequestId() string { return r.ID }

// Update requests the index be advanced incrementally by one change batch, moving it
// from FromSnapshotAddress to ToSnapshotAddress.
type Update struct {
	ID                  string `json:"requestId"`
	FromSnapshotAddress string `json:"fromSnapshotAddress"`
	ToSnapshotAddress   string `json:"toSnapshotAddress"`
	ChangeBatchAddress  string `json:"changeBatchAddress"`
}

func (r Update) Kind() Kind        { return KindUpdate }
func (r Update) RequestId() string { return r.ID }

// Rebuild requests the index be rebuilt from scratch against the current snapshot,
// the safe fallback whenever a coalesced intent would otherwise be ambiguous.
type Rebuild struct {
	ID string `json:"requestId"`
}

func (r Rebuild) Kind() Kind        { return KindRebuild }
func (r Rebuild) RequestId() string { return r.ID }

// NewNewChangeSet mints a NewChangeSet request with a fresh opaque request id.
func NewNewChangeSet(baseChangeSetID, newChangeSetID, toSnapshotAddress string) NewChangeSet {
	return NewChangeSet{
		ID:                uuid.New().String(),
		BaseChangeSetID:   baseChangeSetID,
		NewChangeSetID:    newChangeSetID,
		ToSnapshotAddress: toSnapshotAddress,
	}
}

// NewUpdate mints an Update request with a fresh opaque request id.
func NewUpdate(fromSnapshotAddress, toSnapshotAddress, changeBatchAddress string) Update {
	return Update{
		ID:                  uuid.New().String(),
		FromSnapshotAddress: fromSnapshotAddress,
		ToSnapshotAddress:   toSnapshotAddress,
		ChangeBatchAddress:  changeBatchAddress,
	}
}

// NewRebuild mints a Rebuild request with a fresh opaque request id.
func NewRebuild() Rebuild {
	return Rebuild{ID: uuid.New().String()}
}

// wireEnvelope is the on-the-wire shape: a message_type discriminant alongside the
// opaque payload bytes it describes.
type wireEnvelope struct {
	MessageType string          `json:"messageType"`
	Payload     json.RawMessage `json:"payload"`
}

// Encode serializes r into its wire envelope.
func Encode(r Request) ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("request: marshal payload: %w", err)
	}

	messageType, err := messageTypeFor(r.Kind())
	if err != nil {
		return nil, err
	}

	return json.Marshal(wireEnvelope{MessageType: messageType, Payload: payload})
}

// Decode decodes wire bytes into the concrete Request variant named by the envelope's
// message_type header.
func Decode(data []byte) (Request, error) {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("request: unmarshal envelope: %w", err)
	}

	switch env.MessageType {
	case NewChangeSetMessageType:
		var r NewChangeSet
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			return nil, fmt.Errorf("request: unmarshal NewChangeSet: %w", err)
		}
		return r, nil
	case UpdateMessageType:
		var r Update
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			return nil, fmt.Errorf("request: unmarshal Update: %w", err)
		}
		return r, nil
	case RebuildMessageType:
		var r Rebuild
		if err := json.Unmarshal(env.Payload, &r); err != nil {
			return nil, fmt.Errorf("request: unmarshal Rebuild: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, env.MessageType)
	}
}

func messageTypeFor(k Kind) (string, error) {
	switch k {
	case KindNewChangeSet:
		return NewChangeSetMessageType, nil
	case KindUpdate:
		return UpdateMessageType, nil
	case KindRebuild:
		return RebuildMessageType, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, k)
	}
}

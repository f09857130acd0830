package request

import (
	"encoding/json"
	"fmt"
)

// CompressedRequest is the single result of coalescing a burst of Requests: a tagged
// serialization carrying only the fields its Kind uses.
type CompressedRequest struct {
	Kind Kind `json:"kind"`

	// NewChangeSet fields.
	BaseChangeSetID   string `json:"baseChangeSetId,omitempty"`
	NewChangeSetID    string `json:"newChangeSetId,omitempty"`
	ToSnapshotAddress string `json:"toSnapshotAddress,omitempty"`

	// Update fields. FromSnapshotAddress doubles as the Update variant's "from";
	// ToSnapshotAddress above doubles as its "to".
	FromSnapshotAddress string `json:"fromSnapshotAddress,omitempty"`

	// Populated for both NewChangeSet (batches folded into it, possibly empty) and
	// Update (the full contiguous chain, in order).
	ChangeBatchAddresses []string `json:"changeBatchAddresses,omitempty"`
}

// NewChangeSetCompressed builds a NewChangeSet-kind CompressedRequest.
func NewChangeSetCompressed(first NewChangeSet, batches []string) CompressedRequest {
	return CompressedRequest{
		Kind:                 KindNewChangeSet,
		BaseChangeSetID:      first.BaseChangeSetID,
		NewChangeSetID:       first.NewChangeSetID,
		ToSnapshotAddress:    first.ToSnapshotAddress,
		ChangeBatchAddresses: batches,
	}
}

// UpdateCompressed builds an Update-kind CompressedRequest spanning from/to with the
// ordered list of change batch addresses the chain traversed.
func UpdateCompressed(from, to string, batches []string) CompressedRequest {
	return CompressedRequest{
		Kind:                 KindUpdate,
		FromSnapshotAddress:  from,
		ToSnapshotAddress:    to,
		ChangeBatchAddresses: batches,
	}
}

// RebuildCompressed builds a Rebuild-kind CompressedRequest.
func RebuildCompressed() CompressedRequest {
	return CompressedRequest{Kind: KindRebuild}
}

// EncodeCompressed serializes c into the wire bytes a local message carries
// downstream; the Kind field is the tag consumers dispatch on.
func EncodeCompressed(c CompressedRequest) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("request: marshal compressed request: %w", err)
	}
	return data, nil
}

// DecodeCompressed decodes wire bytes produced by EncodeCompressed.
func DecodeCompressed(data []byte) (CompressedRequest, error) {
	var c CompressedRequest
	if err := json.Unmarshal(data, &c); err != nil {
		return CompressedRequest{}, fmt.Errorf("request: unmarshal compressed request: %w", err)
	}
	return c, nil
}

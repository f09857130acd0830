// Package compressor collapses a burst of pending request.Request values for one
// change set into the single request.CompressedRequest that supersedes them, per the
// decision table CompressingStream applies to each read window. Compress is a pure
// function: no I/O, no clock, no side effects, so it carries no third-party dependency
// of its own; there is nothing here for a library to do.
package compressor

import (
	"errors"
	"fmt"

	"github.com/systeminit/si-sub002/request"
)

// ErrNoRequests is returned when Compress is called with an empty slice. It signals a
// contract violation by the caller, never a runtime condition Compress itself detects
// mid-computation.
var ErrNoRequests = errors.New("compressor: no requests")

// Compress folds requests down to the one CompressedRequest that supersedes them all.
// Rebuild is the safe fallback whenever the coalesced intent would otherwise be
// ambiguous; NewChangeSet supersedes Update because the downstream indexing layer
// falls back to a rebuild itself if its optimistic index-copy path fails.
func Compress(requests []request.Request) (request.CompressedRequest, error) {
	if len(requests) == 0 {
		return request.CompressedRequest{}, ErrNoRequests
	}

	switch {
	case allKind(requests, request.KindNewChangeSet):
		first := requests[0].(request.NewChangeSet)
		return request.NewChangeSetCompressed(first, nil), nil
	case allKind(requests, request.KindRebuild):
		return request.RebuildCompressed(), nil
	case allKind(requests, request.KindUpdate):
		return compressAllUpdates(toUpdates(requests))
	}

	switch requests[0].Kind() {
	case request.KindNewChangeSet:
		return compressStartingWithN(requests)
	case request.KindRebuild:
		return compressStartingWithR(requests)
	case request.KindUpdate:
		return compressStartingWithU(requests)
	default:
		return request.CompressedRequest{}, fmt.Errorf("compressor: unrecognized request kind %q", requests[0].Kind())
	}
}

// compressAllUpdates implements rule 4: a contiguous chain collapses to one Update
// spanning its ends with every batch address in order; any gap forces a Rebuild.
func compressAllUpdates(updates []request.Update) (request.CompressedRequest, error) {
	if isContiguousChain(updates) {
		return request.UpdateCompressed(updates[0].FromSnapshotAddress, updates[len(updates)-1].ToSnapshotAddress, batchesOf(updates)), nil
	}
	return request.RebuildCompressed(), nil
}

// compressStartingWithN implements rule 5. Stripping every NewChangeSet and Rebuild
// from the tail and checking the remaining Update run for contiguity covers all four
// of the rule's bullets uniformly: an empty remainder, an all-Update tail, and an
// all-Rebuild tail are each a special case of this general computation.
func compressStartingWithN(requests []request.Request) (request.CompressedRequest, error) {
	first := requests[0].(request.NewChangeSet)

	var updates []request.Update
	for _, r := range requests[1:] {
		if r.Kind() == request.KindUpdate {
			updates = append(updates, r.(request.Update))
		}
	}

	if len(updates) == 0 {
		return request.NewChangeSetCompressed(first, nil), nil
	}
	if isContiguousChain(updates) {
		return request.NewChangeSetCompressed(first, batchesOf(updates)), nil
	}
	return request.NewChangeSetCompressed(first, nil), nil
}

// compressStartingWithR implements rule 6: an all-Update tail always forces Rebuild
// regardless of contiguity; an all-NewChangeSet tail is treated as an out-of-order
// arrival and superseded by its first NewChangeSet; anything else is ambiguous.
func compressStartingWithR(requests []request.Request) (request.CompressedRequest, error) {
	tail := requests[1:]

	if allKind(tail, request.KindUpdate) {
		return request.RebuildCompressed(), nil
	}
	if allKind(tail, request.KindNewChangeSet) {
		first := firstNewChangeSet(tail)
		return request.NewChangeSetCompressed(first, nil), nil
	}
	return request.RebuildCompressed(), nil
}

// compressStartingWithU implements rule 7: an all-NewChangeSet tail is superseded by
// its first NewChangeSet, carrying forward the leading Update's lone batch address;
// anything else (all-Rebuild, or mixed) forces Rebuild.
func compressStartingWithU(requests []request.Request) (request.CompressedRequest, error) {
	leading := requests[0].(request.Update)
	tail := requests[1:]

	if allKind(tail, request.KindNewChangeSet) {
		first := firstNewChangeSet(tail)
		return request.NewChangeSetCompressed(first, []string{leading.ChangeBatchAddress}), nil
	}
	return request.RebuildCompressed(), nil
}

func allKind(requests []request.Request, k request.Kind) bool {
	for _, r := range requests {
		if r.Kind() != k {
			return false
		}
	}
	return true
}

func toUpdates(requests []request.Request) []request.Update {
	updates := make([]request.Update, len(requests))
	for i, r := range requests {
		updates[i] = r.(request.Update)
	}
	return updates
}

// isContiguousChain reports whether each Update's to_snapshot_address equals the
// following Update's from_snapshot_address. A single-element slice is trivially
// contiguous.
func isContiguousChain(updates []request.Update) bool {
	for i := 1; i < len(updates); i++ {
		if updates[i-1].ToSnapshotAddress != updates[i].FromSnapshotAddress {
			return false
		}
	}
	return true
}

func batchesOf(updates []request.Update) []string {
	batches := make([]string, len(updates))
	for i, u := range updates {
		batches[i] = u.ChangeBatchAddress
	}
	return batches
}

func firstNewChangeSet(requests []request.Request) request.NewChangeSet {
	for _, r := range requests {
		if n, ok := r.(request.NewChangeSet); ok {
			return n
		}
	}
	return request.NewChangeSet{}
}

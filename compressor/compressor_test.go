package compressor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systeminit/si-sub002/request"
)

func n(id string) request.NewChangeSet {
	return request.NewChangeSet{ID: id, BaseChangeSetID: "base-" + id, NewChangeSetID: "new-" + id, ToSnapshotAddress: "to-" + id}
}

func u(from, to, batch string) request.Update {
	return request.Update{ID: "u-" + batch, FromSnapshotAddress: from, ToSnapshotAddress: to, ChangeBatchAddress: batch}
}

func r() request.Rebuild {
	return request.Rebuild{ID: "r"}
}

func TestCompress_EmptyInput(t *testing.T) {
	_, err := Compress(nil)
	require.ErrorIs(t, err, ErrNoRequests)
}

func TestCompress_AllNewChangeSet(t *testing.T) {
	first := n("1")
	out, err := Compress([]request.Request{first, n("2")})
	require.NoError(t, err)
	assert.Equal(t, request.NewChangeSetCompressed(first, nil), out)
}

func TestCompress_AllRebuild(t *testing.T) {
	out, err := Compress([]request.Request{r(), r(), r()})
	require.NoError(t, err)
	assert.Equal(t, request.RebuildCompressed(), out)
}

func TestCompress_AllUpdatesContiguous(t *testing.T) {
	u1 := u("a", "b", "b1")
	u2 := u("b", "c", "b2")
	u3 := u("c", "d", "b3")

	out, err := Compress([]request.Request{u1, u2, u3})
	require.NoError(t, err)
	assert.Equal(t, request.UpdateCompressed("a", "d", []string{"b1", "b2", "b3"}), out)
}

func TestCompress_AllUpdatesGapForcesRebuild(t *testing.T) {
	u1 := u("a", "b", "b1")
	u2 := u("x", "y", "b2")

	out, err := Compress([]request.Request{u1, u2})
	require.NoError(t, err)
	assert.Equal(t, request.RebuildCompressed(), out)
}

func TestCompress_SingleElementIdentity(t *testing.T) {
	first := n("1")
	out, err := Compress([]request.Request{first})
	require.NoError(t, err)
	assert.Equal(t, request.NewChangeSetCompressed(first, nil), out)

	single := u("a", "b", "b1")
	out, err = Compress([]request.Request{single})
	require.NoError(t, err)
	assert.Equal(t, request.UpdateCompressed("a", "b", []string{"b1"}), out)

	out, err = Compress([]request.Request{r()})
	require.NoError(t, err)
	assert.Equal(t, request.RebuildCompressed(), out)
}

// S4: N followed by a contiguous Update chain merges the batches into the NewChangeSet.
func TestCompress_S4_NThenContiguousUpdates(t *testing.T) {
	first := n("1")
	u1 := u("a", "b", "b1")
	u2 := u("b", "c", "b2")
	u3 := u("c", "d", "b3")

	out, err := Compress([]request.Request{first, u1, u2, u3})
	require.NoError(t, err)
	assert.Equal(t, request.NewChangeSetCompressed(first, []string{"b1", "b2", "b3"}), out)
}

// S5: N, U1, R, U2 where U1.to != U2.from drops the batches but N still wins.
func TestCompress_S5_NThenRebuildAndGappedUpdate(t *testing.T) {
	first := n("1")
	u1 := u("a", "b", "b1")
	u2 := u("x", "y", "b2")

	out, err := Compress([]request.Request{first, u1, r(), u2})
	require.NoError(t, err)
	assert.Equal(t, request.NewChangeSetCompressed(first, nil), out)
}

func TestCompress_NThenAllRebuild(t *testing.T) {
	first := n("1")
	out, err := Compress([]request.Request{first, r(), r()})
	require.NoError(t, err)
	assert.Equal(t, request.NewChangeSetCompressed(first, nil), out)
}

func TestCompress_RThenAllUpdates_AlwaysRebuild(t *testing.T) {
	u1 := u("a", "b", "b1")
	u2 := u("b", "c", "b2")

	out, err := Compress([]request.Request{r(), u1, u2})
	require.NoError(t, err)
	assert.Equal(t, request.RebuildCompressed(), out)
}

func TestCompress_RThenAllNewChangeSet_TreatedAsOutOfOrder(t *testing.T) {
	first := n("1")
	out, err := Compress([]request.Request{r(), first, n("2")})
	require.NoError(t, err)
	assert.Equal(t, request.NewChangeSetCompressed(first, nil), out)
}

func TestCompress_RThenMixed_Rebuild(t *testing.T) {
	out, err := Compress([]request.Request{r(), n("1"), u("a", "b", "b1")})
	require.NoError(t, err)
	assert.Equal(t, request.RebuildCompressed(), out)
}

func TestCompress_UThenAllNewChangeSet(t *testing.T) {
	leading := u("a", "b", "b1")
	first := n("1")

	out, err := Compress([]request.Request{leading, first, n("2")})
	require.NoError(t, err)
	assert.Equal(t, request.NewChangeSetCompressed(first, []string{"b1"}), out)
}

func TestCompress_UThenAllRebuild(t *testing.T) {
	out, err := Compress([]request.Request{u("a", "b", "b1"), r(), r()})
	require.NoError(t, err)
	assert.Equal(t, request.RebuildCompressed(), out)
}

func TestCompress_UThenMixed_Rebuild(t *testing.T) {
	out, err := Compress([]request.Request{u("a", "b", "b1"), n("1"), r()})
	require.NoError(t, err)
	assert.Equal(t, request.RebuildCompressed(), out)
}

func TestCompress_Determinism(t *testing.T) {
	requests := []request.Request{n("1"), u("a", "b", "b1"), u("b", "c", "b2")}

	out1, err1 := Compress(requests)
	out2, err2 := Compress(requests)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, out1, out2)
}

package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickelc/zookeeper"
	"github.com/nickelc/zookeeper/zkerrors"
)

func TestParseConnectResponse(t *testing.T) {
	b := &packetBuilder{}
	b.int32(0).int32(30000).int64(0x16a00000051).blob([]byte("supersecret")).byte(1)

	res, err := Parse(OpCreateSession, b.buf)
	require.NoError(t, err)
	assert.Equal(t, ConnectResponse{
		Timeout:   30000,
		SessionID: 0x16a00000051,
		Password:  []byte("supersecret"),
		ReadOnly:  true,
	}, res)
}

func TestParseStatResponses(t *testing.T) {
	for _, op := range []OpType{OpExists, OpSetData, OpSetACL} {
		t.Run(op.String(), func(t *testing.T) {
			b := &packetBuilder{}
			b.stat(testStat)

			res, err := Parse(op, b.buf)
			require.NoError(t, err)
			assert.Equal(t, StatResponse{Stat: testStat}, res)
		})
	}
}

func TestParseGetDataResponse(t *testing.T) {
	b := &packetBuilder{}
	b.blob([]byte("hello world")).stat(testStat)

	res, err := Parse(OpGetData, b.buf)
	require.NoError(t, err)
	assert.Equal(t, GetDataResponse{Data: []byte("hello world"), Stat: testStat}, res)
}

func TestParseEmptyResponses(t *testing.T) {
	for _, op := range []OpType{OpDelete, OpCheck} {
		t.Run(op.String(), func(t *testing.T) {
			res, err := Parse(op, nil)
			require.NoError(t, err)
			assert.Equal(t, EmptyResponse{}, res)
		})
	}
}

func TestParseChildrenResponse(t *testing.T) {
	b := &packetBuilder{}
	b.int32(2).str("locks").str("config")

	res, err := Parse(OpGetChildren, b.buf)
	require.NoError(t, err)
	assert.Equal(t, ChildrenResponse{Children: []string{"locks", "config"}}, res)
}

func TestParseChildrenStatResponse(t *testing.T) {
	b := &packetBuilder{}
	b.int32(1).str("leader").stat(testStat)

	res, err := Parse(OpGetChildren2, b.buf)
	require.NoError(t, err)
	assert.Equal(t, ChildrenStatResponse{Children: []string{"leader"}, Stat: testStat}, res)
}

func TestParsePathResponseConsumesExactly(t *testing.T) {
	b := &packetBuilder{}
	b.str("/a/b")

	r := &reader{buf: b.buf}
	res, err := parse(OpCreate, r, 0)
	require.NoError(t, err)
	assert.Equal(t, PathResponse{Path: "/a/b"}, res)
	assert.Equal(t, 0, r.remaining())
}

func TestParseGetACLResponse(t *testing.T) {
	b := &packetBuilder{}
	b.int32(1).uint32(uint32(zookeeper.PermAll)).str("world").str("anyone")
	b.stat(testStat)

	res, err := Parse(OpGetACL, b.buf)
	require.NoError(t, err)
	assert.Equal(t, GetACLResponse{ACL: zookeeper.WorldACL(zookeeper.PermAll), Stat: testStat}, res)
}

func TestParseUnknownOpcode(t *testing.T) {
	for _, op := range []OpType{OpSync, OpSetWatches, OpType(12345)} {
		t.Run(op.String(), func(t *testing.T) {
			_, err := Parse(op, nil)
			var unknownErr *UnknownOpcodeError
			require.ErrorAs(t, err, &unknownErr)
			assert.Equal(t, op, unknownErr.Op)
		})
	}
}

func TestParseTruncatedPayload(t *testing.T) {
	b := &packetBuilder{}
	b.stat(testStat)

	_, err := Parse(OpExists, b.buf[:30])
	require.ErrorIs(t, err, ErrShortBuffer)
}

// buildThreeEntryMulti encodes a batch whose second entry failed:
// create succeeded, delete failed with node-not-empty, check ran after.
func buildThreeEntryMulti() []byte {
	b := &packetBuilder{}
	b.multiHeader(OpCreate, 0, 0).str("/jobs/job-001")
	b.multiHeader(OpError, 0, int32(zkerrors.ErrNotEmpty)).int32(int32(zkerrors.ErrNotEmpty))
	b.multiHeader(OpCheck, 0, 0)
	b.multiHeader(OpError, 1, -1) // terminator; stale fields must be ignored
	return b.buf
}

func TestParseMultiPreservesOrder(t *testing.T) {
	res, err := Parse(OpMulti, buildThreeEntryMulti())
	require.NoError(t, err)

	multi, ok := res.(MultiResponse)
	require.True(t, ok)
	require.Len(t, multi.Results, 3)

	assert.Equal(t, MultiResult{
		Header:   MultiHeader{Type: OpCreate},
		Response: PathResponse{Path: "/jobs/job-001"},
	}, multi.Results[0])
	assert.Equal(t, MultiResult{
		Header: MultiHeader{Type: OpError, Err: zkerrors.ErrNotEmpty},
	}, multi.Results[1])
	assert.Equal(t, MultiResult{
		Header:   MultiHeader{Type: OpCheck},
		Response: EmptyResponse{},
	}, multi.Results[2])
}

func TestMultiOutcomesRollbackAndSkip(t *testing.T) {
	res, err := Parse(OpMulti, buildThreeEntryMulti())
	require.NoError(t, err)

	multi := res.(MultiResponse)
	outcomes := multi.Outcomes(func(pos int, code zkerrors.ErrCode) zkerrors.Multi {
		// position 1 held the delete of this batch
		require.Equal(t, 1, pos)
		deleteErr, ok := zkerrors.DeleteError(code, 0)
		require.True(t, ok)
		m, ok := zkerrors.ToMulti(deleteErr)
		require.True(t, ok)
		return m
	})

	require.Len(t, outcomes, 3)
	assert.Equal(t, MultiOutcome{Err: zkerrors.MultiRolledBack{}}, outcomes[0])
	assert.Equal(t, MultiOutcome{Err: zkerrors.MultiDelete{Err: zkerrors.DeleteNotEmpty{}}}, outcomes[1])
	assert.Equal(t, MultiOutcome{Err: zkerrors.MultiSkipped{}}, outcomes[2])
}

func TestMultiOutcomesAllSuccess(t *testing.T) {
	b := &packetBuilder{}
	b.multiHeader(OpCreate, 0, 0).str("/a")
	b.multiHeader(OpCheck, 0, 0)
	b.multiHeader(OpError, 1, -1)

	res, err := Parse(OpMulti, b.buf)
	require.NoError(t, err)

	multi := res.(MultiResponse)
	outcomes := multi.Outcomes(func(pos int, code zkerrors.ErrCode) zkerrors.Multi {
		t.Fatal("no entry failed, mapErr must not run")
		return nil
	})
	assert.Equal(t, []MultiOutcome{
		{Response: PathResponse{Path: "/a"}},
		{Response: EmptyResponse{}},
	}, outcomes)
}

func TestParseMultiNestedStatEntry(t *testing.T) {
	b := &packetBuilder{}
	b.multiHeader(OpSetData, 0, 0).stat(testStat)
	b.multiHeader(OpError, 1, -1)

	res, err := Parse(OpMulti, b.buf)
	require.NoError(t, err)

	multi := res.(MultiResponse)
	require.Len(t, multi.Results, 1)
	assert.Equal(t, StatResponse{Stat: testStat}, multi.Results[0].Response)
}

func TestParseMultiDepthGuard(t *testing.T) {
	b := &packetBuilder{}
	for i := 0; i < maxMultiDepth; i++ {
		b.multiHeader(OpMulti, 0, 0)
	}

	_, err := Parse(OpMulti, b.buf)
	require.ErrorIs(t, err, ErrMultiTooDeep)
}

func TestParseMultiTruncatedHeader(t *testing.T) {
	b := &packetBuilder{}
	b.multiHeader(OpCreate, 0, 0).str("/a")
	b.int32(0) // half a header, then nothing

	_, err := Parse(OpMulti, b.buf)
	require.ErrorIs(t, err, ErrShortBuffer)
}

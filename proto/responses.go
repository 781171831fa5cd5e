package proto

import (
	"go.uber.org/zap/zapcore"

	"github.com/nickelc/zookeeper"
	"github.com/nickelc/zookeeper/zkerrors"
)

// Response is one decoded server reply. The set of shapes is closed: every
// implementation lives in this package, one per response layout the server
// can send. The payload carries no shape marker of its own; which shape a
// buffer holds is determined by the opcode of the request that produced it.
type Response interface {
	response()
}

// ConnectResponse is the reply to the session handshake.
type ConnectResponse struct {
	ProtocolVersion int32
	Timeout         int32
	SessionID       int64
	Password        []byte
	ReadOnly        bool
}

// StatResponse is a bare metadata record, the reply shape shared by
// Exists, SetData and SetACL.
type StatResponse struct {
	Stat zookeeper.Stat
}

// GetDataResponse carries a znode's data together with its metadata.
type GetDataResponse struct {
	Data []byte
	Stat zookeeper.Stat
}

// GetACLResponse carries a znode's ACL together with its metadata.
type GetACLResponse struct {
	ACL  []zookeeper.ACL
	Stat zookeeper.Stat
}

// EmptyResponse is the bodyless acknowledgement sent for Delete and Check.
type EmptyResponse struct{}

// ChildrenResponse is the list of child names sent for GetChildren.
type ChildrenResponse struct {
	Children []string
}

// ChildrenStatResponse is the GetChildren2 reply: child names plus the
// parent's metadata.
type ChildrenStatResponse struct {
	Children []string
	Stat     zookeeper.Stat
}

// PathResponse is the created path sent for Create.
type PathResponse struct {
	Path string
}

// MultiResponse is the ordered per-entry outcome list of a batch. Entries
// appear in original read order; rollback/skip reinterpretation is left to
// the caller (see Outcomes).
type MultiResponse struct {
	Results []MultiResult
}

func (ConnectResponse) response()      {}
func (StatResponse) response()         {}
func (GetDataResponse) response()      {}
func (GetACLResponse) response()       {}
func (EmptyResponse) response()        {}
func (ChildrenResponse) response()     {}
func (ChildrenStatResponse) response() {}
func (PathResponse) response()         {}
func (MultiResponse) response()        {}

// MultiHeader is the frame introducing one entry of a multi response.
// Done marks the batch terminator. Type is OpError for a failed entry,
// with Err holding the raw server code; otherwise Type is the opcode of
// the nested response that follows.
type MultiHeader struct {
	Type OpType
	Done bool
	Err  zkerrors.ErrCode
}

// Failed reports whether this frame introduced a failed entry.
func (h MultiHeader) Failed() bool {
	return !h.Done && h.Type == OpError
}

// MarshalLogObject renders the logging structure for the MultiHeader
func (h MultiHeader) MarshalLogObject(kv zapcore.ObjectEncoder) error {
	kv.AddBool("done", h.Done)
	kv.AddInt32("opcode", int32(h.Type))
	kv.AddString("opName", h.Type.String())
	kv.AddInt32("errorCode", int32(h.Err))
	kv.AddString("errorMsg", zkerrors.Message(h.Err))
	return nil
}

// MultiResult is one entry of a multi response: the frame that introduced
// it and, when the entry succeeded, its nested response. For a failed
// entry Response is nil and the raw server code sits in Header.Err,
// carried through untouched.
type MultiResult struct {
	Header   MultiHeader
	Response Response
}

// MultiOutcome is one entry of a multi response after the batch atomicity
// contract has been applied: either the nested response of a fully
// successful batch, or the error explaining why this entry produced no
// result.
type MultiOutcome struct {
	Response Response
	Err      zkerrors.Multi
}

// Outcomes applies the batch atomicity contract to the decoded entries:
// at most one entry carries a genuine failure; entries before it were
// undone and entries after it never ran. mapErr translates the failing
// entry's raw code into its named error — only the caller knows which
// operation it submitted at that position, and a version-mismatch error
// needs the expected version from the original request.
func (r MultiResponse) Outcomes(mapErr func(pos int, code zkerrors.ErrCode) zkerrors.Multi) []MultiOutcome {
	failed := -1
	for i, res := range r.Results {
		if res.Header.Failed() && res.Header.Err != zkerrors.ErrOk {
			failed = i
			break
		}
	}
	out := make([]MultiOutcome, len(r.Results))
	for i, res := range r.Results {
		switch {
		case failed == -1:
			out[i] = MultiOutcome{Response: res.Response}
		case i < failed:
			out[i] = MultiOutcome{Err: zkerrors.MultiRolledBack{}}
		case i > failed:
			out[i] = MultiOutcome{Err: zkerrors.MultiSkipped{}}
		default:
			out[i] = MultiOutcome{Err: mapErr(i, res.Header.Err)}
		}
	}
	return out
}

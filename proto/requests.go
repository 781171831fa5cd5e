package proto

import (
	"go.uber.org/zap/zapcore"

	"github.com/nickelc/zookeeper/zkerrors"
)

// RequestHeader is the first bytes of every request packet.
type RequestHeader struct {
	Xid    int32
	Opcode OpType
}

// MarshalLogObject renders the logging structure for the RequestHeader
func (h RequestHeader) MarshalLogObject(kv zapcore.ObjectEncoder) error {
	kv.AddInt32("xid", h.Xid)
	kv.AddString("opName", h.Opcode.String())
	return nil
}

// ResponseHeader is the first bytes of every response packet.
type ResponseHeader struct {
	Xid  int32
	Zxid int64
	Err  zkerrors.ErrCode
}

// MarshalLogObject renders the logging structure for the ResponseHeader
func (h ResponseHeader) MarshalLogObject(kv zapcore.ObjectEncoder) error {
	kv.AddInt32("xid", h.Xid)
	kv.AddInt64("zxid", h.Zxid)
	kv.AddInt32("errorCode", int32(h.Err))
	kv.AddString("errorMsg", zkerrors.Message(h.Err))
	return nil
}

// ConnectRequest is the session handshake sent by a client.
type ConnectRequest struct {
	ProtocolVersion int32
	LastZxidSeen    int64
	Timeout         int32
	SessionID       int64
	Password        []byte
}

// PathWatchRequest is the shared layout of the read requests that may
// register a watch (GetData, Exists, GetChildren2).
type PathWatchRequest struct {
	Path  string
	Watch bool
}

// ParseRequestHeader decodes the xid and opcode prefix of a request.
func ParseRequestHeader(buf []byte) (RequestHeader, error) {
	r := &reader{buf: buf}
	var h RequestHeader
	xid, err := r.readInt32()
	if err != nil {
		return h, err
	}
	op, err := r.readInt32()
	if err != nil {
		return h, err
	}
	return RequestHeader{Xid: xid, Opcode: OpType(op)}, nil
}

// ParseResponseHeader decodes the xid/zxid/err prefix of a response.
func ParseResponseHeader(buf []byte) (ResponseHeader, error) {
	r := &reader{buf: buf}
	var h ResponseHeader
	var err error
	if h.Xid, err = r.readInt32(); err != nil {
		return h, err
	}
	if h.Zxid, err = r.readInt64(); err != nil {
		return h, err
	}
	ec, err := r.readInt32()
	if err != nil {
		return h, err
	}
	h.Err = zkerrors.ErrCode(ec)
	return h, nil
}

// ParseConnectRequest decodes a session handshake request.
func ParseConnectRequest(buf []byte) (ConnectRequest, error) {
	r := &reader{buf: buf}
	var req ConnectRequest
	var err error
	if req.ProtocolVersion, err = r.readInt32(); err != nil {
		return req, err
	}
	if req.LastZxidSeen, err = r.readInt64(); err != nil {
		return req, err
	}
	if req.Timeout, err = r.readInt32(); err != nil {
		return req, err
	}
	if req.SessionID, err = r.readInt64(); err != nil {
		return req, err
	}
	if req.Password, err = r.readBuffer(); err != nil {
		return req, err
	}
	return req, nil
}

// ParsePathWatchRequest decodes the path and watch flag of a watchable
// read request.
func ParsePathWatchRequest(buf []byte) (PathWatchRequest, error) {
	r := &reader{buf: buf}
	var req PathWatchRequest
	var err error
	if req.Path, err = r.readString(); err != nil {
		return req, err
	}
	if req.Watch, err = r.readBool(); err != nil {
		return req, err
	}
	return req, nil
}

package proto

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nickelc/zookeeper"
)

// Multi responses do not nest on the real wire, but the input comes off a
// network connection, so recursion is bounded instead of trusted.
const maxMultiDepth = 4

// ErrMultiTooDeep means a multi response recursed past maxMultiDepth.
var ErrMultiTooDeep = errors.New("proto: multi responses nested too deeply")

// UnknownOpcodeError means Parse was handed an opcode outside the supported
// set. Decoding always runs with the opcode the client itself issued, so
// this is either a caller bug or a corrupted stream; it is surfaced as a
// fatal decode condition rather than guessed around.
type UnknownOpcodeError struct {
	Op OpType
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("proto: no response shape for opcode %v (%d)", e.Op, int32(e.Op))
}

// Parse decodes the response payload produced by a request with the given
// opcode. It is pure and stateless; concurrent calls on independent
// buffers are safe. On any decode failure no partial result is returned.
func Parse(op OpType, buf []byte) (Response, error) {
	r := &reader{buf: buf}
	return parse(op, r, 0)
}

// ParseWatcherEvent decodes the watch notification payload the server
// sends outside the request/response cycle.
func ParseWatcherEvent(buf []byte) (zookeeper.WatchedEvent, error) {
	r := &reader{buf: buf}
	ev, err := readWatcherEvent(r)
	if err != nil {
		return ev, errors.Wrap(err, "watcher event")
	}
	return ev, nil
}

func parse(op OpType, r *reader, depth int) (Response, error) {
	switch op {
	case OpCreateSession:
		return parseConnect(r)
	case OpExists, OpSetData, OpSetACL:
		stat, err := readStat(r)
		if err != nil {
			return nil, errors.Wrap(err, "stat")
		}
		return StatResponse{Stat: stat}, nil
	case OpGetData:
		data, err := r.readBuffer()
		if err != nil {
			return nil, errors.Wrap(err, "data")
		}
		stat, err := readStat(r)
		if err != nil {
			return nil, errors.Wrap(err, "stat")
		}
		return GetDataResponse{Data: data, Stat: stat}, nil
	case OpDelete, OpCheck:
		return EmptyResponse{}, nil
	case OpGetChildren:
		children, err := r.readStrings()
		if err != nil {
			return nil, errors.Wrap(err, "children")
		}
		return ChildrenResponse{Children: children}, nil
	case OpGetChildren2:
		children, err := r.readStrings()
		if err != nil {
			return nil, errors.Wrap(err, "children")
		}
		stat, err := readStat(r)
		if err != nil {
			return nil, errors.Wrap(err, "stat")
		}
		return ChildrenStatResponse{Children: children, Stat: stat}, nil
	case OpCreate:
		path, err := r.readString()
		if err != nil {
			return nil, errors.Wrap(err, "path")
		}
		return PathResponse{Path: path}, nil
	case OpGetACL:
		acl, err := readACLs(r)
		if err != nil {
			return nil, errors.Wrap(err, "acl")
		}
		stat, err := readStat(r)
		if err != nil {
			return nil, errors.Wrap(err, "stat")
		}
		return GetACLResponse{ACL: acl, Stat: stat}, nil
	case OpMulti:
		return parseMulti(r, depth)
	}
	return nil, &UnknownOpcodeError{Op: op}
}

func parseConnect(r *reader) (Response, error) {
	var res ConnectResponse
	var err error
	if res.ProtocolVersion, err = r.readInt32(); err != nil {
		return nil, errors.Wrap(err, "protocol version")
	}
	if res.Timeout, err = r.readInt32(); err != nil {
		return nil, errors.Wrap(err, "timeout")
	}
	if res.SessionID, err = r.readInt64(); err != nil {
		return nil, errors.Wrap(err, "session id")
	}
	if res.Password, err = r.readBuffer(); err != nil {
		return nil, errors.Wrap(err, "password")
	}
	if res.ReadOnly, err = r.readBool(); err != nil {
		return nil, errors.Wrap(err, "read-only flag")
	}
	return res, nil
}

// parseMulti runs the batch loop: frames repeat until a terminator. A
// batch has no length prefix of its own; only the terminator frame ends
// it. Entries are appended in read order and never rewritten here.
func parseMulti(r *reader, depth int) (Response, error) {
	if depth >= maxMultiDepth {
		return nil, ErrMultiTooDeep
	}
	var results []MultiResult
	for {
		header, err := readMultiHeader(r)
		if err != nil {
			return nil, errors.Wrap(err, "multi header")
		}
		if header.Done {
			break
		}
		if header.Failed() {
			results = append(results, MultiResult{Header: header})
			continue
		}
		nested, err := parse(header.Type, r, depth+1)
		if err != nil {
			return nil, errors.Wrapf(err, "multi entry %d (%v)", len(results), header.Type)
		}
		results = append(results, MultiResult{Header: header, Response: nested})
	}
	return MultiResponse{Results: results}, nil
}

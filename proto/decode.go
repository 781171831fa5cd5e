package proto

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/nickelc/zookeeper"
	"github.com/nickelc/zookeeper/zkerrors"
)

// Decode-level failures. Any of these means the buffer is structurally
// unreliable past the failure point; callers should drop the connection
// rather than try to resynchronize mid-stream.
var (
	// ErrShortBuffer means a fixed-width read ran past the end of the buffer.
	ErrShortBuffer = errors.New("proto: buffer too short")
	// ErrIncompleteRead means a blob declared a length the remaining buffer
	// cannot satisfy. A short blob is never returned in its place.
	ErrIncompleteRead = errors.New("proto: declared length exceeds remaining buffer")
	// ErrInvalidUTF8 means a string field did not hold valid UTF-8.
	ErrInvalidUTF8 = errors.New("proto: string is not valid utf-8")
)

// reader is a cursor over one fully-received response buffer. All integers
// on the wire are big-endian.
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrShortBuffer
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) readBool() (bool, error) {
	b, err := r.readByte()
	return b != 0, err
}

func (r *reader) readInt32() (int32, error) {
	if r.remaining() < 4 {
		return 0, ErrShortBuffer
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.off : r.off+4]))
	r.off += 4
	return v, nil
}

func (r *reader) readUint32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, ErrShortBuffer
	}
	v := binary.BigEndian.Uint32(r.buf[r.off : r.off+4])
	r.off += 4
	return v, nil
}

func (r *reader) readInt64() (int64, error) {
	if r.remaining() < 8 {
		return 0, ErrShortBuffer
	}
	v := int64(binary.BigEndian.Uint64(r.buf[r.off : r.off+8]))
	r.off += 8
	return v, nil
}

// readBuffer reads a length-prefixed blob. A negative declared length is
// treated as an empty blob; the servers encode empty values that way, so
// clamping is kept for compatibility even though it could also mask a
// corrupt stream. A positive length must be fully satisfiable.
func (r *reader) readBuffer() ([]byte, error) {
	ln, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	if ln <= 0 {
		return nil, nil
	}
	if r.remaining() < int(ln) {
		return nil, ErrIncompleteRead
	}
	buf := make([]byte, ln)
	copy(buf, r.buf[r.off:r.off+int(ln)])
	r.off += int(ln)
	return buf, nil
}

func (r *reader) readString() (string, error) {
	raw, err := r.readBuffer()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}
	return string(raw), nil
}

// readStrings reads a count-prefixed string list, preserving order. The
// negative-count clamp mirrors readBuffer.
func (r *reader) readStrings() ([]string, error) {
	count, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}
	items := make([]string, 0, count)
	for i := int32(0); i < count; i++ {
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, nil
}

func readStat(r *reader) (s zookeeper.Stat, err error) {
	if s.Czxid, err = r.readInt64(); err != nil {
		return s, err
	}
	if s.Mzxid, err = r.readInt64(); err != nil {
		return s, err
	}
	if s.Ctime, err = r.readInt64(); err != nil {
		return s, err
	}
	if s.Mtime, err = r.readInt64(); err != nil {
		return s, err
	}
	if s.Version, err = r.readInt32(); err != nil {
		return s, err
	}
	if s.Cversion, err = r.readInt32(); err != nil {
		return s, err
	}
	if s.Aversion, err = r.readInt32(); err != nil {
		return s, err
	}
	if s.EphemeralOwner, err = r.readInt64(); err != nil {
		return s, err
	}
	if s.DataLength, err = r.readInt32(); err != nil {
		return s, err
	}
	if s.NumChildren, err = r.readInt32(); err != nil {
		return s, err
	}
	if s.Pzxid, err = r.readInt64(); err != nil {
		return s, err
	}
	return s, nil
}

func readACL(r *reader) (acl zookeeper.ACL, err error) {
	perms, err := r.readUint32()
	if err != nil {
		return acl, err
	}
	acl.Perms = zookeeper.Permission(perms)
	if acl.Scheme, err = r.readString(); err != nil {
		return acl, err
	}
	if acl.ID, err = r.readString(); err != nil {
		return acl, err
	}
	return acl, nil
}

func readACLs(r *reader) ([]zookeeper.ACL, error) {
	count, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}
	acls := make([]zookeeper.ACL, 0, count)
	for i := int32(0); i < count; i++ {
		acl, err := readACL(r)
		if err != nil {
			return nil, err
		}
		acls = append(acls, acl)
	}
	return acls, nil
}

func readWatcherEvent(r *reader) (ev zookeeper.WatchedEvent, err error) {
	wtype, err := r.readInt32()
	if err != nil {
		return ev, err
	}
	state, err := r.readInt32()
	if err != nil {
		return ev, err
	}
	ev.Type = zookeeper.EventType(wtype)
	ev.State = zookeeper.State(state)
	if ev.Path, err = r.readString(); err != nil {
		return ev, err
	}
	return ev, nil
}

// readMultiHeader reads the frame introducing the next entry of a multi
// response. The done flag wins over everything else: the other two fields
// may hold stale values in a terminator frame. A failed entry (opcode -1)
// is followed on the wire by one padding int32, consumed here so the next
// frame lines up.
func readMultiHeader(r *reader) (h MultiHeader, err error) {
	opcode, err := r.readInt32()
	if err != nil {
		return h, err
	}
	done, err := r.readBool()
	if err != nil {
		return h, err
	}
	ec, err := r.readInt32()
	if err != nil {
		return h, err
	}
	if done {
		return MultiHeader{Done: true}, nil
	}
	h = MultiHeader{Type: OpType(opcode), Err: zkerrors.ErrCode(ec)}
	if h.Type == OpError {
		if _, err := r.readInt32(); err != nil {
			return h, errors.Wrap(err, "multi error padding")
		}
	}
	return h, nil
}

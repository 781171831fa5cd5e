// Package zookeeper holds the domain records shared by the wire codec and
// its callers: node metadata, ACLs, permission bits, and watch events.
package zookeeper

import "go.uber.org/zap/zapcore"

// Stat is the metadata record the server attaches to a znode. Field order
// matters: it matches the jute serialization order used on the wire.
type Stat struct {
	// Czxid is the zxid of the change that created this znode.
	Czxid int64
	// Mzxid is the zxid of the change that last modified this znode.
	Mzxid int64
	// Ctime and Mtime are creation and last-modification times in
	// milliseconds since the epoch.
	Ctime int64
	Mtime int64
	// Version counts changes to the data of this znode.
	Version int32
	// Cversion counts changes to the children of this znode.
	Cversion int32
	// Aversion counts changes to the ACL of this znode.
	Aversion int32
	// EphemeralOwner is the session id of the owner if the znode is
	// ephemeral, zero otherwise.
	EphemeralOwner int64
	// DataLength is the length of the data field of this znode.
	DataLength int32
	// NumChildren is the number of children of this znode.
	NumChildren int32
	// Pzxid is the zxid of the change that last modified the children of
	// this znode.
	Pzxid int64
}

// IsEphemeral reports whether the znode is tied to a session's lifetime.
func (s Stat) IsEphemeral() bool {
	return s.EphemeralOwner != 0
}

// Permission is a set of capability bits attached to an ACL entry.
// A raw wire value is used as-is; no validation happens at decode time.
type Permission uint32

const (
	PermRead Permission = 1 << iota
	PermWrite
	PermCreate
	PermDelete
	PermAdmin

	PermAll Permission = 0x1f
)

// Contains reports whether every bit of p2 is set in p.
func (p Permission) Contains(p2 Permission) bool {
	return p&p2 == p2
}

// ACL is a single access-control entry: who (scheme + id) may do what
// (permission bits) to a znode.
type ACL struct {
	Perms  Permission
	Scheme string
	ID     string
}

// WorldACL returns an ACL list granting the given permissions to everyone.
func WorldACL(perms Permission) []ACL {
	return []ACL{{Perms: perms, Scheme: "world", ID: "anyone"}}
}

// EventType identifies what happened to a watched znode.
type EventType int32

const (
	EventNodeCreated         EventType = 1
	EventNodeDeleted         EventType = 2
	EventNodeDataChanged     EventType = 3
	EventNodeChildrenChanged EventType = 4
)

var eventTypeNames = map[EventType]string{
	EventNodeCreated:         "NodeCreated",
	EventNodeDeleted:         "NodeDeleted",
	EventNodeDataChanged:     "NodeDataChanged",
	EventNodeChildrenChanged: "NodeChildrenChanged",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// State is the connection status the server reports alongside watch events.
type State int32

const (
	StateDisconnected      State = 0
	StateSyncConnected     State = 3
	StateAuthFailed        State = 4
	StateConnectedReadOnly State = 5
	StateSaslAuthenticated State = 6
	StateExpired           State = -112
)

var stateNames = map[State]string{
	StateDisconnected:      "Disconnected",
	StateSyncConnected:     "SyncConnected",
	StateAuthFailed:        "AuthFailed",
	StateConnectedReadOnly: "ConnectedReadOnly",
	StateSaslAuthenticated: "SaslAuthenticated",
	StateExpired:           "Expired",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// WatchedEvent is a notification that a watched znode changed, together
// with the connection state it was observed under.
type WatchedEvent struct {
	Type  EventType
	State State
	Path  string
}

// MarshalLogObject renders the logging structure for the WatchedEvent
func (e WatchedEvent) MarshalLogObject(kv zapcore.ObjectEncoder) error {
	kv.AddString("type", e.Type.String())
	kv.AddString("state", e.State.String())
	kv.AddString("path", e.Path)
	return nil
}

package proto

import "go.uber.org/zap/zapcore"

// Based on ZK 3.5 https://github.com/apache/zookeeper/blob/branch-3.5/src/java/main/org/apache/zookeeper/ZooDefs.java

// OpType is the operation code identifying which request/response pair a
// packet concerns.
type OpType int32

const (
	// OpNotify is for watch notifications
	OpNotify OpType = iota
	// OpCreate is zk connection Create()
	OpCreate
	// OpDelete is zk connection Delete()
	OpDelete
	// OpExists is zk connection Exists()
	OpExists
	// OpGetData is zk connection Get()
	OpGetData
	// OpSetData is zk connection Set()
	OpSetData

	// OpGetACL is zk connection GetACL()
	OpGetACL
	OpSetACL
	OpGetChildren
	OpSync // 9

	// OpPing is the zk client connection ping request
	OpPing OpType = iota + 1 // 11
	OpGetChildren2
	OpCheck
	OpMulti

	OpCreate2 // 15
	OpReconfig
	OpCheckWatches
	OpRemoveWatches
	OpCreateContainer

	OpDeleteContainer // 20
	OpCreateTTL

	OpCreateSession OpType = -12
	OpClose         OpType = -11

	OpSetAuth    OpType = 100
	OpSetWatches OpType = 101
	OpSasl       OpType = 102

	// OpError marks a failed entry inside a multi response
	OpError OpType = -1
)

var opNames = map[OpType]string{
	OpNotify:          "Notify",
	OpCreate:          "Create",
	OpDelete:          "Delete",
	OpExists:          "Exists",
	OpGetData:         "GetData",
	OpSetData:         "SetData",
	OpGetACL:          "GetACL",
	OpSetACL:          "SetACL",
	OpGetChildren:     "GetChildren",
	OpSync:            "Sync",
	OpPing:            "Ping",
	OpGetChildren2:    "GetChildren2",
	OpCheck:           "Check",
	OpMulti:           "Multi",
	OpCreate2:         "Create2",
	OpReconfig:        "Reconfig",
	OpCheckWatches:    "CheckWatches",
	OpRemoveWatches:   "RemoveWatches",
	OpCreateContainer: "CreateContainer",
	OpDeleteContainer: "DeleteContainer",
	OpCreateTTL:       "CreateTTL",
	OpCreateSession:   "CreateSession",
	OpClose:           "Close",
	OpSetAuth:         "SetAuth",
	OpSetWatches:      "SetWatches",
	OpSasl:            "Sasl",
	OpError:           "Error",
}

func (o OpType) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "Unknown"
}

// MarshalLogObject renders the logging structure for the OpType
func (o OpType) MarshalLogObject(kv zapcore.ObjectEncoder) error {
	kv.AddInt32("code", int32(o))
	kv.AddString("name", o.String())
	return nil
}

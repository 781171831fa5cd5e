// Package zkerrors models the server-side rejection reasons of the
// ZooKeeper protocol: the raw wire codes, one closed error set per
// operation kind, and the composite carried by failed multi entries.
package zkerrors

// ErrCode is the raw error code carried by response headers and by failed
// multi entries. The codec hands it through untouched; mapping it to a
// named error is the caller's step (see the *Error functions).
type ErrCode int32

const (
	// ErrOk is the OK code from ZK packets
	ErrOk ErrCode = 0

	// System and server-side errors
	ErrSystemError          ErrCode = -1
	ErrRuntimeInconsistency ErrCode = -2
	ErrDataInconsistency    ErrCode = -3
	ErrConnectionLoss       ErrCode = -4
	ErrMarshallingError     ErrCode = -5
	ErrUnimplemented        ErrCode = -6
	ErrOperationTimeout     ErrCode = -7
	ErrBadArguments         ErrCode = -8
	ErrInvalidState         ErrCode = -9

	// API errors
	ErrAPIError                ErrCode = -100
	ErrNoNode                  ErrCode = -101
	ErrNoAuth                  ErrCode = -102
	ErrBadVersion              ErrCode = -103
	ErrNoChildrenForEphemerals ErrCode = -108
	ErrNodeExists              ErrCode = -110
	ErrNotEmpty                ErrCode = -111
	ErrSessionExpired          ErrCode = -112
	ErrInvalidCallback         ErrCode = -113
	ErrInvalidACL              ErrCode = -114
	ErrAuthFailed              ErrCode = -115
	ErrClosing                 ErrCode = -116
	ErrNothing                 ErrCode = -117
	ErrSessionMoved            ErrCode = -118
)

var errCodeToString = map[ErrCode]string{
	ErrOk:                      "",
	ErrAPIError:                "api error",
	ErrNoNode:                  "node does not exist",
	ErrNoAuth:                  "not authenticated",
	ErrBadVersion:              "version conflict",
	ErrNoChildrenForEphemerals: "ephemeral nodes may not have children",
	ErrNodeExists:              "node already exists",
	ErrNotEmpty:                "node has children",
	ErrSessionExpired:          "session has been expired by the server",
	ErrInvalidACL:              "invalid ACL specified",
	ErrAuthFailed:              "client authentication failed",
	ErrClosing:                 "zookeeper is closing",
	ErrNothing:                 "no server responses to process",
	ErrSessionMoved:            "session moved to another server, so operation is ignored",
}

// Message converts the raw error code to a human-readable message.
func Message(ec ErrCode) string {
	if errString, ok := errCodeToString[ec]; ok {
		return errString
	}
	return "unknown error"
}

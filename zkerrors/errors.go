package zkerrors

import "fmt"

// Each operation kind has its own closed set of failure reasons, one small
// comparable struct per reason. The marker interfaces keep the sets closed:
// all implementations live in this package, so a type switch over one of
// them can be checked for exhaustiveness by eye, and a new server rejection
// reason shows up as a new type everywhere it needs handling.

// Delete is a reason a delete request failed.
type Delete interface {
	error
	deleteError()
}

// DeleteNoNode: no node exists with the given path.
type DeleteNoNode struct{}

// DeleteBadVersion: the target node's version differs from the one the
// delete specified.
type DeleteBadVersion struct {
	// Expected is the version the request asked for.
	Expected int32
}

// DeleteNotEmpty: the target node has children and cannot be deleted.
type DeleteNotEmpty struct{}

func (DeleteNoNode) Error() string { return "target node does not exist" }
func (e DeleteBadVersion) Error() string {
	return fmt.Sprintf("target node has different version than expected (%d)", e.Expected)
}
func (DeleteNotEmpty) Error() string { return "target node has children, and cannot be deleted" }

func (DeleteNoNode) deleteError()     {}
func (DeleteBadVersion) deleteError() {}
func (DeleteNotEmpty) deleteError()   {}

// SetData is a reason a set-data request failed.
type SetData interface {
	error
	setDataError()
}

// SetDataNoNode: no node exists with the given path.
type SetDataNoNode struct{}

// SetDataBadVersion: the target node's version differs from the one the
// set-data specified.
type SetDataBadVersion struct {
	Expected int32
}

// SetDataNoAuth: the target node does not accept data modification under
// the current authentication.
type SetDataNoAuth struct{}

func (SetDataNoNode) Error() string { return "target node does not exist" }
func (e SetDataBadVersion) Error() string {
	return fmt.Sprintf("target node has different version than expected (%d)", e.Expected)
}
func (SetDataNoAuth) Error() string { return "insufficient authentication" }

func (SetDataNoNode) setDataError()     {}
func (SetDataBadVersion) setDataError() {}
func (SetDataNoAuth) setDataError()     {}

// Create is a reason a create request failed.
type Create interface {
	error
	createError()
}

// CreateNodeExists: a node with the given path already exists.
type CreateNodeExists struct{}

// CreateNoNode: the parent node of the given path does not exist.
type CreateNoNode struct{}

// CreateNoChildrenForEphemerals: the parent node is ephemeral and cannot
// have children.
type CreateNoChildrenForEphemerals struct{}

// CreateInvalidACL: the given ACL is invalid.
type CreateInvalidACL struct{}

func (CreateNodeExists) Error() string { return "target node already exists" }
func (CreateNoNode) Error() string     { return "parent node of target does not exist" }
func (CreateNoChildrenForEphemerals) Error() string {
	return "parent node is ephemeral, and cannot have children"
}
func (CreateInvalidACL) Error() string { return "the given ACL is invalid" }

func (CreateNodeExists) createError()              {}
func (CreateNoNode) createError()                  {}
func (CreateNoChildrenForEphemerals) createError() {}
func (CreateInvalidACL) createError()              {}

// GetACL is a reason a get-acl request failed.
type GetACL interface {
	error
	getACLError()
}

// GetACLNoNode: no node exists with the given path.
type GetACLNoNode struct{}

func (GetACLNoNode) Error() string { return "target node does not exist" }

func (GetACLNoNode) getACLError() {}

// SetACL is a reason a set-acl request failed.
type SetACL interface {
	error
	setACLError()
}

// SetACLNoNode: no node exists with the given path.
type SetACLNoNode struct{}

// SetACLBadVersion: the target node's ACL version differs from the one the
// set-acl specified.
type SetACLBadVersion struct {
	Expected int32
}

// SetACLInvalidACL: the given ACL is invalid.
type SetACLInvalidACL struct{}

// SetACLNoAuth: the target node does not accept ACL modification under the
// current authentication.
type SetACLNoAuth struct{}

func (SetACLNoNode) Error() string { return "target node does not exist" }
func (e SetACLBadVersion) Error() string {
	return fmt.Sprintf("target node has different version than expected (%d)", e.Expected)
}
func (SetACLInvalidACL) Error() string { return "the given ACL is invalid" }
func (SetACLNoAuth) Error() string     { return "insufficient authentication" }

func (SetACLNoNode) setACLError()     {}
func (SetACLBadVersion) setACLError() {}
func (SetACLInvalidACL) setACLError() {}
func (SetACLNoAuth) setACLError()     {}

// Check is a reason a version-assertion (check) request failed.
type Check interface {
	error
	checkError()
}

// CheckNoNode: no node exists with the given path.
type CheckNoNode struct{}

// CheckBadVersion: the target node's version differs from the one the
// check asserted.
type CheckBadVersion struct {
	Expected int32
}

func (CheckNoNode) Error() string { return "target node does not exist" }
func (e CheckBadVersion) Error() string {
	return fmt.Sprintf("target node has different version than expected (%d)", e.Expected)
}

func (CheckNoNode) checkError()     {}
func (CheckBadVersion) checkError() {}

// Multi is the per-entry outcome of a failed multi request: one of the
// four wrapped operation errors, or one of the two batch sentinels.
type Multi interface {
	error
	multiError()
}

// MultiDelete wraps a failed delete entry.
type MultiDelete struct {
	Err Delete
}

// MultiSetData wraps a failed set-data entry.
type MultiSetData struct {
	Err SetData
}

// MultiCreate wraps a failed create entry.
type MultiCreate struct {
	Err Create
}

// MultiCheck wraps a failed check entry.
type MultiCheck struct {
	Err Check
}

// MultiRolledBack: the entry would have succeeded, but a later entry in
// the batch failed and caused it to be rolled back.
type MultiRolledBack struct{}

// MultiSkipped: an earlier entry in the batch failed, so this entry was
// never attempted. Whether it would have succeeded is unknown.
type MultiSkipped struct{}

func (e MultiDelete) Error() string  { return "delete failed: " + e.Err.Error() }
func (e MultiSetData) Error() string { return "set_data failed: " + e.Err.Error() }
func (e MultiCreate) Error() string  { return "create failed: " + e.Err.Error() }
func (e MultiCheck) Error() string   { return "check failed: " + e.Err.Error() }
func (MultiRolledBack) Error() string {
	return "request rolled back due to later failed request"
}
func (MultiSkipped) Error() string {
	return "request failed due to earlier failed request"
}

func (MultiDelete) multiError()     {}
func (MultiSetData) multiError()    {}
func (MultiCreate) multiError()     {}
func (MultiCheck) multiError()      {}
func (MultiRolledBack) multiError() {}
func (MultiSkipped) multiError()    {}

// ToMulti lifts a per-operation error into the composite. Each of the four
// batchable kinds has exactly one wrapper, so a lifted value is
// structurally equal to a directly-constructed wrapped one. Values that
// are already composites pass through. ok is false for anything else;
// GetACL and SetACL errors cannot occur inside a batch.
func ToMulti(err error) (Multi, bool) {
	switch e := err.(type) {
	case Multi:
		return e, true
	case Delete:
		return MultiDelete{Err: e}, true
	case SetData:
		return MultiSetData{Err: e}, true
	case Create:
		return MultiCreate{Err: e}, true
	case Check:
		return MultiCheck{Err: e}, true
	}
	return nil, false
}

package zkerrors

// Mapping from raw server codes to the named per-operation errors. The
// wire does not echo the expected version on a version conflict, so the
// BadVersion mappings take it from the caller, who has the original
// request. ok is false for any code outside the operation's closed set;
// such a code on that operation indicates a server/client mismatch and
// should be reported as the raw code instead.

// DeleteError maps a raw code to the delete error set.
func DeleteError(code ErrCode, expected int32) (Delete, bool) {
	switch code {
	case ErrNoNode:
		return DeleteNoNode{}, true
	case ErrBadVersion:
		return DeleteBadVersion{Expected: expected}, true
	case ErrNotEmpty:
		return DeleteNotEmpty{}, true
	}
	return nil, false
}

// SetDataError maps a raw code to the set-data error set.
func SetDataError(code ErrCode, expected int32) (SetData, bool) {
	switch code {
	case ErrNoNode:
		return SetDataNoNode{}, true
	case ErrBadVersion:
		return SetDataBadVersion{Expected: expected}, true
	case ErrNoAuth:
		return SetDataNoAuth{}, true
	}
	return nil, false
}

// CreateError maps a raw code to the create error set.
func CreateError(code ErrCode) (Create, bool) {
	switch code {
	case ErrNodeExists:
		return CreateNodeExists{}, true
	case ErrNoNode:
		return CreateNoNode{}, true
	case ErrNoChildrenForEphemerals:
		return CreateNoChildrenForEphemerals{}, true
	case ErrInvalidACL:
		return CreateInvalidACL{}, true
	}
	return nil, false
}

// GetACLError maps a raw code to the get-acl error set.
func GetACLError(code ErrCode) (GetACL, bool) {
	if code == ErrNoNode {
		return GetACLNoNode{}, true
	}
	return nil, false
}

// SetACLError maps a raw code to the set-acl error set.
func SetACLError(code ErrCode, expected int32) (SetACL, bool) {
	switch code {
	case ErrNoNode:
		return SetACLNoNode{}, true
	case ErrBadVersion:
		return SetACLBadVersion{Expected: expected}, true
	case ErrInvalidACL:
		return SetACLInvalidACL{}, true
	case ErrNoAuth:
		return SetACLNoAuth{}, true
	}
	return nil, false
}

// CheckError maps a raw code to the check error set.
func CheckError(code ErrCode, expected int32) (Check, bool) {
	switch code {
	case ErrNoNode:
		return CheckNoNode{}, true
	case ErrBadVersion:
		return CheckBadVersion{Expected: expected}, true
	}
	return nil, false
}

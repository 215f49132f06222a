package user

// CanView allows the owner of a record and any admin.
func CanView(viewer Actor, ownerID string) error {
	if viewer.IsAdmin() || viewer.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

// CanDirectEdit allows admins only.
func CanDirectEdit(viewer Actor) error {
	if viewer.IsAdmin() {
		return nil
	}
	return ErrAdminPrivilegeRequired
}

// CanListAll allows admins to list records across every user.
func CanListAll(viewer Actor) error {
	if viewer.IsAdmin() {
		return nil
	}
	return ErrAdminPrivilegeRequired
}

// CanSubmitCorrection allows only the owner of the record, admins included.
func CanSubmitCorrection(viewer Actor, ownerID string) error {
	if viewer.ID != "" && viewer.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

// CanApprove allows admins only.
func CanApprove(viewer Actor) error {
	if viewer.IsAdmin() {
		return nil
	}
	return ErrAdminPrivilegeRequired
}

// CanExport allows admins only.
func CanExport(viewer Actor) error {
	if viewer.IsAdmin() {
		return nil
	}
	return ErrAdminPrivilegeRequired
}

package workflow

import "time"

// User is an account known to the workflow. Username and role are fixed at
// registration; only the account status is mutable, and only by an admin.
type User struct {
	ID        int64         `json:"id"`
	Username  string        `json:"username"`
	Role      Role          `json:"role"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// SetAccountStatus validates an admin request to activate or deactivate an
// account and returns the status to persist.
func SetAccountStatus(actor Principal, status AccountStatus) (AccountStatus, error) {
	if !Permit(actor.Role, ActionSetAccountStatus) {
		return "", ErrForbidden
	}
	if !status.Valid() {
		return "", validationErr("unknown account status %q", status)
	}
	return status, nil
}

// CanDeleteUser guards account deletion.
func CanDeleteUser(actor Principal) error {
	if !Permit(actor.Role, ActionDeleteUser) {
		return ErrForbidden
	}
	return nil
}

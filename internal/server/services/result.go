package services

import (
	"fmt"

	"github.com/dmitrijs2005/salarygate/internal/common"
)

// Result is the outcome of an account operation: a success flag and a
// message fit to show the end user. On failure Kind holds one of the
// common taxonomy errors (ErrValidation, ErrAuthentication, ErrNotFound,
// ErrInvariant, ErrStorage).
type Result struct {
	OK      bool
	Message string
	Kind    error
}

// Err turns a failed Result into an error wrapping Kind, or nil on success.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	kind := r.Kind
	if kind == nil {
		kind = common.ErrValidation
	}
	return fmt.Errorf("%w: %s", kind, r.Message)
}

func succeed(msg string) Result {
	return Result{OK: true, Message: msg}
}

func fail(kind error, msg string) Result {
	return Result{OK: false, Message: msg, Kind: kind}
}

// Messages shown to users.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgLoginSuccessful    = "Login successful"
	MsgUsernameTaken      = "Username already exists"
	MsgAccountCreated     = "Account created successfully"
	MsgCurrentPassword    = "Current password is incorrect"
	MsgPasswordChanged    = "Password changed successfully"
	MsgUserNotFound       = "User not found"
	MsgUserUpdated        = "User information updated successfully"
	MsgLastAdminDelete    = "Cannot delete the last admin account"
	MsgLastAdminDemote    = "Cannot remove the last admin account"
	MsgSaveFailed         = "Failed to save user data"
)

func msgLocked(minutes int) string {
	return fmt.Sprintf("Account is locked. Try again in %d minutes.", minutes)
}

func msgLockedNow(minutes int) string {
	return fmt.Sprintf("Too many failed attempts. Account locked for %d minutes.", minutes)
}

func msgPasswordReset(username string) string {
	return fmt.Sprintf("Password for %s has been reset", username)
}

func msgUserDeleted(username string) string {
	return fmt.Sprintf("User %s has been deleted", username)
}

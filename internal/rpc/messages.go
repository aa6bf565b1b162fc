package rpc

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
	Message     string    `json:"message"`
}

// StatusResponse carries the user-facing message of a successful mutation.
// Failures arrive as gRPC status errors whose message is the same text.
type StatusResponse struct {
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// ChangePasswordRequest acts on the account named in the access token.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type User struct {
	Username       string     `json:"username"`
	Role           string     `json:"role"`
	Email          *string    `json:"email,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	Legacy         bool       `json:"legacy,omitempty"`
}

type GetUserRequest struct {
	Username string `json:"username"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

// UpdateUserRequest changes only the fields that are set.
type UpdateUserRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type DeleteUserRequest struct {
	Username string `json:"username"`
}

type MigrateLegacyRequest struct{}

type MigrateLegacyResponse struct {
	Migrated int    `json:"migrated"`
	Message  string `json:"message"`
}

type AuditEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListAuditRequest returns events for Username, or for everyone when empty.
type ListAuditRequest struct {
	Username string `json:"username,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type ListAuditResponse struct {
	Events []AuditEvent `json:"events"`
}

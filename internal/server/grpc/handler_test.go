package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/rpc"
	"github.com/dmitrijs2005/salarygate/internal/server/audit"
	"github.com/dmitrijs2005/salarygate/internal/server/services"
)

func assertStatus(t *testing.T, err error, code codes.Code, msg string) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "not a status error: %v", err)
	assert.Equal(t, code, st.Code())
	if msg != "" {
		assert.Equal(t, msg, st.Message())
	}
}

func TestPing(t *testing.T) {
	env := startServer(t, false)

	resp, err := env.client.Ping(context.Background(), &rpc.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestLogin(t *testing.T) {
	env := startServer(t, false)
	ctx := context.Background()

	resp, err := env.client.Login(ctx, &rpc.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, services.MsgLoginSuccessful, resp.Message)
	assert.False(t, resp.ExpiresAt.IsZero())

	_, err = env.client.Login(ctx, &rpc.LoginRequest{Username: "admin", Password: "nope"})
	assertStatus(t, err, codes.Unauthenticated, services.MsgInvalidCredentials)

	_, err = env.client.Login(ctx, &rpc.LoginRequest{Username: "ghost", Password: "nope"})
	assertStatus(t, err, codes.Unauthenticated, services.MsgInvalidCredentials)
}

func TestLogin_Lockout(t *testing.T) {
	env := startServer(t, false)
	ctx := context.Background()

	var err error
	for i := 0; i < 5; i++ {
		_, err = env.client.Login(ctx, &rpc.LoginRequest{Username: "admin", Password: "bad"})
	}
	assertStatus(t, err, codes.Unauthenticated, "Too many failed attempts. Account locked for 4 minutes.")

	_, err = env.client.Login(ctx, &rpc.LoginRequest{Username: "admin", Password: "admin123"})
	assertStatus(t, err, codes.Unauthenticated, "Account is locked. Try again in 4 minutes.")
}

func TestRegisterAndSelfService(t *testing.T) {
	env := startServer(t, false)
	ctx := context.Background()

	_, err := env.client.Register(ctx, &rpc.RegisterRequest{Username: "ab", Password: "Str0ng!Pass"})
	assertStatus(t, err, codes.InvalidArgument, "Username must be 3-20 characters and contain only letters, numbers, and underscores")

	resp, err := env.client.Register(ctx, &rpc.RegisterRequest{Username: "alice", Password: "Str0ng!Pass", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, services.MsgAccountCreated, resp.Message)

	_, err = env.client.Register(ctx, &rpc.RegisterRequest{Username: "alice", Password: "Str0ng!Pass"})
	assertStatus(t, err, codes.InvalidArgument, services.MsgUsernameTaken)

	alice := env.login(t, "alice", "Str0ng!Pass")

	me, err := env.client.GetUser(alice, &rpc.GetUserRequest{})
	require.NoError(t, err)
	assert.Equal(t, "alice", me.User.Username)
	assert.Equal(t, "user", me.User.Role)
	require.NotNil(t, me.User.Email)
	assert.Equal(t, "a@example.com", *me.User.Email)
	assert.NotNil(t, me.User.LastLogin)

	_, err = env.client.GetUser(alice, &rpc.GetUserRequest{Username: "admin"})
	assertStatus(t, err, codes.PermissionDenied, "")

	_, err = env.client.ChangePassword(alice, &rpc.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "N3w!Password"})
	assertStatus(t, err, codes.Unauthenticated, services.MsgCurrentPassword)

	cp, err := env.client.ChangePassword(alice, &rpc.ChangePasswordRequest{CurrentPassword: "Str0ng!Pass", NewPassword: "N3w!Password"})
	require.NoError(t, err)
	assert.Equal(t, services.MsgPasswordChanged, cp.Message)

	_, err = env.client.ListUsers(alice, &rpc.ListUsersRequest{})
	assertStatus(t, err, codes.PermissionDenied, "admin role required")
}

func TestAdminOperations(t *testing.T) {
	env := startServer(t, false)
	admin := env.login(t, "admin", "admin123")

	_, err := env.client.CreateUser(admin, &rpc.CreateUserRequest{Username: "bob", Password: "Str0ng!Pass", Role: "root"})
	assertStatus(t, err, codes.InvalidArgument, "Role must be user or admin")

	_, err = env.client.CreateUser(admin, &rpc.CreateUserRequest{Username: "bob", Password: "Str0ng!Pass", Role: "admin"})
	require.NoError(t, err)

	list, err := env.client.ListUsers(admin, &rpc.ListUsersRequest{})
	require.NoError(t, err)
	require.Len(t, list.Users, 2)
	assert.Equal(t, "admin", list.Users[0].Username)
	assert.Equal(t, "bob", list.Users[1].Username)

	reset, err := env.client.ResetPassword(admin, &rpc.ResetPasswordRequest{Username: "bob", NewPassword: "R3set!Pass"})
	require.NoError(t, err)
	assert.Equal(t, "Password for bob has been reset", reset.Message)

	_, err = env.client.ResetPassword(admin, &rpc.ResetPasswordRequest{Username: "ghost", NewPassword: "R3set!Pass"})
	assertStatus(t, err, codes.NotFound, services.MsgUserNotFound)

	user := "user"
	_, err = env.client.UpdateUser(admin, &rpc.UpdateUserRequest{Username: "bob", Role: &user})
	require.NoError(t, err)

	bad := "superuser"
	_, err = env.client.UpdateUser(admin, &rpc.UpdateUserRequest{Username: "bob", Role: &bad})
	assertStatus(t, err, codes.InvalidArgument, "")

	_, err = env.client.UpdateUser(admin, &rpc.UpdateUserRequest{Username: "admin", Role: &user})
	assertStatus(t, err, codes.FailedPrecondition, services.MsgLastAdminDemote)

	_, err = env.client.DeleteUser(admin, &rpc.DeleteUserRequest{Username: "admin"})
	assertStatus(t, err, codes.FailedPrecondition, services.MsgLastAdminDelete)

	del, err := env.client.DeleteUser(admin, &rpc.DeleteUserRequest{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "User bob has been deleted", del.Message)

	mig, err := env.client.MigrateLegacy(admin, &rpc.MigrateLegacyRequest{})
	require.NoError(t, err)
	assert.Zero(t, mig.Migrated)
}

func TestDemotedAdminLosesAccess(t *testing.T) {
	env := startServer(t, false)
	admin := env.login(t, "admin", "admin123")

	_, err := env.client.CreateUser(admin, &rpc.CreateUserRequest{Username: "carol", Password: "Str0ng!Pass", Role: "admin"})
	require.NoError(t, err)
	carol := env.login(t, "carol", "Str0ng!Pass")

	_, err = env.client.ListUsers(carol, &rpc.ListUsersRequest{})
	require.NoError(t, err)

	user := "user"
	_, err = env.client.UpdateUser(admin, &rpc.UpdateUserRequest{Username: "carol", Role: &user})
	require.NoError(t, err)

	_, err = env.client.ListUsers(carol, &rpc.ListUsersRequest{})
	assertStatus(t, err, codes.PermissionDenied, "")

	_, err = env.client.DeleteUser(admin, &rpc.DeleteUserRequest{Username: "carol"})
	require.NoError(t, err)

	_, err = env.client.GetUser(carol, &rpc.GetUserRequest{})
	assertStatus(t, err, codes.Unauthenticated, "unknown user")
}

func TestListAudit(t *testing.T) {
	env := startServer(t, true)
	ctx := context.Background()

	_, _ = env.client.Login(ctx, &rpc.LoginRequest{Username: "admin", Password: "wrong"})
	admin := env.login(t, "admin", "admin123")

	resp, err := env.client.ListAudit(admin, &rpc.ListAuditRequest{Username: "admin"})
	require.NoError(t, err)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, string(audit.EventLoginSuccess), resp.Events[0].Type)
	assert.Equal(t, string(audit.EventLoginFailure), resp.Events[1].Type)

	all, err := env.client.ListAudit(admin, &rpc.ListAuditRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, all.Events, 1)
}

func TestListAudit_Disabled(t *testing.T) {
	env := startServer(t, false)
	admin := env.login(t, "admin", "admin123")

	_, err := env.client.ListAudit(admin, &rpc.ListAuditRequest{})
	assertStatus(t, err, codes.FailedPrecondition, "")
}

func TestResultError(t *testing.T) {
	tests := []struct {
		kind error
		code codes.Code
	}{
		{common.ErrValidation, codes.InvalidArgument},
		{common.ErrAuthentication, codes.Unauthenticated},
		{common.ErrNotFound, codes.NotFound},
		{common.ErrInvariant, codes.FailedPrecondition},
		{common.ErrStorage, codes.Internal},
		{nil, codes.Unknown},
	}
	for _, tt := range tests {
		err := resultError(services.Result{Message: "m", Kind: tt.kind})
		assert.Equal(t, tt.code, status.Code(err), "%v", tt.kind)
		assert.Equal(t, "m", status.Convert(err).Message())
	}
}

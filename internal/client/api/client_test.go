package api

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/logging"
	"github.com/dmitrijs2005/salarygate/internal/rpc"
	"github.com/dmitrijs2005/salarygate/internal/server/audit"
	"github.com/dmitrijs2005/salarygate/internal/server/auth"
	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
	grpcserver "github.com/dmitrijs2005/salarygate/internal/server/grpc"
	"github.com/dmitrijs2005/salarygate/internal/server/services"
)

func newTestClient(t *testing.T, ttl time.Duration) *Client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	db, events, err := audit.Open(ctx, audit.DriverSQLite, ":memory:")
	require.NoError(t, err)

	store := credentials.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	accounts, err := services.NewAccountService(ctx, store, services.WithAudit(events))
	require.NoError(t, err)

	srv := grpcserver.NewGRPCServer("", logging.Nop{}, accounts, auth.NewIssuer([]byte("secret"), ttl), events)

	lis := bufconn.Listen(1 << 20)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	c, err := New("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
		_ = db.Close()
	})
	return c
}

func TestClient_LoginKeepsSession(t *testing.T) {
	c := newTestClient(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	assert.Nil(t, c.Session())

	msg, err := c.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", msg)

	s := c.Session()
	require.NotNil(t, s)
	assert.Equal(t, "admin", s.Username)
	assert.Equal(t, "admin", s.Role)

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)

	c.Logout()
	assert.Nil(t, c.Session())
	_, err = c.ListUsers(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestClient_LoginFailureCarriesServerMessage(t *testing.T) {
	c := newTestClient(t, time.Hour)

	_, err := c.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Invalid username or password", err.Error())
	assert.Nil(t, c.Session())
}

func TestClient_AdminOperations(t *testing.T) {
	c := newTestClient(t, time.Hour)
	ctx := context.Background()
	_, err := c.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	msg, err := c.CreateUser(ctx, &rpc.CreateUserRequest{Username: "alice", Password: "Passw0rd!", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, "Account created successfully", msg)

	_, err = c.CreateUser(ctx, &rpc.CreateUserRequest{Username: "alice", Password: "Passw0rd!", Role: "user"})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Username already exists", remote.Message)
	assert.ErrorIs(t, err, common.ErrValidation)

	email := "alice@example.com"
	msg, err = c.UpdateUser(ctx, "alice", &email, nil)
	require.NoError(t, err)
	assert.Equal(t, "User information updated successfully", msg)

	u, err := c.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u.Email)
	assert.Equal(t, email, *u.Email)

	msg, err = c.ResetPassword(ctx, "alice", "N3wPassw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "Password for alice has been reset", msg)

	msg, err = c.MigrateLegacy(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	events, err := c.ListAudit(ctx, "alice", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, events)

	msg, err = c.DeleteUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "User alice has been deleted", msg)

	_, err = c.DeleteUser(ctx, "admin")
	assert.ErrorIs(t, err, common.ErrInvariant)
	assert.EqualError(t, err, "Cannot delete the last admin account")

	_, err = c.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_NonAdminForbidden(t *testing.T) {
	c := newTestClient(t, time.Hour)
	ctx := context.Background()
	_, err := c.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	_, err = c.CreateUser(ctx, &rpc.CreateUserRequest{Username: "bob", Password: "Passw0rd!"})
	require.NoError(t, err)

	_, err = c.Login(ctx, "bob", "Passw0rd!")
	require.NoError(t, err)

	_, err = c.ListUsers(ctx)
	assert.ErrorIs(t, err, common.ErrForbidden)

	msg, err := c.ChangePassword(ctx, "Passw0rd!", "Betterpass1!")
	require.NoError(t, err)
	assert.Equal(t, "Password changed successfully", msg)
}

func TestClient_ExpiredTokenDropsSession(t *testing.T) {
	c := newTestClient(t, time.Millisecond)
	ctx := context.Background()
	_, err := c.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.NotNil(t, c.Session())

	time.Sleep(1100 * time.Millisecond)

	_, err = c.ListUsers(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Nil(t, c.Session())
}

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil))
	assert.ErrorIs(t, mapError(status.Error(codes.Unavailable, "down")), ErrUnavailable)
	assert.ErrorIs(t, mapError(status.Error(codes.DeadlineExceeded, "slow")), ErrUnavailable)

	plain := errors.New("plain")
	assert.Same(t, plain, mapError(plain))

	err := mapError(status.Error(codes.Internal, "Failed to save user data"))
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.EqualError(t, err, "Failed to save user data")

	err = mapError(status.Error(codes.Unknown, "odd"))
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, codes.Unknown, remote.Code)
	assert.NoError(t, errors.Unwrap(err))
}

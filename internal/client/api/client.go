// Package api is the admin console's connection to the accounts gRPC
// service. It keeps the session token and attaches it to every call.
package api

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/rpc"
)

// Session describes the signed-in operator.
type Session struct {
	Username  string
	Role      string
	ExpiresAt time.Time
}

type Client struct {
	conn    *grpc.ClientConn
	rpc     rpc.AccountsServiceClient
	timeout time.Duration

	mu          sync.RWMutex
	accessToken string
	session     *Session
}

// New connects to endpoint. Extra dial options are appended after the
// defaults, which lets tests swap in an in-memory dialer.
func New(endpoint string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	c := &Client{timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.rpc = rpc.NewAccountsServiceClient(conn)
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor adds the current token to outgoing calls and drops
// the session once the server reports it expired.
func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()

	if token != "" {
		ctx = withAccessToken(ctx, token)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err != nil {
		st, ok := status.FromError(err)
		if ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error() {
			c.clearSession()
		}
	}
	return err
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.accessToken = ""
	c.session = nil
	c.mu.Unlock()
}

// Session returns the signed-in operator, or nil.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Logout forgets the token locally. Tokens are stateless so the server is
// not contacted.
func (c *Client) Logout() {
	c.clearSession()
}

func (c *Client) requireSession() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.accessToken == "" {
		return ErrNotLoggedIn
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.rpc.Ping(ctx, &rpc.PingRequest{})
	return mapError(err)
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.Login(ctx, &rpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", mapError(err)
	}

	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.session = &Session{Username: resp.Username, Role: resp.Role, ExpiresAt: resp.ExpiresAt}
	c.mu.Unlock()

	return resp.Message, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.ChangePassword(ctx, &rpc.ChangePasswordRequest{CurrentPassword: current, NewPassword: next})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *Client) GetUser(ctx context.Context, username string) (*rpc.User, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.GetUser(ctx, &rpc.GetUserRequest{Username: username})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.User, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]rpc.User, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.ListUsers(ctx, &rpc.ListUsersRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Users, nil
}

func (c *Client) CreateUser(ctx context.Context, req *rpc.CreateUserRequest) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.CreateUser(ctx, req)
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *Client) ResetPassword(ctx context.Context, username, password string) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.ResetPassword(ctx, &rpc.ResetPasswordRequest{Username: username, NewPassword: password})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

// UpdateUser changes the email and/or role; nil leaves a field untouched.
func (c *Client) UpdateUser(ctx context.Context, username string, email, role *string) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.UpdateUser(ctx, &rpc.UpdateUserRequest{Username: username, Email: email, Role: role})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *Client) DeleteUser(ctx context.Context, username string) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.DeleteUser(ctx, &rpc.DeleteUserRequest{Username: username})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *Client) MigrateLegacy(ctx context.Context) (string, error) {
	if err := c.requireSession(); err != nil {
		return "", err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.MigrateLegacy(ctx, &rpc.MigrateLegacyRequest{})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Message, nil
}

func (c *Client) ListAudit(ctx context.Context, username string, limit int) ([]rpc.AuditEvent, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.ListAudit(ctx, &rpc.ListAuditRequest{Username: username, Limit: limit})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Events, nil
}

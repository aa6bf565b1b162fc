package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/rpc"
	"github.com/dmitrijs2005/salarygate/internal/server/audit"
	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
	"github.com/dmitrijs2005/salarygate/internal/server/services"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

var errBadRole = status.Error(codes.InvalidArgument, "Role must be user or admin")

// resultError turns a failed Result into a status error carrying the
// user-facing message.
func resultError(r services.Result) error {
	code := codes.Unknown
	switch {
	case errors.Is(r.Kind, common.ErrValidation):
		code = codes.InvalidArgument
	case errors.Is(r.Kind, common.ErrAuthentication):
		code = codes.Unauthenticated
	case errors.Is(r.Kind, common.ErrNotFound):
		code = codes.NotFound
	case errors.Is(r.Kind, common.ErrInvariant):
		code = codes.FailedPrecondition
	case errors.Is(r.Kind, common.ErrStorage):
		code = codes.Internal
	}
	return status.Error(code, r.Message)
}

func statusReply(r services.Result) (*rpc.StatusResponse, error) {
	if !r.OK {
		return nil, resultError(r)
	}
	return &rpc.StatusResponse{Message: r.Message}, nil
}

func toUser(u services.UserInfo) rpc.User {
	return rpc.User{
		Username:       u.Username,
		Role:           string(u.Role),
		Email:          u.Email,
		CreatedAt:      u.CreatedAt,
		LastLogin:      u.LastLogin,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		Legacy:         u.Legacy,
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	res := s.accounts.Authenticate(ctx, req.Username, req.Password)
	if !res.OK {
		return nil, resultError(res)
	}

	info := s.accounts.GetUserInfo(req.Username)
	if info == nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	token, expiresAt, err := s.issuer.Issue(info.Username, string(info.Role))
	if err != nil {
		s.logger.Error(ctx, "issuing token", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "Logged in", "username", info.Username)
	return &rpc.LoginResponse{
		AccessToken: token,
		Username:    info.Username,
		Role:        string(info.Role),
		ExpiresAt:   expiresAt,
		Message:     res.Message,
	}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.StatusResponse, error) {
	s.logger.Info(ctx, "Registration request", "username", req.Username)
	return statusReply(s.accounts.CreateAccount(ctx, req.Username, req.Password, req.Email, credentials.RoleUser))
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *rpc.ChangePasswordRequest) (*rpc.StatusResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	return statusReply(s.accounts.ChangePassword(ctx, claims.Username, req.CurrentPassword, req.NewPassword))
}

// GetUser returns the caller's own account; admins may look up anyone.
func (s *GRPCServer) GetUser(ctx context.Context, req *rpc.GetUserRequest) (*rpc.GetUserResponse, error) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	username := req.Username
	if username == "" {
		username = claims.Username
	}
	if username != claims.Username {
		caller := s.accounts.GetUserInfo(claims.Username)
		if caller == nil || caller.Role != credentials.RoleAdmin {
			return nil, status.Error(codes.PermissionDenied, "admin role required")
		}
	}

	info := s.accounts.GetUserInfo(username)
	if info == nil {
		return nil, status.Error(codes.NotFound, services.MsgUserNotFound)
	}
	return &rpc.GetUserResponse{User: toUser(*info)}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *rpc.ListUsersRequest) (*rpc.ListUsersResponse, error) {
	users := s.accounts.ListUsers()
	out := make([]rpc.User, 0, len(users))
	for _, u := range users {
		out = append(out, toUser(u))
	}
	return &rpc.ListUsersResponse{Users: out}, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *rpc.CreateUserRequest) (*rpc.StatusResponse, error) {
	role := credentials.Role(req.Role)
	if req.Role != "" && !role.Valid() {
		return nil, errBadRole
	}
	return statusReply(s.accounts.CreateAccount(ctx, req.Username, req.Password, req.Email, role))
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.StatusResponse, error) {
	return statusReply(s.accounts.ResetPassword(ctx, req.Username, req.NewPassword))
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *rpc.UpdateUserRequest) (*rpc.StatusResponse, error) {
	var role *credentials.Role
	if req.Role != nil {
		r := credentials.Role(*req.Role)
		if !r.Valid() {
			return nil, errBadRole
		}
		role = &r
	}
	return statusReply(s.accounts.UpdateUserInfo(ctx, req.Username, req.Email, role))
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *rpc.DeleteUserRequest) (*rpc.StatusResponse, error) {
	return statusReply(s.accounts.DeleteUser(ctx, req.Username))
}

func (s *GRPCServer) MigrateLegacy(ctx context.Context, req *rpc.MigrateLegacyRequest) (*rpc.MigrateLegacyResponse, error) {
	n, res := s.accounts.MigrateLegacy(ctx)
	if !res.OK {
		return nil, resultError(res)
	}
	return &rpc.MigrateLegacyResponse{Migrated: n, Message: res.Message}, nil
}

func (s *GRPCServer) ListAudit(ctx context.Context, req *rpc.ListAuditRequest) (*rpc.ListAuditResponse, error) {
	if s.events == nil {
		return nil, status.Error(codes.FailedPrecondition, "audit trail is disabled")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	limit = min(limit, maxAuditLimit)

	var (
		events []audit.Event
		err    error
	)
	if req.Username != "" {
		events, err = s.events.ListByUser(ctx, req.Username, limit)
	} else {
		events, err = s.events.Recent(ctx, limit)
	}
	if err != nil {
		s.logger.Error(ctx, "reading audit trail", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	out := make([]rpc.AuditEvent, 0, len(events))
	for _, e := range events {
		out = append(out, rpc.AuditEvent{
			ID:         e.ID,
			Type:       string(e.Type),
			Username:   e.Username,
			Detail:     e.Detail,
			OccurredAt: e.OccurredAt,
		})
	}
	return &rpc.ListAuditResponse{Events: out}, nil
}

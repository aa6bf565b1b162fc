package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/salarygate/internal/common"
	"github.com/dmitrijs2005/salarygate/internal/rpc"
	"github.com/dmitrijs2005/salarygate/internal/server/auth"
	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
)

type ctxKey string

const claimsKey ctxKey = "claims"

type access int

const (
	accessPublic access = iota
	accessUser
	accessAdmin
)

var methodAccess = map[string]access{
	rpc.AccountsService_Ping_FullMethodName:           accessPublic,
	rpc.AccountsService_Login_FullMethodName:          accessPublic,
	rpc.AccountsService_Register_FullMethodName:       accessPublic,
	rpc.AccountsService_ChangePassword_FullMethodName: accessUser,
	rpc.AccountsService_GetUser_FullMethodName:        accessUser,
	rpc.AccountsService_ListUsers_FullMethodName:      accessAdmin,
	rpc.AccountsService_CreateUser_FullMethodName:     accessAdmin,
	rpc.AccountsService_ResetPassword_FullMethodName:  accessAdmin,
	rpc.AccountsService_UpdateUser_FullMethodName:     accessAdmin,
	rpc.AccountsService_DeleteUser_FullMethodName:     accessAdmin,
	rpc.AccountsService_MigrateLegacy_FullMethodName:  accessAdmin,
	rpc.AccountsService_ListAudit_FullMethodName:      accessAdmin,
}

func requiredAccess(method string) access {
	if a, ok := methodAccess[method]; ok {
		return a
	}
	// unknown methods are never public
	return accessAdmin
}

// accessTokenInterceptor verifies the access_token metadata for protected
// methods. Admin methods also check the caller's current role, so a
// demoted or deleted admin loses access before the token expires.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	need := requiredAccess(info.FullMethod)
	if need == accessPublic {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := s.issuer.Parse(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	user := s.accounts.GetUserInfo(claims.Username)
	if user == nil {
		return nil, status.Error(codes.Unauthenticated, "unknown user")
	}
	if need == accessAdmin && user.Role != credentials.RoleAdmin {
		return nil, status.Error(codes.PermissionDenied, "admin role required")
	}

	return handler(context.WithValue(ctx, claimsKey, claims), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	requestID := uuid.NewString()

	resp, err := handler(ctx, req)

	s.logger.Debug(ctx, "rpc",
		"method", info.FullMethod,
		"request_id", requestID,
		"code", status.Code(err).String(),
		"duration", time.Since(start))
	return resp, err
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

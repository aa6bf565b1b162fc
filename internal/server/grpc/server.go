// Package grpc exposes the account service to the admin console over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/salarygate/internal/logging"
	"github.com/dmitrijs2005/salarygate/internal/rpc"
	"github.com/dmitrijs2005/salarygate/internal/server/audit"
	"github.com/dmitrijs2005/salarygate/internal/server/auth"
	"github.com/dmitrijs2005/salarygate/internal/server/credentials"
	"github.com/dmitrijs2005/salarygate/internal/server/services"
)

// Accounts is the part of services.AccountService the RPC surface uses.
type Accounts interface {
	Authenticate(ctx context.Context, username, password string) services.Result
	CreateAccount(ctx context.Context, username, password, email string, role credentials.Role) services.Result
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) services.Result
	ResetPassword(ctx context.Context, username, newPassword string) services.Result
	UpdateUserInfo(ctx context.Context, username string, email *string, role *credentials.Role) services.Result
	DeleteUser(ctx context.Context, username string) services.Result
	MigrateLegacy(ctx context.Context) (int, services.Result)
	GetUserInfo(username string) *services.UserInfo
	ListUsers() []services.UserInfo
}

type GRPCServer struct {
	rpc.UnimplementedAccountsServiceServer
	address  string
	accounts Accounts
	events   audit.Repository
	issuer   *auth.Issuer
	logger   logging.Logger
}

// NewGRPCServer wires the RPC surface. events may be nil when the audit
// trail is disabled.
func NewGRPCServer(a string, l logging.Logger, accounts Accounts, issuer *auth.Issuer, events audit.Repository) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: accounts,
		events:   events,
		issuer:   issuer,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterAccountsServiceServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "salarygate.AccountsService"

const (
	AccountsService_Ping_FullMethodName           = "/" + ServiceName + "/Ping"
	AccountsService_Login_FullMethodName          = "/" + ServiceName + "/Login"
	AccountsService_Register_FullMethodName       = "/" + ServiceName + "/Register"
	AccountsService_ChangePassword_FullMethodName = "/" + ServiceName + "/ChangePassword"
	AccountsService_GetUser_FullMethodName        = "/" + ServiceName + "/GetUser"
	AccountsService_ListUsers_FullMethodName      = "/" + ServiceName + "/ListUsers"
	AccountsService_CreateUser_FullMethodName     = "/" + ServiceName + "/CreateUser"
	AccountsService_ResetPassword_FullMethodName  = "/" + ServiceName + "/ResetPassword"
	AccountsService_UpdateUser_FullMethodName     = "/" + ServiceName + "/UpdateUser"
	AccountsService_DeleteUser_FullMethodName     = "/" + ServiceName + "/DeleteUser"
	AccountsService_MigrateLegacy_FullMethodName  = "/" + ServiceName + "/MigrateLegacy"
	AccountsService_ListAudit_FullMethodName      = "/" + ServiceName + "/ListAudit"
)

// AccountsServiceServer is implemented by the server transport.
type AccountsServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Register(context.Context, *RegisterRequest) (*StatusResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*StatusResponse, error)
	GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*StatusResponse, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*StatusResponse, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*StatusResponse, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*StatusResponse, error)
	MigrateLegacy(context.Context, *MigrateLegacyRequest) (*MigrateLegacyResponse, error)
	ListAudit(context.Context, *ListAuditRequest) (*ListAuditResponse, error)
}

// UnimplementedAccountsServiceServer answers codes.Unimplemented for every
// method. Embed it to stay forward compatible.
type UnimplementedAccountsServiceServer struct{}

func (UnimplementedAccountsServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedAccountsServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAccountsServiceServer) Register(context.Context, *RegisterRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedAccountsServiceServer) ChangePassword(context.Context, *ChangePasswordRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ChangePassword not implemented")
}
func (UnimplementedAccountsServiceServer) GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUser not implemented")
}
func (UnimplementedAccountsServiceServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUsers not implemented")
}
func (UnimplementedAccountsServiceServer) CreateUser(context.Context, *CreateUserRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateUser not implemented")
}
func (UnimplementedAccountsServiceServer) ResetPassword(context.Context, *ResetPasswordRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetPassword not implemented")
}
func (UnimplementedAccountsServiceServer) UpdateUser(context.Context, *UpdateUserRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateUser not implemented")
}
func (UnimplementedAccountsServiceServer) DeleteUser(context.Context, *DeleteUserRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteUser not implemented")
}
func (UnimplementedAccountsServiceServer) MigrateLegacy(context.Context, *MigrateLegacyRequest) (*MigrateLegacyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MigrateLegacy not implemented")
}
func (UnimplementedAccountsServiceServer) ListAudit(context.Context, *ListAuditRequest) (*ListAuditResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAudit not implemented")
}

func RegisterAccountsServiceServer(s grpc.ServiceRegistrar, srv AccountsServiceServer) {
	s.RegisterService(&AccountsService_ServiceDesc, srv)
}

func unary[Req, Resp any](method string, call func(AccountsServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountsServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AccountsService_ServiceDesc describes the service for grpc.Server.
var AccountsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(AccountsService_Ping_FullMethodName, AccountsServiceServer.Ping)},
		{MethodName: "Login", Handler: unary(AccountsService_Login_FullMethodName, AccountsServiceServer.Login)},
		{MethodName: "Register", Handler: unary(AccountsService_Register_FullMethodName, AccountsServiceServer.Register)},
		{MethodName: "ChangePassword", Handler: unary(AccountsService_ChangePassword_FullMethodName, AccountsServiceServer.ChangePassword)},
		{MethodName: "GetUser", Handler: unary(AccountsService_GetUser_FullMethodName, AccountsServiceServer.GetUser)},
		{MethodName: "ListUsers", Handler: unary(AccountsService_ListUsers_FullMethodName, AccountsServiceServer.ListUsers)},
		{MethodName: "CreateUser", Handler: unary(AccountsService_CreateUser_FullMethodName, AccountsServiceServer.CreateUser)},
		{MethodName: "ResetPassword", Handler: unary(AccountsService_ResetPassword_FullMethodName, AccountsServiceServer.ResetPassword)},
		{MethodName: "UpdateUser", Handler: unary(AccountsService_UpdateUser_FullMethodName, AccountsServiceServer.UpdateUser)},
		{MethodName: "DeleteUser", Handler: unary(AccountsService_DeleteUser_FullMethodName, AccountsServiceServer.DeleteUser)},
		{MethodName: "MigrateLegacy", Handler: unary(AccountsService_MigrateLegacy_FullMethodName, AccountsServiceServer.MigrateLegacy)},
		{MethodName: "ListAudit", Handler: unary(AccountsService_ListAudit_FullMethodName, AccountsServiceServer.ListAudit)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "salarygate/accounts",
}

// AccountsServiceClient is the client API for AccountsService.
type AccountsServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error)
	ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error)
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	MigrateLegacy(ctx context.Context, in *MigrateLegacyRequest, opts ...grpc.CallOption) (*MigrateLegacyResponse, error)
	ListAudit(ctx context.Context, in *ListAuditRequest, opts ...grpc.CallOption) (*ListAuditResponse, error)
}

type accountsServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAccountsServiceClient returns a client that always selects the JSON codec.
func NewAccountsServiceClient(cc grpc.ClientConnInterface) AccountsServiceClient {
	return &accountsServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountsServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, AccountsService_Ping_FullMethodName, in, opts)
}

func (c *accountsServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, AccountsService_Login_FullMethodName, in, opts)
}

func (c *accountsServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountsService_Register_FullMethodName, in, opts)
}

func (c *accountsServiceClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountsService_ChangePassword_FullMethodName, in, opts)
}

func (c *accountsServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error) {
	return invoke[GetUserResponse](ctx, c.cc, AccountsService_GetUser_FullMethodName, in, opts)
}

func (c *accountsServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, AccountsService_ListUsers_FullMethodName, in, opts)
}

func (c *accountsServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountsService_CreateUser_FullMethodName, in, opts)
}

func (c *accountsServiceClient) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountsService_ResetPassword_FullMethodName, in, opts)
}

func (c *accountsServiceClient) UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountsService_UpdateUser_FullMethodName, in, opts)
}

func (c *accountsServiceClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountsService_DeleteUser_FullMethodName, in, opts)
}

func (c *accountsServiceClient) MigrateLegacy(ctx context.Context, in *MigrateLegacyRequest, opts ...grpc.CallOption) (*MigrateLegacyResponse, error) {
	return invoke[MigrateLegacyResponse](ctx, c.cc, AccountsService_MigrateLegacy_FullMethodName, in, opts)
}

func (c *accountsServiceClient) ListAudit(ctx context.Context, in *ListAuditRequest, opts ...grpc.CallOption) (*ListAuditResponse, error) {
	return invoke[ListAuditResponse](ctx, c.cc, AccountsService_ListAudit_FullMethodName, in, opts)
}

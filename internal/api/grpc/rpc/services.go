package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	AuthServiceName    = "api.Auth"
	AccountServiceName = "api.Account"
	AdminServiceName   = "api.Admin"
)

// AuthServer is the public sign-up and sign-in surface.
type AuthServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	VerifyEmail(context.Context, *VerifyEmailRequest) (*UserResponse, error)
	ResendVerification(context.Context, *EmailRequest) (*MessageResponse, error)
	ForgotPassword(context.Context, *EmailRequest) (*MessageResponse, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*MessageResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Refresh(context.Context, *RefreshRequest) (*AuthResponse, error)
	Logout(context.Context, *RefreshRequest) (*MessageResponse, error)
}

// AccountServer serves the signed-in caller's own account.
type AccountServer interface {
	ListSessions(context.Context, *emptypb.Empty) (*SessionsResponse, error)
	RevokeSession(context.Context, *SessionRequest) (*MessageResponse, error)
	LogoutAll(context.Context, *emptypb.Empty) (*LogoutAllResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*MessageResponse, error)
	Profile(context.Context, *emptypb.Empty) (*UserResponse, error)
}

// AdminServer manages other accounts and the delivery queue.
type AdminServer interface {
	GetUser(context.Context, *UserRequest) (*UserResponse, error)
	DeleteUser(context.Context, *UserRequest) (*MessageResponse, error)
	RestoreUser(context.Context, *UserRequest) (*MessageResponse, error)
	UpdateUserStatus(context.Context, *UpdateStatusRequest) (*UserResponse, error)
	ListFailedEmails(context.Context, *ListFailedEmailsRequest) (*FailedEmailsResponse, error)
	RequeueEmail(context.Context, *EmailJobRequest) (*MessageResponse, error)
}

// FullMethod returns the wire name of a method, e.g. "/api.Auth/Login".
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

func unary[S, Req, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := FullMethod(service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AuthServiceName, "Register", AuthServer.Register),
		unary(AuthServiceName, "VerifyEmail", AuthServer.VerifyEmail),
		unary(AuthServiceName, "ResendVerification", AuthServer.ResendVerification),
		unary(AuthServiceName, "ForgotPassword", AuthServer.ForgotPassword),
		unary(AuthServiceName, "ResetPassword", AuthServer.ResetPassword),
		unary(AuthServiceName, "Login", AuthServer.Login),
		unary(AuthServiceName, "Refresh", AuthServer.Refresh),
		unary(AuthServiceName, "Logout", AuthServer.Logout),
	},
	Metadata: "gatekeeper/auth",
}

var accountServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AccountServiceName, "ListSessions", AccountServer.ListSessions),
		unary(AccountServiceName, "RevokeSession", AccountServer.RevokeSession),
		unary(AccountServiceName, "LogoutAll", AccountServer.LogoutAll),
		unary(AccountServiceName, "ChangePassword", AccountServer.ChangePassword),
		unary(AccountServiceName, "Profile", AccountServer.Profile),
	},
	Metadata: "gatekeeper/account",
}

var adminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AdminServiceName, "GetUser", AdminServer.GetUser),
		unary(AdminServiceName, "DeleteUser", AdminServer.DeleteUser),
		unary(AdminServiceName, "RestoreUser", AdminServer.RestoreUser),
		unary(AdminServiceName, "UpdateUserStatus", AdminServer.UpdateUserStatus),
		unary(AdminServiceName, "ListFailedEmails", AdminServer.ListFailedEmails),
		unary(AdminServiceName, "RequeueEmail", AdminServer.RequeueEmail),
	},
	Metadata: "gatekeeper/admin",
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&authServiceDesc, srv)
}

func RegisterAccountServer(s grpc.ServiceRegistrar, srv AccountServer) {
	s.RegisterService(&accountServiceDesc, srv)
}

func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&adminServiceDesc, srv)
}

// Invoke calls a unary method over conn with the JSON codec.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, service, method string, req, resp any, opts ...grpc.CallOption) error {
	opts = append(opts, grpc.CallContentSubtype(CodecName))
	return conn.Invoke(ctx, FullMethod(service, method), req, resp, opts...)
}

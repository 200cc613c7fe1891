package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/keylinehq/keyline/internal/auth/service"
	"github.com/keylinehq/keyline/pkg/slogx"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "keyline.auth.v1.AuthService"

// AuthServer implements the AuthService RPC surface. Validation goes
// through the same AuthService.Resolve path the HTTP middleware uses.
type AuthServer struct {
	Auth *service.AuthService
}

// ValidateToken checks an access token and returns the owner's identity.
// A rejected token is not an RPC error: the response carries valid=false
// so callers get one verdict shape for every outcome. Only an empty
// token (InvalidArgument) or a backend fault (Internal) fail the call.
func (s *AuthServer) ValidateToken(ctx context.Context, req *ValidateTokenRequest) (*ValidateTokenResponse, error) {
	if req.Token == "" {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}

	user, err := s.Auth.Resolve(ctx, req.Token)
	if err != nil {
		var mismatch *service.InvalidTokenTypeError
		switch {
		case errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrTokenExpired),
			errors.Is(err, service.ErrInvalidCredentials),
			errors.As(err, &mismatch):
			return &ValidateTokenResponse{Valid: false}, nil
		default:
			slogx.FromContext(ctx).Error("token validation failed", "err", err)
			return nil, status.Error(codes.Internal, "internal error")
		}
	}

	return &ValidateTokenResponse{
		Valid: true,
		User: &UserInfo{
			ID:          user.ID,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Username:    user.Username,
			Email:       user.Email,
			IsActive:    user.IsActive,
			IsSuperuser: user.IsSuperuser,
			IsVerified:  user.IsVerified,
		},
	}, nil
}

// Register attaches the AuthService to a gRPC registrar.
func Register(r grpc.ServiceRegistrar, srv *AuthServer) {
	r.RegisterService(&serviceDesc, srv)
}

func validateTokenHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(ValidateTokenRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*AuthServer).ValidateToken(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/ValidateToken",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*AuthServer).ValidateToken(ctx, req.(*ValidateTokenRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ValidateToken",
			Handler:    validateTokenHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

package rpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/keylinehq/keyline/pkg/slogx"
)

// NewServer builds a gRPC server with the auth service registered and a
// logging interceptor attached.
func NewServer(auth *AuthServer, logger *slog.Logger) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(loggingInterceptor(logger)),
	)
	Register(srv, auth)
	return srv
}

// Serve listens on addr and serves until the server is stopped.
func Serve(srv *grpc.Server, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return srv.Serve(lis)
}

// loggingInterceptor logs each unary call and attaches a contextual
// logger, mirroring what slogx.HTTPMiddleware does for HTTP requests.
func loggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		logger := base.With("method", info.FullMethod)

		resp, err := handler(slogx.WithContext(ctx, logger), req)

		logger.Info("grpc_request",
			"code", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}

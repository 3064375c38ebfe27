// Package rpc exposes the render service over gRPC. Messages are
// google.protobuf.Struct values shaped like the JSON-lines serve protocol.
package rpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/k-kohey/figkit/internal/document"
	"github.com/k-kohey/figkit/internal/figmaapi"
	"github.com/k-kohey/figkit/internal/preview"
)

const (
	ServiceName  = "figkit.v1.Renderer"
	RenderMethod = "/" + ServiceName + "/Render"
)

// RendererServer is the server API of the Renderer service.
type RendererServer interface {
	Render(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the Renderer service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RendererServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Render", Handler: renderHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "figkit/v1/renderer.proto",
}

func renderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RendererServer).Render(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RenderMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RendererServer).Render(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Server implements RendererServer on top of a preview.Service.
type Server struct {
	svc *preview.Service
}

var _ RendererServer = (*Server)(nil)

func NewRendererServer(svc *preview.Service) *Server {
	return &Server{svc: svc}
}

// Render handles one request.
func (s *Server) Render(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := preview.RequestFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.svc.Handle(ctx, req)
	if err != nil {
		return nil, status.Error(code(err), err.Error())
	}
	out, err := resp.Struct()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func code(err error) codes.Code {
	switch {
	case errors.Is(err, document.ErrViewNotFound), errors.Is(err, figmaapi.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, figmaapi.ErrNoToken), errors.Is(err, figmaapi.ErrUnauthorized):
		return codes.Unauthenticated
	case errors.Is(err, figmaapi.ErrForbidden):
		return codes.PermissionDenied
	case errors.Is(err, figmaapi.ErrRateLimited):
		return codes.ResourceExhausted
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.InvalidArgument
	}
}

// NewServer creates a gRPC server with the Renderer, health and reflection
// services registered.
func NewServer(svc *preview.Service, logger *slog.Logger) *grpc.Server {
	if logger == nil {
		logger = slog.Default()
	}
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary(logger)))
	srv.RegisterService(&ServiceDesc, NewRendererServer(svc))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return srv
}

func logUnary(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("RPC failed", "method", info.FullMethod, "code", status.Code(err), "err", err)
		} else {
			logger.Debug("RPC", "method", info.FullMethod, "elapsed", time.Since(start))
		}
		return resp, err
	}
}

// Serve runs srv on lis until ctx is done, then stops it gracefully.
func Serve(ctx context.Context, srv *grpc.Server, lis net.Listener) error {
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			srv.GracefulStop()
		case <-stopped:
		}
	}()
	defer close(stopped)

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/fatafat-forecast/internal/predictor"
)

// #region server-struct

// Server implements ForecastServer over a predictor.
type Server struct {
	predictor *predictor.Predictor
	now       func() time.Time
}

// NewServer creates a server. A nil now uses time.Now.
func NewServer(p *predictor.Predictor, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{predictor: p, now: now}
}

// #endregion server-struct

// #region methods

// Current returns the round prediction.
func (s *Server) Current(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(s.predictor.Current(s.now(), "rpc"))
}

// NumberWise returns the full distribution with the round info.
func (s *Server) NumberWise(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	now := s.now()
	return toStruct(NumberWiseReply{
		NumberWise: s.predictor.NumberWise(now),
		RoundInfo:  s.predictor.Round(now),
	})
}

// Statistics returns the sequence summary.
func (s *Server) Statistics(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(s.predictor.Statistics())
}

// Refresh invalidates the analysis cache.
func (s *Server) Refresh(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.predictor.Refresh()
	return toStruct(RefreshReply{Success: true, Message: "Data refreshed successfully"})
}

// toStruct converts a JSON-tagged value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "marshal reply: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "unmarshal reply: %v", err)
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "struct reply: %v", err)
	}
	return st, nil
}

// #endregion methods

// #region register

// Register adds the Forecast service and a SERVING health service to gs.
func Register(gs *grpc.Server, srv ForecastServer) *health.Server {
	gs.RegisterService(&ServiceDesc, srv)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return hs
}

// LoggingInterceptor logs every unary call at debug level, failures at warn.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("rpc", fields...)
		}
		return resp, err
	}
}

// Serve listens on addr and serves until ctx is cancelled.
func Serve(ctx context.Context, addr string, srv ForecastServer, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	gs := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	hs := Register(gs, srv)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
		errCh <- gs.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		hs.Shutdown()
		gs.GracefulStop()
		return <-errCh
	}
}

// #endregion register

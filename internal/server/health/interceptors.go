package health

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/and161185/goalplay-inventory/internal/metrics"
)

// logChecks logs every health call with the service asked about and the status answered.
// Healthy answers are logged at debug level so orchestrator polling stays quiet.
func (s *Server) logChecks() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		svc := requestedService(req)
		result := checkResult(resp, err)
		metrics.HealthChecksTotal.WithLabelValues(svc, result).Inc()

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("service", svc),
			zap.String("result", result),
			zap.Duration("dur", time.Since(start)),
		}
		if result == healthpb.HealthCheckResponse_SERVING.String() {
			s.log.Debug("health check", fields...)
		} else {
			s.log.Warn("health check", fields...)
		}
		return resp, err
	}
}

// recoverChecks turns a panic into codes.Internal and takes the inventory service out of rotation.
func (s *Server) recoverChecks() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("panic in health handler",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("method", info.FullMethod),
					zap.String("service", requestedService(req)),
				)
				s.status.SetServingStatus(Service, healthpb.HealthCheckResponse_NOT_SERVING)
				err = status.Error(codes.Internal, "health check failed")
			}
		}()
		return next(ctx, req)
	}
}

func requestedService(req any) string {
	if r, ok := req.(*healthpb.HealthCheckRequest); ok {
		return r.GetService()
	}
	return ""
}

// checkResult names the answer: the serving status, or the gRPC code on error.
func checkResult(resp any, err error) string {
	if err != nil {
		return status.Code(err).String()
	}
	if r, ok := resp.(*healthpb.HealthCheckResponse); ok {
		return r.GetStatus().String()
	}
	return codes.OK.String()
}

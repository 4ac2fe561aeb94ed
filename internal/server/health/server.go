// Package health serves the standard gRPC health service for orchestrators.
package health

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the name under which the inventory API status is published.
const Service = "goalplay.inventory"

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps a grpc.Server exposing grpc.health.v1.Health.
type Server struct {
	grpc   *grpc.Server
	status *grpchealth.Server
	log    *zap.Logger
}

// New builds the health server with logging and panic-recovery interceptors.
func New(log *zap.Logger) *Server {
	s := &Server{status: grpchealth.NewServer(), log: log}
	s.grpc = grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			s.recoverChecks(),
			s.logChecks(),
		),
	)
	healthpb.RegisterHealthServer(s.grpc, s.status)
	return s
}

// Check pings the database and publishes the result for both the overall and the named service.
func (s *Server) Check(ctx context.Context, db Pinger) {
	st := healthpb.HealthCheckResponse_SERVING
	if err := db.Ping(ctx); err != nil {
		s.log.Warn("database unreachable", zap.Error(err))
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.status.SetServingStatus("", st)
	s.status.SetServingStatus(Service, st)
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error { return s.grpc.Serve(lis) }

// Stop marks every service NOT_SERVING and stops gracefully.
func (s *Server) Stop() {
	s.status.Shutdown()
	s.grpc.GracefulStop()
}

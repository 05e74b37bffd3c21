package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthService is the service name reported by the gRPC health server in
// addition to the overall ("") status.
const HealthService = "ffs.Movies"

// NewGRPCServer creates a gRPC server with standard interceptors,
// registers the health service and reflection, and returns the server
// ready to serve.
func NewGRPCServer(hs *health.Server) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor,
		),
	)

	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return srv
}

// RunHealthProbe pings the store immediately and then every interval, and
// reflects the result in hs until ctx is done.
func (s *MoviesServer) RunHealthProbe(ctx context.Context, hs *health.Server, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		st := s.probe(ctx, interval)
		if st != last {
			slog.Info("health status changed", "from", last.String(), "to", st.String())
			last = st
		}
		hs.SetServingStatus("", st)
		hs.SetServingStatus(HealthService, st)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *MoviesServer) probe(ctx context.Context, timeout time.Duration) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		slog.Warn("health probe: store ping failed", "error", err)
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// Package grpc exposes the standard gRPC health service so that load
// balancers and orchestrators can probe the server. Registered checks are
// polled and flip the status between SERVING and NOT_SERVING.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/diarify/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the service reported next to the overall "" entry.
const ServiceName = "diarify.API"

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

var (
	probeInterval = 10 * time.Second
	checkTimeout  = 3 * time.Second
)

type HealthServer struct {
	address  string
	logger   logging.Logger
	health   *health.Server
	checks   map[string]Check
	interval time.Duration
	timeout  time.Duration
}

func NewHealthServer(address string, l logging.Logger, checks map[string]Check) *HealthServer {
	return &HealthServer{
		address:  address,
		logger:   l.With("module", "grpc_health"),
		health:   health.NewServer(),
		checks:   checks,
		interval: probeInterval,
		timeout:  checkTimeout,
	}
}

func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

func (s *HealthServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.probe(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC health server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

// probe runs every check under its own deadline and records the aggregate
// status. A check that misses the deadline counts as failed.
func (s *HealthServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		if err := s.runCheck(ctx, check); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn(ctx, "health check failed", "check", name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *HealthServer) runCheck(ctx context.Context, check Check) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return check(ctx)
}

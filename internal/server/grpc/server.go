// Package grpc serves the standard gRPC health protocol for the portal.
// Status follows the HTTP server's lifecycle and the reachability of the
// database.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthServer struct {
	address  string
	logger   logging.Logger
	health   *health.Server
	pinger   Pinger
	interval time.Duration
}

func NewHealthServer(a string, l logging.Logger, p Pinger, interval time.Duration) *HealthServer {
	return &HealthServer{
		address:  a,
		logger:   l.With("module", "grpc_health"),
		health:   health.NewServer(),
		pinger:   p,
		interval: interval,
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

// Serve blocks until ctx is done. On shutdown every service is reported
// NOT_SERVING before the listener closes.
func (s *HealthServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.setServing(ctx, s.ping(ctx) == nil)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC health server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	if s.pinger != nil && s.interval > 0 {
		go s.watch(ctx)
	}

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

// SetNotServing is called when the HTTP server stops before the process exits.
func (s *HealthServer) SetNotServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
}

func (s *HealthServer) setServing(ctx context.Context, ok bool) {
	if ctx.Err() != nil {
		return
	}
	st := healthpb.HealthCheckResponse_SERVING
	if !ok {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
}

func (s *HealthServer) ping(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	timeout := s.interval
	if timeout <= 0 {
		timeout = time.Second
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.pinger.PingContext(pctx)
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.ping(ctx)
			if (err == nil) != healthy {
				healthy = err == nil
				if healthy {
					s.logger.Info(ctx, "database reachable again")
				} else {
					s.logger.Warn(ctx, "database unreachable", "error", err)
				}
			}
			s.setServing(ctx, healthy)
		}
	}
}

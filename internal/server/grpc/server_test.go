package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/feedbackportal/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type flakyDB struct{ down atomic.Bool }

func (f *flakyDB) PingContext(context.Context) error {
	if f.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func startServer(t *testing.T, p Pinger, interval time.Duration) (*HealthServer, healthpb.HealthClient, context.CancelFunc, chan error) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := NewHealthServer(lis.Addr().String(), nopLogger{}, p, interval)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		_ = conn.Close()
	})

	return srv, healthpb.NewHealthClient(conn), cancel, done
}

func waitStatus(t *testing.T, c healthpb.HealthClient, want healthpb.HealthCheckResponse_ServingStatus) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	var last healthpb.HealthCheckResponse_ServingStatus
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{})
		cancel()
		if err == nil {
			last = resp.GetStatus()
			if last == want {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("status never became %v, last %v", want, last)
}

func TestServe_ReportsServing(t *testing.T) {
	_, client, _, _ := startServer(t, &flakyDB{}, 0)

	waitStatus(t, client, healthpb.HealthCheckResponse_SERVING)
}

func TestServe_FollowsDatabase(t *testing.T) {
	db := &flakyDB{}
	_, client, _, _ := startServer(t, db, 10*time.Millisecond)

	waitStatus(t, client, healthpb.HealthCheckResponse_SERVING)

	db.down.Store(true)
	waitStatus(t, client, healthpb.HealthCheckResponse_NOT_SERVING)

	db.down.Store(false)
	waitStatus(t, client, healthpb.HealthCheckResponse_SERVING)
}

func TestSetNotServing(t *testing.T) {
	srv, client, _, _ := startServer(t, nil, 0)

	waitStatus(t, client, healthpb.HealthCheckResponse_SERVING)
	srv.SetNotServing()
	waitStatus(t, client, healthpb.HealthCheckResponse_NOT_SERVING)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	_, client, cancel, done := startServer(t, nil, 0)
	waitStatus(t, client, healthpb.HealthCheckResponse_SERVING)

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewHealthServer("127.0.0.1:99999", nopLogger{}, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

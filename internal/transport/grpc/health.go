package grpcx

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported by grpc.health.v1 next to the overall "" status.
const ServiceName = "creatorhub"

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthMonitor flips the health status according to periodic storage pings.
type HealthMonitor struct {
	srv     *health.Server
	pinger  Pinger
	every   time.Duration
	timeout time.Duration
}

func NewHealthMonitor(srv *health.Server, pinger Pinger, every time.Duration) *HealthMonitor {
	if every <= 0 {
		every = 10 * time.Second
	}

	return &HealthMonitor{
		srv:     srv,
		pinger:  pinger,
		every:   every,
		timeout: 2 * time.Second,
	}
}

// Check pings once and publishes the result.
func (m *HealthMonitor) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if m.pinger != nil {
		pctx, cancel := context.WithTimeout(ctx, m.timeout)
		err := m.pinger.Ping(pctx)
		cancel()
		if err != nil {
			slog.Warn("health.ping failed", slog.Any("err", err))
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	m.srv.SetServingStatus("", st)
	m.srv.SetServingStatus(ServiceName, st)

	return st
}

// Run checks immediately and then every interval until ctx is done.
func (m *HealthMonitor) Run(ctx context.Context) {
	m.Check(ctx)

	t := time.NewTicker(m.every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			m.srv.Shutdown()
			return
		case <-t.C:
			m.Check(ctx)
		}
	}
}

// Package health probes the Diarify server's gRPC health service. The
// terminal client uses it to tell online from offline.
package health

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var ErrNotServing = errors.New("server is not serving")

type Prober struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// Dial creates a prober for addr. The connection is established lazily on
// the first Ping.
func Dial(addr string, opts ...grpc.DialOption) (*Prober, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("health client: %w", err)
	}
	return &Prober{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Ping checks the overall server status.
func (p *Prober) Ping(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, resp.GetStatus())
	}
	return nil
}

func (p *Prober) Close() error {
	return p.conn.Close()
}

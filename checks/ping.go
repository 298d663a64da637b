package checks

import (
	"context"
	"net"

	"github.com/pkg/errors"

	health "github.com/hirenkeraliya/go-health"
)

// Pinger verifies a resource is still alive.
// This would normally be a TCP dial check, a db.PingContext() or something similar.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingContextFunc type is an adapter to allow the use of ordinary functions as Pingers.
type PingContextFunc func(ctx context.Context) error

// PingContext calls f(ctx).
func (f PingContextFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

// PingCheck fails when its Pinger returns an error.
type PingCheck struct {
	*health.Gate
	pinger Pinger
}

var _ health.Check = (*PingCheck)(nil)

// NewPingCheck returns a Check that pings using the specified Pinger and fails on context cancellation or ping failure.
// An empty name keeps the default name, "Ping".
func NewPingCheck(name string, pinger Pinger) (*PingCheck, error) {
	if pinger == nil {
		return nil, errors.New("Pinger must not be nil")
	}

	check := &PingCheck{pinger: pinger}
	check.Gate = health.NewGate(check)
	if name != "" {
		check.SetName(name)
	}

	return check, nil
}

func (check *PingCheck) Run(ctx context.Context) health.Result {
	if err := check.pinger.PingContext(ctx); err != nil {
		return health.Failed(err.Error()).WithSummary("unreachable")
	}

	return health.OK("pong").WithSummary("reachable")
}

// NewDialPinger returns a Pinger that pings the specified address
func NewDialPinger(network, address string) PingContextFunc {
	var d net.Dialer
	return func(ctx context.Context) error {
		conn, err := d.DialContext(ctx, network, address)
		if err == nil {
			_ = conn.Close()
		}

		return err
	}
}

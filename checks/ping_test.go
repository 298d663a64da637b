package checks

import (
	"context"
	"net"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	health "github.com/hirenkeraliya/go-health"
)

const (
	checkName = "xxx"
)

func TestNewPingCheck_nilPinger(t *testing.T) {
	check, err := NewPingCheck(checkName, nil)
	assert.Error(t, err, "check creation should fail for nil pinger")
	assert.Nil(t, check, "check creation should fail for nil pinger")
}

func TestNewPingCheck(t *testing.T) {
	assertions := assert.New(t)

	check, err := NewPingCheck(checkName, mockPinger(false))
	assertions.NoError(err, "check creation should succeed")
	assertions.NotNil(check, "check creation should succeed")

	assertions.Equal(checkName, check.Name(), "check name")
	assertions.Equal(health.StatusOK, check.Run(context.Background()).Status())

	check, err = NewPingCheck("", mockPinger(true))
	assertions.NoError(err, "check creation should succeed")
	assertions.Equal("Ping", check.Name(), "default check name")

	result := check.Run(context.Background())
	assertions.Equal(health.StatusFailed, result.Status())
	assertions.Equal("mock fail", result.Message())
	assertions.Equal("unreachable", result.Summary())
}

func mockPinger(failing bool) PingContextFunc {
	return func(ctx context.Context) error {
		if failing {
			return errors.New("mock fail")
		}

		return nil
	}
}

func TestNewDialPinger(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := listener.Addr().String()

	pinger := NewDialPinger("tcp", address)
	assert.NoError(t, pinger.PingContext(context.Background()), "expecting success for a listening address")

	require.NoError(t, listener.Close())
	assert.Error(t, pinger.PingContext(context.Background()), "expecting a ping error for a closed address")
}

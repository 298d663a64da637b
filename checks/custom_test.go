package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	health "github.com/hirenkeraliya/go-health"
)

func TestName(t *testing.T) {
	chk := NewCustomCheck("", nil)
	assert.Equal(t, "Custom", chk.Name(), "unnamed custom check")
	assert.Equal(t, "Custom", chk.Label())

	const expectedName = "my.check"
	chk = NewCustomCheck(expectedName, nil)
	assert.Equal(t, expectedName, chk.Name(), "named custom check")
	assert.Equal(t, "My Check", chk.Label())
}

func TestRun(t *testing.T) {
	chk := NewCustomCheck("my.check", nil)
	result := health.Run(context.Background(), chk)
	assert.Equal(t, health.StatusSkipped, result.Status(), "nil check func should be skipped")
	assert.Equal(t, "Unimplemented check", result.Message())

	chk.CheckFunc = func(ctx context.Context) health.Result {
		return health.Warning("my.details")
	}
	result = health.Run(context.Background(), chk)
	assert.Equal(t, health.StatusWarning, result.Status())
	assert.Equal(t, "my.details", result.Message())

	chk.CheckFunc = func(ctx context.Context) health.Result {
		panic("my.error")
	}
	result = health.Run(context.Background(), chk)
	assert.Equal(t, health.StatusCrashed, result.Status())
}

package checks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	health "github.com/hirenkeraliya/go-health"
)

const (
	ExpectedError = "fail-fail-fail"
	ExpectedCount = 666
)

func TestNewHostResolveCheck(t *testing.T) {
	check := NewHostResolveCheck("127.0.0.1", 1)

	assert.Equal(t, "resolve.127.0.0.1", check.Name(), "check name")

	result := check.Run(context.Background())
	assert.Equal(t, health.StatusOK, result.Status(), "check execution should succeed")
	assert.Equal(t, "[1] results were resolved", result.Message())
	assert.Equal(t, 1, result.Meta()["resolved"])
}

func TestNewResolveCheck_lookupError(t *testing.T) {
	check := NewResolveCheck(creteMockLookupFunc(ExpectedCount, errors.New(ExpectedError)), "whatever", 1)

	assert.Equal(t, "resolve.whatever", check.Name(), "check name")
	result := check.Run(context.Background())
	assert.Equal(t, health.StatusFailed, result.Status())
	assert.Equal(t, ExpectedError, result.Message(), "error message")
	assert.Equal(t, fmt.Sprintf("[%d] results were resolved", ExpectedCount), result.Summary())
}

func TestNewResolveCheck_noResults(t *testing.T) {
	check := NewResolveCheck(creteMockLookupFunc(0, nil), "whatever", 1)

	result := check.Run(context.Background())
	assert.Equal(t, health.StatusFailed, result.Status())
	assert.Equal(t, "[whatever] lookup returned no results", result.Message())
}

func TestNewResolveCheck_expectedCount(t *testing.T) {
	check := NewResolveCheck(creteMockLookupFunc(1, nil), "whatever", ExpectedCount)

	result := check.Run(context.Background())
	assert.Equal(t, health.StatusWarning, result.Status(), "too few results is a warning")
	assert.Equal(t, fmt.Sprintf("[whatever] lookup returned 1 results, but requires at least %d", ExpectedCount), result.Message())
	assert.Equal(t, "[1] results were resolved", result.Summary())
}

func creteMockLookupFunc(resultCount int, err error) LookupFunc {
	return func(ctx context.Context, host string) (int, error) {
		return resultCount, err
	}
}

package checks

import (
	"context"

	health "github.com/hirenkeraliya/go-health"
)

// CustomCheck is a simple Check implementation if all you need is a functional check
type CustomCheck struct {
	*health.Gate
	// CheckFunc runs a single time check and returns its result.
	CheckFunc func(ctx context.Context) health.Result
}

var _ health.Check = (*CustomCheck)(nil)

// NewCustomCheck returns a check named name that runs fn.
func NewCustomCheck(name string, fn func(ctx context.Context) health.Result) *CustomCheck {
	check := &CustomCheck{CheckFunc: fn}
	check.Gate = health.NewGate(check)
	check.SetName(name)

	return check
}

func (check *CustomCheck) Run(ctx context.Context) health.Result {
	if check.CheckFunc == nil {
		return health.Skipped("Unimplemented check")
	}

	return check.CheckFunc(ctx)
}

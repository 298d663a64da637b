package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Check is the API for defining health checks.
// Implementations usually embed a *Gate, which provides everything but Run.
type Check interface {
	// Name is the name of the check. It must be non empty and must not change once registered.
	Name() string
	// Label is the human readable name of the check.
	Label() string
	// ShouldRun reports whether the check is due at now. An error means the check is misconfigured.
	ShouldRun(now time.Time) (bool, error)
	// Run executes the check once and returns its result.
	// Panics are turned into a crashed result by the package level Run, which callers should use.
	Run(ctx context.Context) Result
	// OnTerminate is called after an HTTP response reporting the check has been written.
	OnTerminate(r *http.Request, w http.ResponseWriter)
}

type crashMarker interface {
	MarkAsCrashed() Result
}

// Run executes check and never panics: a panic raised by the check's Run is recovered and
// reported as a crashed result. Panics of Run are recovered here and nowhere else.
func Run(ctx context.Context, check Check) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = markAsCrashed(check).WithMeta(map[string]interface{}{
				"exception": fmt.Sprint(r),
			})
		}
	}()

	return check.Run(ctx)
}

func markAsCrashed(check Check) (result Result) {
	m, ok := check.(crashMarker)
	if !ok {
		return Crashed()
	}

	defer func() {
		if recover() != nil {
			result = Crashed()
		}
	}()
	result = m.MarkAsCrashed()
	if result.Status() != StatusCrashed {
		return Crashed()
	}

	return result
}

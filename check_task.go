package health

import (
	"context"
	"time"
)

type checkTask struct {
	check   Check
	timeout time.Duration
}

func (t *checkTask) execute(parentCtx context.Context) (result Result, duration time.Duration) {
	startTime := time.Now()
	if t.timeout <= 0 {
		result = Run(parentCtx, t.check)
		return result, time.Since(startTime)
	}

	ctx, cancel := context.WithTimeout(parentCtx, t.timeout)
	defer cancel()

	// buffered: the check goroutine never blocks once the timeout fired
	done := make(chan Result, 1)
	go func() {
		done <- Run(ctx, t.check)
	}()

	select {
	case result = <-done:
	case <-ctx.Done():
		if parentCtx.Err() != nil {
			// cancelled by the caller, not timed out: the check reports for itself
			result = <-done
			break
		}
		result = markAsCrashed(t.check).WithMeta(map[string]interface{}{
			"error": ctx.Err().Error(),
		})
	}

	return result, time.Since(startTime)
}

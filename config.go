package health

import (
	"time"
)

// checkConfig configures how the runner executes a registered check.
type checkConfig struct {
	// executionTimeout is the maximum allowed execution time for a check. If this timeout is exceeded,
	// the provided Context is cancelled and the check is reported as crashed.
	// defaults to no timeout.
	executionTimeout time.Duration
}

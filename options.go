package health

import (
	"time"

	log "github.com/InVisionApp/go-logger"
)

// Option configures a health checker using the functional options paradigm
// popularized by Rob Pike and Dave Cheney.
// If you're unfamiliar with this style, see:
// - https://commandcenter.blogspot.com/2014/01/self-referential-functions-and-design.html
// - https://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis.
// - https://sagikazarmark.hu/blog/functional-options-on-steroids/
type Option interface {
	apply(*health)
}

// CheckOption configures a single registered check.
type CheckOption interface {
	applyCheck(*checkConfig)
}

type optionFunc func(*health)

func (fn optionFunc) apply(h *health) {
	fn(h)
}

type checkOptionFunc func(*checkConfig)

func (fn checkOptionFunc) applyCheck(cfg *checkConfig) {
	fn(cfg)
}

// WithCheckListeners allows you to listen to check registration, skip, start and completion events
func WithCheckListeners(listener ...CheckListener) Option {
	return optionFunc(func(h *health) {
		h.checksListener = listener
	})
}

// WithHealthListeners allows you to listen to overall results change
func WithHealthListeners(listener ...HealthListener) Option {
	return optionFunc(func(h *health) {
		h.healthListener = listener
	})
}

// WithLogger sets the logger used to report misconfigured and crashed checks. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return optionFunc(func(h *health) {
		h.logger = logger
	})
}

// WithDefaultExecutionTimeout sets the execution timeout of checks registered without ExecutionTimeout.
func WithDefaultExecutionTimeout(timeout time.Duration) Option {
	return optionFunc(func(h *health) {
		h.defaultExecutionTimeout = timeout
	})
}

// WithClock replaces time.Now as the source of the instants handed to ShouldRun by Start.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(h *health) {
		h.clock = now
	})
}

// WithDefaults sets all the Health object settings. It's not required to use this as no options is always default
func WithDefaults() Option {
	return optionFunc(func(h *health) {
		if h.logger == nil {
			h.logger = log.NewNoop()
		}
		if h.clock == nil {
			h.clock = time.Now
		}
	})
}

// ExecutionTimeout bounds a single execution of the check. A check exceeding it has its
// Context cancelled and is reported as crashed. When the caller's Context is cancelled first,
// the check's own result is reported, as it is without a timeout.
func ExecutionTimeout(timeout time.Duration) CheckOption {
	return checkOptionFunc(func(cfg *checkConfig) {
		cfg.executionTimeout = timeout
	})
}

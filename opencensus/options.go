package opencensus

import (
	log "github.com/InVisionApp/go-logger"
)

type Option func(*MetricsListener)

// WithClassification set custom classification for metrics
func WithClassification(classification string) Option {
	return func(listener *MetricsListener) {
		listener.classification = classification
	}
}

// WithLivenessClassification sets the classification to "liveness"
func WithLivenessClassification() Option {
	return WithClassification("liveness")
}

// WithReadinessClassification sets the classification to "readiness"
func WithReadinessClassification() Option {
	return WithClassification("readiness")
}

// WithStartupClassification sets the classification to "startup"
func WithStartupClassification() Option {
	return WithClassification("startup")
}

// WithPrefix sets the prefix of the measure and view names; defaults to "health"
func WithPrefix(prefix string) Option {
	return func(listener *MetricsListener) {
		listener.prefix = prefix
	}
}

// WithLogger sets the logger reporting metrics recording problems
func WithLogger(logger log.Logger) Option {
	return func(listener *MetricsListener) {
		listener.logger = logger
	}
}

func WithDefaults() Option {
	return func(listener *MetricsListener) {
		if listener.logger == nil {
			listener.logger = log.NewNoop()
		}
	}
}

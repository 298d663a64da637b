package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/InVisionApp/go-logger"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"

	health "github.com/hirenkeraliya/go-health"
)

// Stats records measurements for status and duration per check
type Stats struct {
	prefix        string
	logger        log.Logger
	checkDuration *stats.Float64Measure
	checkStatus   *stats.Int64Measure
}

func NewStats(prefix string, logger log.Logger) *Stats {
	trimmed := strings.TrimSpace(prefix)
	if len(trimmed) == 0 {
		trimmed = "health"
	}
	if logger == nil {
		logger = log.NewNoop()
	}
	return &Stats{
		prefix: trimmed,
		logger: logger,
		checkStatus: stats.Int64(
			fmt.Sprintf("%s/status", trimmed),
			"An health status (0/1 for fail/pass)",
			"pass/fail"),
		checkDuration: stats.Float64(
			fmt.Sprintf("%s/execute_time", trimmed),
			"The time it took to execute a checks in ms",
			"ms"),
	}
}

// RecordReport records the duration and status of a single check execution.
// Warnings and skips count as passing; failures and crashes do not.
func (s *Stats) RecordReport(classification string, report health.Report) {
	thisCheckCtx := s.createMonitoringCtx(classification, report.Name, report.Status.String())
	stats.Record(thisCheckCtx, s.checkDuration.M(float64(report.Duration)/float64(time.Millisecond)))
	stats.Record(thisCheckCtx, s.checkStatus.M(status(report.IsHealthy()).asInt64()))
}

// RecordHealth records the status of all results
func (s *Stats) RecordHealth(classification string, healthy bool) {
	value := ValUnhealthy
	if healthy {
		value = ValHealthy
	}
	allChecksCtx := s.createMonitoringCtx(classification, ValAllChecks, value)
	stats.Record(allChecksCtx, s.checkStatus.M(status(healthy).asInt64()))
}

func (s *Stats) createMonitoringCtx(classification, checkName, checkStatus string) context.Context {
	tags := []tag.Mutator{
		tag.Insert(keyCheck, checkName),
		tag.Insert(keyCheckStatus, checkStatus),
	}
	if classification != "" {
		tags = append(tags, tag.Insert(keyClassification, classification))
	}

	ctx, err := tag.New(context.Background(), tags...)
	if err != nil {
		// tag values are limited to printable ASCII; check names may not be
		s.logger.WithFields(log.Fields{"check": checkName, "error": err.Error()}).Error("metrics context creation failed")
		return context.Background()
	}

	return ctx
}

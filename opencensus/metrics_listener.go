package opencensus

import (
	log "github.com/InVisionApp/go-logger"
	"go.opencensus.io/stats/view"

	health "github.com/hirenkeraliya/go-health"
	"github.com/hirenkeraliya/go-health/internal/metrics"
)

// ValAllChecks is the check tag value of the aggregated health measurement
const ValAllChecks = metrics.ValAllChecks

// MetricsListener reports metrics on each check completion (as health.CheckListener)
// This listener also reports metrics for the entire service health (as health.HealthListener)
type MetricsListener struct {
	classification string
	prefix         string
	logger         log.Logger
	stats          *metrics.Stats
	views          *metrics.Views
}

var (
	_ health.CheckListener  = (*MetricsListener)(nil)
	_ health.HealthListener = (*MetricsListener)(nil)
)

func NewMetricsListener(opts ...Option) *MetricsListener {
	listener := &MetricsListener{}

	for _, opt := range append(opts, WithDefaults()) {
		opt(listener)
	}
	listener.stats = metrics.NewStats(listener.prefix, listener.logger)
	listener.views = metrics.NewViews(listener.classification, listener.stats)

	return listener
}

// DefaultViews returns the views to register with view.Register for this listener's measurements
func (c *MetricsListener) DefaultViews() []*view.View {
	return c.views.DefaultViews
}

// ViewCheckExecutionTime is the checks execution time aggregation tagged by check name
func (c *MetricsListener) ViewCheckExecutionTime() *view.View {
	return c.views.ViewCheckExecutionTime
}

// ViewCheckCountByNameAndStatus is the checks execution count aggregation grouped by check name, and check status
func (c *MetricsListener) ViewCheckCountByNameAndStatus() *view.View {
	return c.views.ViewCheckCountByNameAndStatus
}

// ViewCheckStatusByName is the checks status aggregation tagged by check name
func (c *MetricsListener) ViewCheckStatusByName() *view.View {
	return c.views.ViewCheckStatusByName
}

func (c *MetricsListener) OnCheckRegistered(_ string) {
}

func (c *MetricsListener) OnCheckSkipped(_ string, _ error) {
}

func (c *MetricsListener) OnCheckStarted(_ string) {
}

func (c *MetricsListener) OnCheckCompleted(_ string, report health.Report) {
	c.stats.RecordReport(c.classification, report)
}

func (c *MetricsListener) OnResultsUpdated(results map[string]health.Report) {
	healthy := true
	for _, report := range results {
		healthy = healthy && report.IsHealthy()
	}
	c.stats.RecordHealth(c.classification, healthy)
}

package metrics

import (
	"strings"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Views groups the views fed by the measures of a Stats.
// Every view is tagged by check name and, when one is set, by classification.
type Views struct {
	classification string
	stats          *Stats

	// ViewCheckExecutionTime distributes run durations, in ms, per check.
	ViewCheckExecutionTime *view.View

	// ViewCheckCountByNameAndStatus counts runs per check and reported status ("ok", "failed", ...).
	// The aggregated health shows up as check "all_checks" with status "healthy" or "unhealthy".
	ViewCheckCountByNameAndStatus *view.View

	// ViewCheckStatusByName keeps the last pass (1) or fail (0) of every check.
	ViewCheckStatusByName *view.View

	// DefaultViews holds all of the above, ready for view.Register.
	DefaultViews []*view.View
}

// run durations in ms; checks mostly probe remote endpoints
var executionTimeBuckets = []float64{0, 1, 2, 3, 4, 6, 8, 10, 13, 16, 20, 25, 30, 40, 50, 65, 80, 100, 120, 160, 200, 250, 300, 500}

func NewViews(classification string, s *Stats) *Views {
	v := &Views{
		classification: strings.TrimSpace(classification),
		stats:          s,
	}

	v.ViewCheckExecutionTime = v.newView("execute_time", "Check run duration in ms",
		s.checkDuration, view.Distribution(executionTimeBuckets...))
	v.ViewCheckCountByNameAndStatus = v.newView("check_count_by_name_and_status", "Check runs by reported status",
		s.checkStatus, view.Count(), keyCheckStatus)
	v.ViewCheckStatusByName = v.newView("check_status_by_name", "Last pass/fail of every check",
		s.checkStatus, view.LastValue())
	v.DefaultViews = []*view.View{v.ViewCheckExecutionTime, v.ViewCheckCountByNameAndStatus, v.ViewCheckStatusByName}

	return v
}

func (v *Views) newView(name, description string, measure stats.Measure, aggregation *view.Aggregation, extraKeys ...tag.Key) *view.View {
	keys := []tag.Key{keyCheck}
	if v.classification != "" {
		keys = append(keys, keyClassification)
	}

	return &view.View{
		Name:        v.stats.prefix + "/" + name,
		Description: description,
		Measure:     measure,
		TagKeys:     append(keys, extraKeys...),
		Aggregation: aggregation,
	}
}

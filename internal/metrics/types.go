package metrics

import "go.opencensus.io/tag"

const (
	// ValAllChecks is the value used for the check tags when tagging all tests
	ValAllChecks = "all_checks"
	// ValHealthy and ValUnhealthy are the status tag values of the aggregated health
	ValHealthy   = "healthy"
	ValUnhealthy = "unhealthy"
)

var (
	keyCheck, _          = tag.NewKey("check")
	keyCheckStatus, _    = tag.NewKey("check_status")
	keyClassification, _ = tag.NewKey("classification")
)

type status bool

func (s status) asInt64() int64 {
	if s {
		return 1
	}
	return 0
}

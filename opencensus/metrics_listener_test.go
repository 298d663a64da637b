package opencensus

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats/view"

	health "github.com/hirenkeraliya/go-health"
	"github.com/hirenkeraliya/go-health/checks"
)

const (
	successMsg = "success"
	failedMsg  = "failed"

	failingCheckName = "failing.check"
	passingCheckName = "passing.check"
	warningCheckName = "warning.check"
)

func TestHealthMetrics(t *testing.T) {
	listener := NewMetricsListener(WithPrefix("test_health"))
	require.NoError(t, view.Register(listener.DefaultViews()...))
	defer view.Unregister(listener.DefaultViews()...)

	runChecks(t, listener)

	checksStatusData := simplifyRows(t, listener.ViewCheckStatusByName().Name)
	assert.Equal(t, 4, len(checksStatusData), "num status rows")
	assert.Equal(t, &view.LastValueData{Value: 0}, checksStatusData[ValAllChecks], "all check status")
	assert.Equal(t, &view.LastValueData{Value: 0}, checksStatusData[failingCheckName], "failing check status")
	assert.Equal(t, &view.LastValueData{Value: 1}, checksStatusData[passingCheckName], "passing check status")
	assert.Equal(t, &view.LastValueData{Value: 1}, checksStatusData[warningCheckName], "warning check status")

	checksCountData := simplifyRows(t, listener.ViewCheckCountByNameAndStatus().Name)
	assert.Equal(t, 4, len(checksCountData), "num count rows")
	assert.Equal(t, &view.CountData{Value: 2}, checksCountData[ValAllChecks+".unhealthy"], "all checks fail count")
	assert.Equal(t, &view.CountData{Value: 2}, checksCountData[failingCheckName+".failed"], "failing check fail count")
	assert.Equal(t, &view.CountData{Value: 2}, checksCountData[passingCheckName+".ok"], "passing check pass count")
	assert.Equal(t, &view.CountData{Value: 2}, checksCountData[warningCheckName+".warning"], "warning check count")

	checksTimeData := simplifyRows(t, listener.ViewCheckExecutionTime().Name)
	assert.Equal(t, 3, len(checksTimeData), "num timing rows")
	for _, name := range []string{passingCheckName, failingCheckName, warningCheckName} {
		assert.Equal(t, int64(2), checksTimeData[name].(*view.DistributionData).Count, "%s timing measurement count", name)
	}
}

func TestHealthMetricsWithClassification(t *testing.T) {
	for _, tt := range []struct {
		option         Option
		classification string
	}{
		{WithLivenessClassification(), "liveness"},
		{WithReadinessClassification(), "readiness"},
		{WithStartupClassification(), "startup"},
		{WithClassification("custom"), "custom"},
	} {
		t.Run(tt.classification, func(t *testing.T) {
			listener := NewMetricsListener(tt.option, WithPrefix("test_"+tt.classification))
			require.NoError(t, view.Register(listener.DefaultViews()...))
			defer view.Unregister(listener.DefaultViews()...)

			runChecks(t, listener)

			rows, err := view.RetrieveData(listener.ViewCheckStatusByName().Name)
			require.NoError(t, err)
			require.NotEmpty(t, rows)
			for _, row := range rows {
				classification := ""
				for _, tag := range row.Tags {
					if tag.Key.Name() == "classification" {
						classification = tag.Value
					}
				}
				assert.Equal(t, tt.classification, classification)
			}
		})
	}
}

func runChecks(t *testing.T, listener *MetricsListener) {
	h := health.New(health.WithCheckListeners(listener), health.WithHealthListeners(listener))
	require.NoError(t, h.Register(
		checks.NewCustomCheck(passingCheckName, func(ctx context.Context) health.Result {
			return health.OK(successMsg)
		}),
		checks.NewCustomCheck(failingCheckName, func(ctx context.Context) health.Result {
			return health.Failed(failedMsg)
		}),
		checks.NewCustomCheck(warningCheckName, func(ctx context.Context) health.Result {
			return health.Warning(successMsg)
		}),
	))
	defer h.DeregisterAll()

	now := time.Now()
	h.RunDue(context.Background(), now)
	h.RunDue(context.Background(), now.Add(time.Minute))
}

func simplifyRows(t *testing.T, viewName string) map[string]view.AggregationData {
	rows, err := view.RetrieveData(viewName)
	require.NoError(t, err)

	simpleData := make(map[string]view.AggregationData)
	for _, row := range rows {
		var values []string
		for _, tag := range row.Tags {
			if tag.Key.Name() == "classification" {
				continue
			}
			values = append(values, tag.Value)
		}
		simpleData[strings.Join(values, ".")] = row.Data
	}

	return simpleData
}

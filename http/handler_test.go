package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	health "github.com/hirenkeraliya/go-health"
	"github.com/hirenkeraliya/go-health/checks"
	"github.com/hirenkeraliya/go-health/test/helper"
)

const (
	chkName = "check1"
)

func TestHandleHealthJSON_longFormatNoChecks(t *testing.T) {
	h := health.New()
	resp := execReq(h, true, false)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode, "status when no checks are registered")
	assert.Equal(t, "{}\n", string(body), "body when no checks are registered")
}

func TestHandleHealthJSON_shortFormatNoChecks(t *testing.T) {
	h := health.New()
	resp := execReq(h, false, false)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode, "status when no checks are registered")
	assert.Equal(t, "{}\n", string(body), "body when no checks are registered")
}

func TestHandleHealthJSON_longFormatPassingCheck(t *testing.T) {
	checkWaiter := helper.NewCheckWaiter()
	h := health.New(health.WithCheckListeners(checkWaiter))

	require.NoError(t, h.RegisterCheck(createCheck(chkName, true)), "Failed to register check")
	defer h.DeregisterAll()

	resp := execReq(h, true, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "status before first run")
	assert.Equal(t, &response{}, unmarshalLongFormat(resp.Body), "body before first run")

	go h.RunDue(context.Background(), time.Now())
	assert.NoError(t, checkWaiter.AwaitChecksCompletion(chkName))

	resp = execReq(h, true, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "status after first run")

	respMsg := unmarshalLongFormat(resp.Body)
	assert.Equal(t, chkName, respMsg.Check1.Name)
	assert.Equal(t, "Check1", respMsg.Check1.Label)
	assert.Equal(t, "ok", respMsg.Check1.Status)
	assert.Equal(t, "pass", respMsg.Check1.Message)
	assert.Equal(t, int64(0), respMsg.Check1.ContiguousFailures)
}

func TestHandleHealthJSON_shortFormatFailingCheck(t *testing.T) {
	h := health.New()

	require.NoError(t, h.RegisterCheck(createCheck(chkName, false)), "Failed to register check")
	defer h.DeregisterAll()

	resp := execReq(h, false, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "status before first run")
	assert.Equal(t, map[string]string{}, unmarshalShortFormat(resp.Body), "body before first run")

	resp = execReq(h, false, true)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "status of a fresh failing run")
	assert.Equal(t, map[string]string{chkName: "failed"}, unmarshalShortFormat(resp.Body), "body of a fresh failing run")
}

func TestHandleHealthJSON_freshRunsEveryCheck(t *testing.T) {
	h := health.New()

	var runs int32
	check := checks.NewCustomCheck(chkName, func(ctx context.Context) health.Result {
		atomic.AddInt32(&runs, 1)
		return health.OK("pass")
	})
	// not due at all; only a fresh request runs it
	check.If(health.Fixed(false))
	require.NoError(t, h.RegisterCheck(check))
	defer h.DeregisterAll()

	resp := execReq(h, false, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{chkName: "ok"}, unmarshalShortFormat(resp.Body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	execReq(h, false, false)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs), "results are served without running")
}

func TestHandleHealthJSON_freshLimit(t *testing.T) {
	h := health.New()

	var runs int32
	check := checks.NewCustomCheck(chkName, func(ctx context.Context) health.Result {
		atomic.AddInt32(&runs, 1)
		return health.OK("pass")
	})
	require.NoError(t, h.RegisterCheck(check))
	defer h.DeregisterAll()

	handler := HandleHealthJSON(h, WithFreshLimit(rate.Every(time.Hour), 1))
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/meh?"+ParamFresh+"=true", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs), "only the first fresh request runs the checks")
}

func TestHandleHealthJSON_terminatesChecks(t *testing.T) {
	h := health.New()

	first := &terminatingCheck{CustomCheck: createCheck("first", true)}
	second := &terminatingCheck{CustomCheck: createCheck("second", false)}
	require.NoError(t, h.Register(first, second))
	defer h.DeregisterAll()

	execReq(h, true, true)
	execReq(h, false, false)

	assert.Equal(t, int32(2), atomic.LoadInt32(&first.terminated))
	assert.Equal(t, int32(2), atomic.LoadInt32(&second.terminated))
	assert.True(t, first.flushed, "response is flushed before terminating")
}

type terminatingCheck struct {
	*checks.CustomCheck
	terminated int32
	flushed    bool
}

func (c *terminatingCheck) OnTerminate(_ *http.Request, w http.ResponseWriter) {
	atomic.AddInt32(&c.terminated, 1)
	if recorder, ok := w.(*httptest.ResponseRecorder); ok {
		c.flushed = recorder.Flushed
	}
}

func unmarshalShortFormat(r io.Reader) map[string]string {
	respMsg := make(map[string]string)
	_ = json.NewDecoder(r).Decode(&respMsg)
	return respMsg
}

func unmarshalLongFormat(r io.Reader) *response {
	var respMsg response
	_ = json.NewDecoder(r).Decode(&respMsg)
	return &respMsg
}

func createCheck(name string, passing bool) *checks.CustomCheck {
	return checks.NewCustomCheck(name, func(ctx context.Context) health.Result {
		if passing {
			return health.OK("pass")
		}
		return health.Failed("failing")
	})
}

func execReq(h health.Health, longFormat, fresh bool) *http.Response {
	var path = "/meh?"
	if !longFormat {
		path = fmt.Sprintf("%stype=%s&", path, ReportTypeShort)
	}
	if fresh {
		path = fmt.Sprintf("%s%s=true", path, ParamFresh)
	}

	handler := HandleHealthJSON(h)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	return w.Result()
}

type response struct {
	Check1 checkResult `json:"check1"`
}

type checkResult struct {
	Name               string `json:"name"`
	Label              string `json:"label"`
	Status             string `json:"status"`
	Message            string `json:"message"`
	ContiguousFailures int64  `json:"contiguousFailures"`
}

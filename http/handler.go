package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	health "github.com/hirenkeraliya/go-health"
)

const (
	// ReportTypeShort is the value to be passed in the request parameter `type` when a short response is desired.
	ReportTypeShort = "short"
	// ParamFresh is the request parameter that, when true, runs every check before rendering the results.
	ParamFresh = "fresh"
)

// HandlerOption configures HandleHealthJSON.
type HandlerOption func(*handler)

type handler struct {
	freshLimiter *rate.Limiter
}

// WithFreshLimit limits how often `fresh=true` requests actually run the checks.
// Requests over the limit are answered with the last known results.
func WithFreshLimit(limit rate.Limit, burst int) HandlerOption {
	return func(h *handler) {
		h.freshLimiter = rate.NewLimiter(limit, burst)
	}
}

func (h *handler) allowFresh() bool {
	return h.freshLimiter == nil || h.freshLimiter.Allow()
}

// HandleHealthJSON returns an HandlerFunc that can be used as an endpoints that exposes the service health.
// Once the response is written, every registered check gets a chance to clean up through OnTerminate.
func HandleHealthJSON(h health.Health, opts ...HandlerOption) http.HandlerFunc {
	cfg := &handler{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, request *http.Request) {
		if fresh, _ := strconv.ParseBool(request.URL.Query().Get(ParamFresh)); fresh && cfg.allowFresh() {
			h.RunAll(request.Context(), time.Now())
		}

		results, healthy := h.Results()
		w.Header().Set("Content-Type", "application/json")
		if healthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "\t")
		var err error
		if request.URL.Query().Get("type") == ReportTypeShort {
			shortResults := make(map[string]string, len(results))
			for k, v := range results {
				shortResults[k] = v.Status.String()
			}

			err = encoder.Encode(shortResults)
		} else {
			err = encoder.Encode(results)
		}

		if err != nil {
			_, _ = w.Write([]byte(fmt.Sprintf("Failed to render results JSON: %s", err)))
		}

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		for _, check := range h.Checks() {
			check.OnTerminate(request, w)
		}
	}
}

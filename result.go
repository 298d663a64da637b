package health

import (
	"fmt"
	"time"
)

const crashedMessage = "check crashed"

// Result represents the output of a single check execution.
// A Result is a value: the With* modifiers return modified copies and the meta map
// is copied on the way in and on the way out, so a constructed Result never changes.
// The zero value is an OK result with an empty message.
type Result struct {
	status  Status
	message string
	summary string
	meta    map[string]interface{}
	notify  *bool
}

// OK returns a result reporting a healthy check.
func OK(message string) Result {
	return Result{status: StatusOK, message: message}
}

// Warning returns a result reporting a degraded check.
func Warning(message string) Result {
	return Result{status: StatusWarning, message: message}
}

// Failed returns a result reporting an unhealthy check.
func Failed(message string) Result {
	return Result{status: StatusFailed, message: message}
}

// Skipped returns a result for a check that chose not to examine anything.
func Skipped(message string) Result {
	return Result{status: StatusSkipped, message: message}
}

// Crashed returns a result for a check whose own logic faulted.
func Crashed() Result {
	return Result{status: StatusCrashed, message: crashedMessage}
}

// Status of the result; always one of the enumerated statuses.
func (r Result) Status() Status {
	return r.status
}

// Message is the human readable outcome.
func (r Result) Message() string {
	return r.message
}

// Summary is a short form of the message, e.g. "95%" for a disk check.
// Defaults to the status name.
func (r Result) Summary() string {
	if r.summary == "" {
		return r.status.String()
	}

	return r.summary
}

// Meta returns a copy of the diagnostic key-value pairs, nil when there are none.
func (r Result) Meta() map[string]interface{} {
	return copyMeta(r.meta)
}

// Notify reports whether the result should be sent to notification channels.
// Unless overridden with WithNotify, warnings, failures and crashes notify.
func (r Result) Notify() bool {
	if r.notify != nil {
		return *r.notify
	}

	return r.status == StatusWarning || r.status.IsFailure()
}

// WithMeta returns a copy of r with meta merged into its metadata.
func (r Result) WithMeta(meta map[string]interface{}) Result {
	if len(meta) == 0 {
		return r
	}

	merged := make(map[string]interface{}, len(r.meta)+len(meta))
	for k, v := range r.meta {
		merged[k] = v
	}
	for k, v := range meta {
		merged[k] = v
	}
	r.meta = merged

	return r
}

// WithSummary returns a copy of r with the given short summary.
func (r Result) WithSummary(summary string) Result {
	r.summary = summary
	return r
}

// WithNotify returns a copy of r with the notification decision overridden.
func (r Result) WithNotify(notify bool) Result {
	r.notify = &notify
	return r
}

func (r Result) String() string {
	return fmt.Sprintf("Result{status: %s, message: %s, meta: %v}", r.status, r.message, r.meta)
}

// Report is a Result bound to the check that produced it, in the shape handed to
// persistence, presentation and notification collaborators.
type Report struct {
	Name    string                 `json:"name"`
	Label   string                 `json:"label"`
	Status  Status                 `json:"status"`
	Message string                 `json:"message"`
	Summary string                 `json:"summary,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
	Notify  bool                   `json:"notify"`
	// the time the execution started
	Timestamp time.Time `json:"timestamp"`
	// the execution duration
	Duration time.Duration `json:"duration,omitempty"`
	// the number of failed or crashed executions in a row
	ContiguousFailures int64 `json:"contiguousFailures"`
	// the time of the initial transitional failure
	TimeOfFirstFailure *time.Time `json:"timeOfFirstFailure,omitempty"`
}

// NewReport binds result to the identity of check.
func NewReport(check Check, result Result) Report {
	return Report{
		Name:    check.Name(),
		Label:   check.Label(),
		Status:  result.Status(),
		Message: result.Message(),
		Summary: result.Summary(),
		Meta:    result.Meta(),
		Notify:  result.Notify(),
	}
}

// IsHealthy is false for failed and crashed reports.
func (r Report) IsHealthy() bool {
	return !r.Status.IsFailure()
}

// State is the terminal state of the execution that produced the report.
func (r Report) State() State {
	if r.Status == StatusCrashed {
		return StateCrashed
	}

	return StateCompleted
}

func (r Report) String() string {
	return fmt.Sprintf("Report{name: %s, status: %s, message: %s, time: %s, contiguousFailures: %d, timeOfFirstFailure: %v}",
		r.Name, r.Status, r.Message, r.Timestamp, r.ContiguousFailures, r.TimeOfFirstFailure)
}

func copyMeta(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return nil
	}

	cp := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		cp[k] = v
	}

	return cp
}

package health

import (
	"github.com/pkg/errors"
)

// Status is the outcome class of a single check execution.
// The zero value is StatusOK.
type Status uint8

const (
	// StatusOK means the checked property is healthy.
	StatusOK Status = iota
	// StatusWarning means the check ran and found a degraded but tolerable condition.
	StatusWarning
	// StatusFailed means the check ran and found an unhealthy condition.
	StatusFailed
	// StatusSkipped means the check decided on its own not to examine anything this time.
	StatusSkipped
	// StatusCrashed means the check itself faulted; nothing is known about the checked property.
	StatusCrashed
)

var statusNames = [...]string{
	StatusOK:      "ok",
	StatusWarning: "warning",
	StatusFailed:  "failed",
	StatusSkipped: "skipped",
	StatusCrashed: "crashed",
}

// Statuses lists every valid status.
func Statuses() []Status {
	return []Status{StatusOK, StatusWarning, StatusFailed, StatusSkipped, StatusCrashed}
}

// ParseStatus returns the status with the given name.
func ParseStatus(name string) (Status, error) {
	for _, s := range Statuses() {
		if statusNames[s] == name {
			return s, nil
		}
	}

	return 0, errors.Errorf("unknown status %q", name)
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	return int(s) < len(statusNames)
}

// IsFailure is true for failed and crashed.
func (s Status) IsFailure() bool {
	return s == StatusFailed || s == StatusCrashed
}

func (s Status) String() string {
	if !s.Valid() {
		return "invalid"
	}

	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Errorf("invalid status %d", s)
	}

	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names are rejected.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

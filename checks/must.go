package checks

import (
	health "github.com/hirenkeraliya/go-health"
)

// Must is a helper that wraps a call to a function returning (health.Check, error) and panics if the error is non-nil.
// It also panics when the check carries a configuration error, such as an invalid schedule.
func Must[T health.Check](check T, err error) T {
	if err != nil {
		panic(err)
	}
	if v, ok := interface{}(check).(interface{ Err() error }); ok && v.Err() != nil {
		panic(v.Err())
	}

	return check
}

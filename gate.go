package health

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/hirenkeraliya/go-health/schedule"
)

// Gate holds everything a check needs besides its own Run logic: identity, schedule and
// run condition. Concrete checks embed a *Gate and implement Run:
//
//	type DiskSpaceCheck struct {
//		*health.Gate
//	}
//
//	func NewDiskSpaceCheck() *DiskSpaceCheck {
//		c := &DiskSpaceCheck{}
//		c.Gate = health.NewGate(c)
//		return c
//	}
//
// The setters are meant for configuration time and return the Gate for chaining.
// They must not be called while ShouldRun may run concurrently.
type Gate struct {
	typeName string
	name     string
	label    string

	source      string
	expression  schedule.Expression
	scheduleErr error

	condition Condition
}

// NewGate returns a Gate scheduled every minute, with no run condition.
// The default name is derived from the dynamic type of owner, typically the check embedding the Gate.
func NewGate(owner interface{}) *Gate {
	return &Gate{
		typeName: typeName(owner),
		source:   schedule.EveryMinuteExpression,
	}
}

// SetName overrides the name derived from the owner type.
func (g *Gate) SetName(name string) *Gate {
	g.name = name
	return g
}

// SetLabel overrides the label derived from the name.
func (g *Gate) SetLabel(label string) *Gate {
	g.label = label
	return g
}

// Name identifies the check; results are keyed by it.
func (g *Gate) Name() string {
	if g.name != "" {
		return g.name
	}

	return defaultName(g.typeName)
}

// Label is the human readable name of the check.
func (g *Gate) Label() string {
	if g.label != "" {
		return g.label
	}

	return defaultLabel(g.Name())
}

// Cron replaces the schedule with a 5-field cron expression.
// An invalid expression is kept as the current schedule and reported by Err and ShouldRun.
func (g *Gate) Cron(expression string) *Gate {
	g.source = expression

	parsed, err := schedule.Parse(expression)
	if err != nil {
		g.scheduleErr = err
		return g
	}

	g.expression = parsed
	g.scheduleErr = nil
	return g
}

// Schedule replaces the schedule with the one built by f.
func (g *Gate) Schedule(f schedule.Frequency) *Gate {
	if err := f.Err(); err != nil {
		g.source = f.Expression()
		g.scheduleErr = err
		return g
	}

	return g.Cron(f.Expression())
}

// Expression returns the schedule currently in effect, as set.
func (g *Gate) Expression() string {
	return g.source
}

// Err returns the configuration error of the current schedule, wrapping schedule.ErrInvalidExpression.
func (g *Gate) Err() error {
	return g.scheduleErr
}

// If replaces the run condition with c.
func (g *Gate) If(c Condition) *Gate {
	g.condition = c
	return g
}

// Unless replaces the run condition with the negation of c.
func (g *Gate) Unless(c Condition) *Gate {
	g.condition = c.Not()
	return g
}

// Condition returns the run condition currently in effect.
func (g *Gate) Condition() Condition {
	return g.condition
}

// ShouldRun decides whether the check is due at now.
// The run condition is evaluated first; when it does not hold the schedule is never looked at,
// so a broken schedule behind a false condition produces no error.
func (g *Gate) ShouldRun(now time.Time) (bool, error) {
	if !g.condition.Evaluate() {
		return false, nil
	}

	if g.scheduleErr != nil {
		return false, errors.WithMessagef(g.scheduleErr, "check %q", g.Name())
	}

	return g.expression.IsDue(now), nil
}

// NextRun returns the next instant after now at which the schedule is due, ignoring the run condition.
func (g *Gate) NextRun(now time.Time) (time.Time, error) {
	if g.scheduleErr != nil {
		return time.Time{}, g.scheduleErr
	}

	return g.expression.Next(now), nil
}

// MarkAsCrashed returns the result substituted for a check whose Run panicked.
func (g *Gate) MarkAsCrashed() Result {
	return Crashed()
}

// OnTerminate is called by the HTTP layer after the response was written. It does nothing by default.
func (g *Gate) OnTerminate(_ *http.Request, _ http.ResponseWriter) {}

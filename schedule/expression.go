package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// EveryMinuteExpression is the default schedule of a check.
const EveryMinuteExpression = "* * * * *"

// ErrInvalidExpression is the cause of every error returned for an expression that cannot be parsed.
// Callers test for it with errors.Is.
var ErrInvalidExpression = errors.New("invalid schedule expression")

// standard 5-field cron with the predefined @-descriptors; seconds are not supported
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

var everyMinute = MustParse(EveryMinuteExpression)

// Expression is a parsed, validated cron expression.
// The zero value is equivalent to EveryMinuteExpression.
// An Expression is immutable and safe for concurrent use.
type Expression struct {
	source string
	spec   *cron.SpecSchedule
}

// Parse validates a 5-field cron expression.
// Predefined descriptors such as @hourly or @daily are accepted, @every is not since it has no
// minute aligned meaning. A CRON_TZ= (or TZ=) prefix pins the evaluation time zone; without it
// the zone of the evaluated instant is used.
func Parse(expression string) (Expression, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return Expression{}, errors.Wrap(ErrInvalidExpression, "expression must not be empty")
	}

	sched, err := parser.Parse(sundayAsZero(trimmed))
	if err != nil {
		return Expression{}, errors.Wrapf(ErrInvalidExpression, "%q: %s", expression, err)
	}

	spec, ok := sched.(*cron.SpecSchedule)
	if !ok {
		return Expression{}, errors.Wrapf(ErrInvalidExpression, "%q: interval descriptors are not supported", expression)
	}

	return Expression{source: trimmed, spec: spec}, nil
}

// sundayAsZero rewrites 7 in the day-of-week field to 0, which is the only Sunday the parser knows.
// Ranges ending in 7 are split: "5-7" becomes "5-6,0".
func sundayAsZero(expression string) string {
	fields := strings.Fields(expression)
	prefix := ""
	if len(fields) > 0 && (strings.HasPrefix(fields[0], "CRON_TZ=") || strings.HasPrefix(fields[0], "TZ=")) {
		prefix, fields = fields[0]+" ", fields[1:]
	}
	if len(fields) != 5 {
		return expression
	}

	items := strings.Split(fields[4], ",")
	for i, item := range items {
		items[i] = sundayItemAsZero(item)
	}
	fields[4] = strings.Join(items, ",")

	return prefix + strings.Join(fields, " ")
}

func sundayItemAsZero(item string) string {
	if item == "7" {
		return "0"
	}

	span, step, stepped := strings.Cut(item, "/")
	low, high, ranged := strings.Cut(span, "-")
	if !ranged || high != "7" {
		return item
	}
	from, err := strconv.Atoi(low)
	if err != nil || from < 0 || from > 7 {
		return item
	}

	if !stepped {
		if from == 7 {
			return "0"
		}
		return low + "-6,0"
	}

	every, err := strconv.Atoi(step)
	if err != nil || every <= 0 {
		return item
	}
	var days []string
	for d := from; d <= 7; d += every {
		days = append(days, strconv.Itoa(d%7))
	}

	return strings.Join(days, ",")
}

// MustParse is like Parse but panics when the expression is invalid.
// It is meant for package level variables holding constant expressions.
func MustParse(expression string) Expression {
	e, err := Parse(expression)
	if err != nil {
		panic(err)
	}

	return e
}

// IsDue parses expression and reports whether it is due at instant.
func IsDue(expression string, instant time.Time) (bool, error) {
	e, err := Parse(expression)
	if err != nil {
		return false, err
	}

	return e.IsDue(instant), nil
}

// IsDue reports whether the expression matches instant, truncated to the minute.
// When both day-of-month and day-of-week are restricted, matching either one is enough.
func (e Expression) IsDue(instant time.Time) bool {
	minute := instant.Truncate(time.Minute)
	// Next returns the first activation strictly after its argument
	return e.schedule().Next(minute.Add(-time.Second)).Equal(minute)
}

// Next returns the first instant after t at which the expression is due,
// or the zero time if it never will be within the next five years.
func (e Expression) Next(t time.Time) time.Time {
	return e.schedule().Next(t)
}

func (e Expression) String() string {
	if e.spec == nil {
		return EveryMinuteExpression
	}

	return e.source
}

func (e Expression) schedule() *cron.SpecSchedule {
	if e.spec == nil {
		return everyMinute.spec
	}

	return e.spec
}

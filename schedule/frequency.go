package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	minuteField = iota
	hourField
	domField
	monthField
	dowField
)

// Frequency builds a cron expression out of readable steps.
// Every step returns a modified copy, so a Frequency can be shared and extended freely:
//
//	schedule.Daily().At("13:30").Weekdays() // "30 13 * * 1-5"
//
// Invalid arguments do not panic; the first one is kept and reported by Err.
type Frequency struct {
	fields [5]string
	err    error
}

func newFrequency() Frequency {
	return Frequency{fields: [5]string{"*", "*", "*", "*", "*"}}
}

// EveryMinute runs on every minute.
func EveryMinute() Frequency {
	return newFrequency()
}

// EveryTwoMinutes runs on every even minute.
func EveryTwoMinutes() Frequency {
	return newFrequency().splice(minuteField, "*/2")
}

// EveryThreeMinutes runs every three minutes.
func EveryThreeMinutes() Frequency {
	return newFrequency().splice(minuteField, "*/3")
}

// EveryFourMinutes runs every four minutes.
func EveryFourMinutes() Frequency {
	return newFrequency().splice(minuteField, "*/4")
}

// EveryFiveMinutes runs every five minutes.
func EveryFiveMinutes() Frequency {
	return newFrequency().splice(minuteField, "*/5")
}

// EveryTenMinutes runs every ten minutes.
func EveryTenMinutes() Frequency {
	return newFrequency().splice(minuteField, "*/10")
}

// EveryFifteenMinutes runs every quarter of an hour.
func EveryFifteenMinutes() Frequency {
	return newFrequency().splice(minuteField, "*/15")
}

// EveryThirtyMinutes runs on the hour and on the half hour.
func EveryThirtyMinutes() Frequency {
	return newFrequency().splice(minuteField, "0,30")
}

// Hourly runs at the top of every hour.
func Hourly() Frequency {
	return HourlyAt(0)
}

// HourlyAt runs every hour at the given minute.
func HourlyAt(minute int) Frequency {
	f := newFrequency()
	if minute < 0 || minute > 59 {
		return f.fail(errors.Errorf("minute %d is out of range [0, 59]", minute))
	}

	return f.splice(minuteField, strconv.Itoa(minute))
}

// EveryTwoHours runs at the top of every second hour.
func EveryTwoHours() Frequency {
	return Hourly().splice(hourField, "*/2")
}

// EveryThreeHours runs at the top of every third hour.
func EveryThreeHours() Frequency {
	return Hourly().splice(hourField, "*/3")
}

// EveryFourHours runs at the top of every fourth hour.
func EveryFourHours() Frequency {
	return Hourly().splice(hourField, "*/4")
}

// EverySixHours runs at the top of every sixth hour.
func EverySixHours() Frequency {
	return Hourly().splice(hourField, "*/6")
}

// Daily runs at midnight.
func Daily() Frequency {
	return newFrequency().splice(minuteField, "0").splice(hourField, "0")
}

// DailyAt runs every day at the given "HH:MM" (or "HH") time.
func DailyAt(at string) Frequency {
	return newFrequency().At(at)
}

// TwiceDaily runs at the top of the two given hours.
func TwiceDaily(first, second int) Frequency {
	f := newFrequency()
	for _, h := range []int{first, second} {
		if h < 0 || h > 23 {
			return f.fail(errors.Errorf("hour %d is out of range [0, 23]", h))
		}
	}

	return f.splice(minuteField, "0").splice(hourField, strconv.Itoa(first)+","+strconv.Itoa(second))
}

// Weekly runs on Sunday at midnight.
func Weekly() Frequency {
	return Daily().splice(dowField, "0")
}

// WeeklyOn runs once a week on the given day and "HH:MM" time.
func WeeklyOn(day time.Weekday, at string) Frequency {
	return DailyAt(at).Days(day)
}

// Monthly runs on the first day of every month at midnight.
func Monthly() Frequency {
	return Daily().splice(domField, "1")
}

// MonthlyOn runs on the given day of the month and "HH:MM" time.
func MonthlyOn(dayOfMonth int, at string) Frequency {
	f := DailyAt(at)
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return f.fail(errors.Errorf("day of month %d is out of range [1, 31]", dayOfMonth))
	}

	return f.splice(domField, strconv.Itoa(dayOfMonth))
}

// Quarterly runs at midnight on the first day of every quarter.
func Quarterly() Frequency {
	return Monthly().splice(monthField, "1-12/3")
}

// Yearly runs at midnight on January first.
func Yearly() Frequency {
	return Monthly().splice(monthField, "1")
}

// At sets the hour and minute, given as "HH:MM" or "HH".
func (f Frequency) At(at string) Frequency {
	parts := strings.Split(strings.TrimSpace(at), ":")
	if len(parts) > 2 {
		return f.fail(errors.Errorf("time %q must look like HH:MM", at))
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return f.fail(errors.Errorf("time %q has an invalid hour", at))
	}

	minute := 0
	if len(parts) == 2 {
		minute, err = strconv.Atoi(parts[1])
		if err != nil || minute < 0 || minute > 59 {
			return f.fail(errors.Errorf("time %q has an invalid minute", at))
		}
	}

	return f.splice(hourField, strconv.Itoa(hour)).splice(minuteField, strconv.Itoa(minute))
}

// Days restricts the frequency to the given days of the week.
func (f Frequency) Days(days ...time.Weekday) Frequency {
	if len(days) == 0 {
		return f.fail(errors.New("at least one day is required"))
	}

	values := make([]string, 0, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return f.fail(errors.Errorf("weekday %d is out of range", d))
		}
		values = append(values, strconv.Itoa(int(d)))
	}

	return f.splice(dowField, strings.Join(values, ","))
}

// Weekdays restricts the frequency to Monday through Friday.
func (f Frequency) Weekdays() Frequency {
	return f.splice(dowField, "1-5")
}

// Weekends restricts the frequency to Saturday and Sunday.
func (f Frequency) Weekends() Frequency {
	return f.splice(dowField, "6,0")
}

func (f Frequency) Mondays() Frequency    { return f.Days(time.Monday) }
func (f Frequency) Tuesdays() Frequency   { return f.Days(time.Tuesday) }
func (f Frequency) Wednesdays() Frequency { return f.Days(time.Wednesday) }
func (f Frequency) Thursdays() Frequency  { return f.Days(time.Thursday) }
func (f Frequency) Fridays() Frequency    { return f.Days(time.Friday) }
func (f Frequency) Saturdays() Frequency  { return f.Days(time.Saturday) }
func (f Frequency) Sundays() Frequency    { return f.Days(time.Sunday) }

// Expression returns the resolved cron expression.
func (f Frequency) Expression() string {
	return strings.Join(f.fields[:], " ")
}

// Err returns the first invalid argument passed while building the frequency.
// It wraps ErrInvalidExpression.
func (f Frequency) Err() error {
	return f.err
}

func (f Frequency) String() string {
	return f.Expression()
}

func (f Frequency) splice(field int, value string) Frequency {
	f.fields[field] = value
	return f
}

func (f Frequency) fail(err error) Frequency {
	if f.err == nil {
		f.err = errors.Wrap(ErrInvalidExpression, err.Error())
	}

	return f
}

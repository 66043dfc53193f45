package domain

import (
	"strconv"
	"strings"
	"time"
)

const oneDay = 24 * time.Hour

// DateOnly strips the time-of-day and location from an instant, returning a
// comparable calendar-date value (midnight UTC). All dates handed between
// the period engine, the ticker and the store are normalized this way.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Localize converts a UTC instant (normally a message's send time) into the
// user's local wall-clock time. Delegates to the timezone database so DST
// transitions are handled correctly.
func Localize(instantUTC time.Time, loc *time.Location) time.Time {
	return instantUTC.In(loc)
}

// ParseTimezone resolves a user-supplied timezone argument. Accepts the
// common US shorthands before falling back to IANA names.
func ParseTimezone(value string) (*time.Location, error) {
	name := strings.TrimSpace(value)
	switch strings.ToLower(name) {
	case "pst":
		name = "US/Pacific"
	case "est":
		name = "US/Eastern"
	case "cst":
		name = "US/Central"
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &BadTimezoneError{Value: value}
	}
	return loc, nil
}

// PreviousSunday walks backward from date to the most recent Sunday,
// returning date itself when it already is one. Every week identifier in
// the system is produced here: tickers are anchored to the Sunday turnips
// were purchased on.
func PreviousSunday(date time.Time) time.Time {
	candidate := DateOnly(date)
	for candidate.Weekday() != time.Sunday {
		candidate = candidate.Add(-oneDay)
	}
	return candidate
}

// ParseDateArg parses a "month/day" or "month/day/year" token relative to
// the user's local reference time.
//
// When the year is omitted and the nominal date lands in the future, the
// date is reinterpreted as last year's: users report prices that already
// happened. An explicitly supplied future year is a genuine error.
func ParseDateArg(arg string, refLocal time.Time) (time.Time, error) {
	parts := strings.Split(arg, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, &ImaginaryDateError{Value: arg}
	}

	numbers := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return time.Time{}, &ImaginaryDateError{Value: arg}
		}
		numbers[i] = n
	}

	month, day := numbers[0], numbers[1]

	yearExplicit := len(numbers) == 3
	year := refLocal.Year()
	if yearExplicit {
		year = numbers[2]
		if year < 100 {
			year += 2000
		}
	}

	date, ok := makeDate(year, month, day)
	if !ok {
		return time.Time{}, &ImaginaryDateError{Value: arg}
	}

	refDate := DateOnly(refLocal)
	if date.After(refDate) {
		if yearExplicit {
			return time.Time{}, &FutureDateError{Value: arg}
		}
		date, ok = makeDate(year-1, month, day)
		if !ok {
			return time.Time{}, &ImaginaryDateError{Value: arg}
		}
	}

	return date, nil
}

// makeDate builds a calendar date, reporting false for dates time.Date would
// silently normalize (month=2, day=30 and the like).
func makeDate(year, month, day int) (time.Time, bool) {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(date.Month()) != month || date.Day() != day || date.Year() != year {
		return time.Time{}, false
	}
	return date, true
}

// DeducePriceDate resolves the calendar date a price belongs to: an explicit
// date argument when given, otherwise the date component of the user's local
// message time.
func DeducePriceDate(dateArg string, refLocal time.Time) (time.Time, error) {
	if dateArg != "" {
		return ParseDateArg(dateArg, refLocal)
	}
	return DateOnly(refLocal), nil
}

// DeduceTimeOfDay resolves the AM/PM half of a price period.
//
// Sundays have a single buy-in period and always resolve to nil. An
// explicit argument wins. Otherwise, when the price is for "today" the half
// is inferred from the local hour. A historical weekday price with no
// explicit argument is an error rather than a guess.
func DeduceTimeOfDay(amPMArg string, priceDate, refLocal time.Time) (*TimeOfDay, error) {
	if priceDate.Weekday() == time.Sunday {
		return nil, nil
	}

	if amPMArg != "" {
		tod, err := ParseTimeOfDay(amPMArg)
		if err != nil {
			return nil, err
		}
		return &tod, nil
	}

	if DateOnly(priceDate).Equal(DateOnly(refLocal)) {
		tod := AM
		if refLocal.Hour() > 12 {
			tod = PM
		}
		return &tod, nil
	}

	return nil, &TimeOfDayRequiredError{Date: priceDate}
}

// SundayPhase is the phase-index sentinel for the Sunday buy-in period,
// which never occupies one of the 12 weekday slots.
const SundayPhase = -1

// PhaseIndex maps a (date, time of day) period to its slot in the weekly
// ticker: weekday*2 + timeOfDay, with Monday=0 through Saturday=5. Sundays
// return SundayPhase. A nil time of day on any other day is an error.
func PhaseIndex(date time.Time, timeOfDay *TimeOfDay) (int, error) {
	if date.Weekday() == time.Sunday {
		return SundayPhase, nil
	}
	if timeOfDay == nil {
		return 0, &TimeOfDayRequiredError{Date: date}
	}
	weekday := int(date.Weekday()) - 1 // Monday=0 .. Saturday=5
	return weekday*2 + int(*timeOfDay), nil
}

// ValidatePeriod rejects the one inexpressible period: a non-Sunday date
// with no time of day. Called defensively before a period is persisted or
// reported.
func ValidatePeriod(date time.Time, timeOfDay *TimeOfDay) error {
	if date.Weekday() != time.Sunday && timeOfDay == nil {
		return &TimeOfDayRequiredError{Date: date}
	}
	return nil
}

// IsCurrentPeriod reports whether the described price period is the one the
// reference instant falls within. Updates to past periods are recorded but
// must never broadcast; this predicate is the gate.
func IsCurrentPeriod(refLocal time.Time, priceDate time.Time, timeOfDay *TimeOfDay) bool {
	if !DateOnly(refLocal).Equal(DateOnly(priceDate)) {
		return false
	}
	if priceDate.Weekday() == time.Sunday {
		// Sundays have a single period, so a matching date is enough.
		return true
	}
	if timeOfDay == nil {
		return false
	}
	if refLocal.Hour() < 12 {
		return *timeOfDay == AM
	}
	return *timeOfDay == PM
}

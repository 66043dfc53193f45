package domain

import (
	"fmt"
	"strings"
	"time"
)

// The error types below are the user-recoverable failure modes of command
// processing. They are raised deep in the period engine or the handlers and
// type-switched exactly once, at the command-dispatch boundary, where each
// variant is rendered into an actionable reply for the invoking user.

// BadTimezoneError reports a timezone argument that is not a recognized IANA
// name or shorthand.
type BadTimezoneError struct {
	Value string
}

func (e *BadTimezoneError) Error() string {
	return fmt.Sprintf("unrecognized timezone %q", e.Value)
}

// ImaginaryDateError reports a date argument that does not exist on the
// calendar, like 2/30.
type ImaginaryDateError struct {
	Value string
}

func (e *ImaginaryDateError) Error() string {
	return fmt.Sprintf("date %q does not exist", e.Value)
}

// FutureDateError reports a date argument with an explicit year that has not
// happened yet. Year-less future dates are rolled back a year instead.
type FutureDateError struct {
	Value string
}

func (e *FutureDateError) Error() string {
	return fmt.Sprintf("date %q has not happened yet", e.Value)
}

// TimeOfDayRequiredError reports a historical weekday price update missing an
// AM/PM argument. Guessing would silently corrupt historical data.
type TimeOfDayRequiredError struct {
	Date time.Time
}

func (e *TimeOfDayRequiredError) Error() string {
	return fmt.Sprintf(
		"time of day required for historical price on %s",
		e.Date.Format("2006-01-02"),
	)
}

// UnknownUserTimezoneError reports an operation that needs a user's timezone
// before the user has supplied one.
type UnknownUserTimezoneError struct {
	DiscordID string
}

func (e *UnknownUserTimezoneError) Error() string {
	return fmt.Sprintf("timezone for user %s is not set", e.DiscordID)
}

// NoBulletinChannelError reports a server that has no bulletin channel
// configured. It is reported privately to the triggering user so one
// server's configuration state never leaks into another server's channel.
type NoBulletinChannelError struct {
	ServerID   string
	ServerName string
}

func (e *NoBulletinChannelError) Error() string {
	return fmt.Sprintf("server %s has no bulletin channel", e.ServerID)
}

// BulkError collects independent failures from a fan-out operation so each
// can be reported through the normal single-error path.
type BulkError struct {
	Errs []error
}

func (e *BulkError) Error() string {
	parts := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(e.Errs), strings.Join(parts, "; "))
}

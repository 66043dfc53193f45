package domain

import "time"

// Clock supplies the current instant. Production code reads time through a
// Clock so tests can substitute a fixed value.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct{ Instant time.Time }

func (c FixedClock) Now() time.Time { return c.Instant }

package domain

import (
	"fmt"
	"strings"
)

// TimeOfDay is the AM/PM half of a selling day. Nook prices change at noon,
// so every day from Monday through Saturday has two price periods.
type TimeOfDay int

const (
	AM TimeOfDay = 0
	PM TimeOfDay = 1
)

// ParseTimeOfDay parses a user-supplied "AM"/"PM" token (case-insensitive).
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "AM":
		return AM, nil
	case "PM":
		return PM, nil
	}
	return AM, fmt.Errorf("%q is not a time of day", value)
}

// TimeOfDayFromPhase returns whether a phase index falls in the morning or
// the afternoon. Even indexes are AM, odd are PM.
func TimeOfDayFromPhase(phaseIndex int) TimeOfDay {
	if phaseIndex%2 == 0 {
		return AM
	}
	return PM
}

func (t TimeOfDay) String() string {
	if t == AM {
		return "AM"
	}
	return "PM"
}

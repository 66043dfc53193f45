package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PhaseCount is the number of weekday sell-price slots in a week: Monday
// through Saturday, AM and PM each.
const PhaseCount = 12

// PhaseInfo is the derived view of a single phase: the price (nil when
// unknown), a display name, the calendar date, and the AM/PM half (nil for
// the Sunday buy-in pseudo-phase). Produced on demand, never persisted.
type PhaseInfo struct {
	Price     *int
	Name      string
	Date      time.Time
	TimeOfDay *TimeOfDay
}

// Ticker holds one user's turnip price observations for one week.
//
// Phases is sparse: an absent entry means "unknown", which is distinct from
// any real price, including zero. The map must never be pre-filled with
// sentinel values.
type Ticker struct {
	// UserID is the internal id of the owning user.
	UserID uuid.UUID
	// WeekOf is the Sunday anchoring the week, as produced by PreviousSunday.
	WeekOf time.Time

	// PurchasePrice is the Sunday Daisy Mae buy-in price. It is a separate
	// slot from the 12 sell phases and has no AM/PM half.
	PurchasePrice *int

	// Phases maps phase index (0..11) to the observed sell price.
	Phases map[int]int

	// FinalPattern is set once the week's pattern is confirmed unambiguously.
	FinalPattern *Pattern
}

// NewTicker returns an empty, not-yet-persisted ticker for a (user, week)
// pair.
func NewTicker(userID uuid.UUID, weekOf time.Time) *Ticker {
	return &Ticker{
		UserID: userID,
		WeekOf: DateOnly(weekOf),
		Phases: make(map[int]int),
	}
}

// Phase returns the derived info for a phase index in 0..11.
func (t *Ticker) Phase(phaseIndex int) (PhaseInfo, error) {
	if phaseIndex < 0 || phaseIndex >= PhaseCount {
		return PhaseInfo{}, fmt.Errorf("phase index %d out of range [0, %d)", phaseIndex, PhaseCount)
	}

	var price *int
	if p, ok := t.Phases[phaseIndex]; ok {
		price = &p
	}

	tod := TimeOfDayFromPhase(phaseIndex)
	return PhaseInfo{
		Price:     price,
		Name:      PhaseName(phaseIndex),
		Date:      t.PhaseDate(phaseIndex),
		TimeOfDay: &tod,
	}, nil
}

// SetPhase records a price for a phase index, or removes the entry when
// price is nil. Absent entries stay absent; nil never becomes a stored
// placeholder.
func (t *Ticker) SetPhase(phaseIndex int, price *int) error {
	if phaseIndex < 0 || phaseIndex >= PhaseCount {
		return fmt.Errorf("phase index %d out of range [0, %d)", phaseIndex, PhaseCount)
	}
	if t.Phases == nil {
		t.Phases = make(map[int]int)
	}
	if price == nil {
		delete(t.Phases, phaseIndex)
		return nil
	}
	t.Phases[phaseIndex] = *price
	return nil
}

// SetPrice records a price for a (date, time of day) period, routing Sunday
// prices to PurchasePrice and everything else to its phase slot.
func (t *Ticker) SetPrice(price int, date time.Time, timeOfDay *TimeOfDay) error {
	phase, err := PhaseIndex(date, timeOfDay)
	if err != nil {
		return err
	}
	if phase == SundayPhase {
		t.PurchasePrice = &price
		return nil
	}
	return t.SetPhase(phase, &price)
}

// PhaseDate returns the calendar date a phase index falls on.
func (t *Ticker) PhaseDate(phaseIndex int) time.Time {
	return t.WeekOf.Add(time.Duration(phaseIndex/2+1) * oneDay)
}

// AllPhases derives the full week of phase info, Monday AM through Saturday
// PM. The result is computed fresh from the sparse map on every call.
func (t *Ticker) AllPhases() []PhaseInfo {
	infos := make([]PhaseInfo, 0, PhaseCount)
	for i := 0; i < PhaseCount; i++ {
		info, _ := t.Phase(i)
		infos = append(infos, info)
	}
	return infos
}

// PeriodInfo returns the phase info for an arbitrary (date, time of day)
// period, including the Sunday buy-in pseudo-phase.
func (t *Ticker) PeriodInfo(date time.Time, timeOfDay *TimeOfDay) (PhaseInfo, error) {
	phase, err := PhaseIndex(date, timeOfDay)
	if err != nil {
		return PhaseInfo{}, err
	}
	if phase == SundayPhase {
		return PhaseInfo{
			Price: t.PurchasePrice,
			Name:  PhaseName(SundayPhase),
			Date:  DateOnly(date),
		}, nil
	}
	return t.Phase(phase)
}

var phaseDayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// PhaseName returns the display label for a phase index. SundayPhase gets
// the buy-in label.
func PhaseName(phaseIndex int) string {
	if phaseIndex == SundayPhase {
		return "Daisy Mae's Deal"
	}
	return phaseDayNames[phaseIndex/2] + " " + TimeOfDayFromPhase(phaseIndex).String()
}

// PhaseFromDatetime derives the phase index for a local instant, inferring
// AM/PM from the hour. Returns SundayPhase on Sundays.
func PhaseFromDatetime(local time.Time) int {
	if local.Weekday() == time.Sunday {
		return SundayPhase
	}
	tod := AM
	if local.Hour() >= 12 {
		tod = PM
	}
	phase, _ := PhaseIndex(local, &tod)
	return phase
}

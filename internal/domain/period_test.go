package domain

import (
	"errors"
	"testing"
	"time"
)

// helper: build a date value the way the engine normalizes them
func date(t *testing.T, y int, m time.Month, d int) time.Time {
	t.Helper()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPreviousSunday(t *testing.T) {
	// 2020-05-10 was a Sunday.
	sunday := date(t, 2020, time.May, 10)

	for offset := 0; offset < 7; offset++ {
		d := sunday.Add(time.Duration(offset) * 24 * time.Hour)
		got := PreviousSunday(d)
		if !got.Equal(sunday) {
			t.Fatalf("PreviousSunday(%s): want %s, got %s", d, sunday, got)
		}
		if got.Weekday() != time.Sunday {
			t.Fatalf("PreviousSunday(%s) is not a Sunday", d)
		}
		// idempotent
		if !PreviousSunday(got).Equal(got) {
			t.Fatalf("PreviousSunday not idempotent for %s", d)
		}
	}
}

func TestParseDateArg_SameYearPast(t *testing.T) {
	ref := time.Date(2020, time.May, 10, 9, 0, 0, 0, time.UTC)
	got, err := ParseDateArg("4/14", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(t, 2020, time.April, 14); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestParseDateArg_YearlessFutureRollsBack(t *testing.T) {
	ref := time.Date(2021, time.January, 10, 9, 0, 0, 0, time.UTC)
	got, err := ParseDateArg("4/5", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(t, 2020, time.April, 5); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestParseDateArg_ExplicitFutureYearErrors(t *testing.T) {
	ref := time.Date(2020, time.May, 10, 9, 0, 0, 0, time.UTC)
	_, err := ParseDateArg("4/5/2021", ref)

	var futureErr *FutureDateError
	if !errors.As(err, &futureErr) {
		t.Fatalf("want FutureDateError, got %v", err)
	}
}

func TestParseDateArg_ImaginaryDate(t *testing.T) {
	ref := time.Date(2020, time.May, 10, 9, 0, 0, 0, time.UTC)

	for _, arg := range []string{"2/30", "13/1", "4/0", "nonsense", "4"} {
		_, err := ParseDateArg(arg, ref)
		var imaginaryErr *ImaginaryDateError
		if !errors.As(err, &imaginaryErr) {
			t.Fatalf("ParseDateArg(%q): want ImaginaryDateError, got %v", arg, err)
		}
	}
}

func TestDeducePriceDate_NoArgUsesReference(t *testing.T) {
	ref := time.Date(2020, time.May, 11, 14, 30, 0, 0, time.UTC)
	got, err := DeducePriceDate("", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(t, 2020, time.May, 11); !got.Equal(want) {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestDeduceTimeOfDay(t *testing.T) {
	// 2020-05-11 was a Monday, 2020-05-10 a Sunday.
	monday := date(t, 2020, time.May, 11)
	sunday := date(t, 2020, time.May, 10)

	t.Run("sunday is always nil", func(t *testing.T) {
		ref := time.Date(2020, time.May, 10, 15, 0, 0, 0, time.UTC)
		tod, err := DeduceTimeOfDay("PM", sunday, ref)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tod != nil {
			t.Fatalf("want nil time of day for sunday, got %v", *tod)
		}
	})

	t.Run("explicit argument wins", func(t *testing.T) {
		ref := time.Date(2020, time.May, 11, 9, 0, 0, 0, time.UTC)
		tod, err := DeduceTimeOfDay("pm", monday, ref)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tod == nil || *tod != PM {
			t.Fatalf("want PM, got %v", tod)
		}
	})

	t.Run("today infers from hour", func(t *testing.T) {
		morning := time.Date(2020, time.May, 11, 10, 0, 0, 0, time.UTC)
		tod, err := DeduceTimeOfDay("", monday, morning)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tod == nil || *tod != AM {
			t.Fatalf("want AM, got %v", tod)
		}

		evening := time.Date(2020, time.May, 11, 19, 0, 0, 0, time.UTC)
		tod, err = DeduceTimeOfDay("", monday, evening)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tod == nil || *tod != PM {
			t.Fatalf("want PM, got %v", tod)
		}
	})

	t.Run("historical weekday requires explicit argument", func(t *testing.T) {
		ref := time.Date(2020, time.May, 13, 10, 0, 0, 0, time.UTC)
		_, err := DeduceTimeOfDay("", monday, ref)

		var todErr *TimeOfDayRequiredError
		if !errors.As(err, &todErr) {
			t.Fatalf("want TimeOfDayRequiredError, got %v", err)
		}
	})
}

func TestPhaseIndex(t *testing.T) {
	sunday := date(t, 2020, time.May, 10)

	phase, err := PhaseIndex(sunday, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if phase != SundayPhase {
		t.Fatalf("want SundayPhase for a sunday, got %d", phase)
	}

	// Injective over the 12 weekday x AM/PM combinations, all in [0, 11].
	seen := make(map[int]bool)
	for dayOffset := 1; dayOffset <= 6; dayOffset++ {
		d := sunday.Add(time.Duration(dayOffset) * 24 * time.Hour)
		for _, tod := range []TimeOfDay{AM, PM} {
			tod := tod
			phase, err := PhaseIndex(d, &tod)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if phase < 0 || phase > 11 {
				t.Fatalf("phase %d out of range for %s %s", phase, d, tod)
			}
			if seen[phase] {
				t.Fatalf("phase %d produced twice", phase)
			}
			seen[phase] = true
		}
	}

	monday := sunday.Add(24 * time.Hour)
	if _, err := PhaseIndex(monday, nil); err == nil {
		t.Fatal("want error for weekday with nil time of day")
	}
}

func TestValidatePeriod(t *testing.T) {
	sunday := date(t, 2020, time.May, 10)
	monday := sunday.Add(24 * time.Hour)

	if err := ValidatePeriod(sunday, nil); err != nil {
		t.Fatalf("sunday with nil time of day should be valid: %v", err)
	}
	if err := ValidatePeriod(monday, nil); err == nil {
		t.Fatal("weekday with nil time of day should be invalid")
	}

	tod := AM
	if err := ValidatePeriod(monday, &tod); err != nil {
		t.Fatalf("weekday with AM should be valid: %v", err)
	}
}

func TestIsCurrentPeriod(t *testing.T) {
	monday := date(t, 2020, time.May, 11)
	am, pm := AM, PM

	mondayMorning := time.Date(2020, time.May, 11, 10, 0, 0, 0, time.UTC)
	mondayEvening := time.Date(2020, time.May, 11, 15, 0, 0, 0, time.UTC)

	if !IsCurrentPeriod(mondayMorning, monday, &am) {
		t.Fatal("monday 10:00 should be inside monday AM")
	}
	if IsCurrentPeriod(mondayMorning, monday, &pm) {
		t.Fatal("monday 10:00 should not be inside monday PM")
	}
	if !IsCurrentPeriod(mondayEvening, monday, &pm) {
		t.Fatal("monday 15:00 should be inside monday PM")
	}

	// A date mismatch is false out of the gate, regardless of time of day.
	tuesday := monday.Add(24 * time.Hour)
	if IsCurrentPeriod(mondayMorning, tuesday, &am) {
		t.Fatal("different dates must never be the current period")
	}

	// Sundays have a single period, so a matching date is enough.
	sunday := date(t, 2020, time.May, 10)
	sundayNoon := time.Date(2020, time.May, 10, 12, 30, 0, 0, time.UTC)
	if !IsCurrentPeriod(sundayNoon, sunday, nil) {
		t.Fatal("sunday with matching date should always be current")
	}
}

func TestParseTimezone(t *testing.T) {
	for arg, want := range map[string]string{
		"pst":              "US/Pacific",
		"EST":              "US/Eastern",
		"cst":              "US/Central",
		"America/New_York": "America/New_York",
	} {
		loc, err := ParseTimezone(arg)
		if err != nil {
			t.Fatalf("ParseTimezone(%q): %v", arg, err)
		}
		if loc.String() != want {
			t.Fatalf("ParseTimezone(%q): want %s, got %s", arg, want, loc)
		}
	}

	_, err := ParseTimezone("Atlantis/Underwater")
	var tzErr *BadTimezoneError
	if !errors.As(err, &tzErr) {
		t.Fatalf("want BadTimezoneError, got %v", err)
	}
}

func TestLocalizeAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}

	// 2020-03-08 07:30 UTC is 02:30 EST standard time... except the clocks
	// sprang forward at 02:00, so it is 03:30 EDT.
	instant := time.Date(2020, time.March, 8, 7, 30, 0, 0, time.UTC)
	local := Localize(instant, loc)
	if local.Hour() != 3 || local.Minute() != 30 {
		t.Fatalf("want 03:30 local, got %02d:%02d", local.Hour(), local.Minute())
	}
}

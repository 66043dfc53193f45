package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/peake100/stalkbroker/internal/domain"
)

func TestParseTickerArgsAnyOrder(t *testing.T) {
	cases := [][]string{
		{"112", "4/14", "AM"},
		{"AM", "112", "4/14"},
		{"4/14", "am", "112"},
	}

	for _, tokens := range cases {
		args, err := parseTickerArgs(tokens)
		if err != nil {
			t.Fatalf("parse %v: %v", tokens, err)
		}
		if args.Price == nil || *args.Price != 112 {
			t.Errorf("parse %v: price = %v, want 112", tokens, args.Price)
		}
		if args.DateArg != "4/14" {
			t.Errorf("parse %v: date = %q, want 4/14", tokens, args.DateArg)
		}
		if got := args.TimeArg; got != "AM" && got != "am" {
			t.Errorf("parse %v: time = %q, want AM", tokens, got)
		}
	}
}

func TestParseTickerArgsOptionalSlots(t *testing.T) {
	args, err := parseTickerArgs([]string{"112"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if args.Price == nil || *args.Price != 112 {
		t.Fatalf("price = %v, want 112", args.Price)
	}
	if args.DateArg != "" || args.TimeArg != "" {
		t.Fatalf("date/time should be empty, got %q / %q", args.DateArg, args.TimeArg)
	}

	args, err = parseTickerArgs(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if args.Price != nil {
		t.Fatal("empty parse should leave price nil")
	}
}

func TestParseTickerArgsYearedDate(t *testing.T) {
	args, err := parseTickerArgs([]string{"4/14/2020"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if args.DateArg != "4/14/2020" {
		t.Fatalf("date = %q, want 4/14/2020", args.DateArg)
	}
}

func TestParseTickerArgsSkipsMentions(t *testing.T) {
	args, err := parseTickerArgs([]string{"<@1234567890>", "4/14"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if args.DateArg != "4/14" || args.Price != nil {
		t.Fatalf("unexpected parse result: %+v", args)
	}
}

func TestParseTickerArgsRejectsGarbageAndDuplicates(t *testing.T) {
	cases := [][]string{
		{"bananas"},
		{"112", "113"},
		{"4/14", "4/15"},
		{"AM", "PM"},
		{"12:30"},
	}

	for _, tokens := range cases {
		_, err := parseTickerArgs(tokens)
		var badArg *badArgumentError
		if !errors.As(err, &badArg) {
			t.Errorf("parse %v: err = %v, want badArgumentError", tokens, err)
		}
	}
}

func TestTickerUpdateReactions(t *testing.T) {
	sunday := time.Date(2020, 4, 12, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2020, 4, 13, 0, 0, 0, 0, time.UTC)
	am := domain.AM
	pm := domain.PM

	cases := []struct {
		name       string
		date       time.Time
		timeOfDay  *domain.TimeOfDay
		historical bool
		want       []string
	}{
		{
			name: "sunday deal",
			date: sunday,
			want: []string{reactDaisyMae},
		},
		{
			name: "weekday morning",
			date: monday, timeOfDay: &am,
			want: []string{reactNook, reactMorning},
		},
		{
			name: "historical evening",
			date: monday, timeOfDay: &pm, historical: true,
			want: []string{reactNook, reactEvening, reactHistoric},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tickerUpdateReactions(tc.date, tc.timeOfDay, tc.historical)
			if len(got) != len(tc.want) {
				t.Fatalf("reactions = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("reactions = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

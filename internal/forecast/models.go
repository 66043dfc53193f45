package forecast

import (
	"github.com/peake100/stalkbroker/internal/domain"
)

// Pattern is the backend service's own price-pattern enum. It is kept
// separate from domain.Pattern and translated through the lookup tables
// below rather than by shared identity, so either side can renumber without
// silently corrupting the other.
type Pattern int32

const (
	PatternUnknown     Pattern = 0
	PatternFluctuating Pattern = 1
	PatternDecreasing  Pattern = 2
	PatternSmallSpike  Pattern = 3
	PatternBigSpike    Pattern = 4
)

var patternFromBackend = map[Pattern]domain.Pattern{
	PatternUnknown:     domain.PatternUnknown,
	PatternFluctuating: domain.PatternFluctuating,
	PatternDecreasing:  domain.PatternDecreasing,
	PatternSmallSpike:  domain.PatternSmallSpike,
	PatternBigSpike:    domain.PatternBigSpike,
}

var patternToBackend = func() map[domain.Pattern]Pattern {
	m := make(map[domain.Pattern]Pattern, len(patternFromBackend))
	for k, v := range patternFromBackend {
		m[v] = k
	}
	return m
}()

// PatternFromBackend translates a backend pattern into the bot's enum.
func PatternFromBackend(p Pattern) domain.Pattern {
	return patternFromBackend[p]
}

// PatternToBackend translates the bot's pattern into the backend enum.
func PatternToBackend(p domain.Pattern) Pattern {
	return patternToBackend[p]
}

// UnknownPrice is the sentinel the backend uses for phases with no
// observation.
const UnknownPrice int32 = -1

// NoCurrentPeriod is the current-period sentinel meaning "no weekday period
// is live" (Sundays).
const NoCurrentPeriod int32 = -1

// Ticker is the normalized representation a week of prices is submitted in.
type Ticker struct {
	// PurchasePrice is the Sunday buy-in price, UnknownPrice when unset.
	PurchasePrice int32 `json:"purchase_price"`
	// Phases holds the 12 weekday sell prices with UnknownPrice sentinels.
	Phases [12]int32 `json:"phases"`
	// PreviousPattern is the confirmed pattern of the prior week.
	PreviousPattern Pattern `json:"previous_pattern"`
	// CurrentPeriod is the live phase index, or NoCurrentPeriod.
	CurrentPeriod int32 `json:"current_period"`
}

// TickerFromDomain converts a domain ticker into the backend representation,
// encoding unknown slots as sentinels.
func TickerFromDomain(t *domain.Ticker, previousPattern domain.Pattern, currentPeriod int) Ticker {
	backendTicker := Ticker{
		PurchasePrice:   UnknownPrice,
		PreviousPattern: PatternToBackend(previousPattern),
		CurrentPeriod:   int32(currentPeriod),
	}
	if t.PurchasePrice != nil {
		backendTicker.PurchasePrice = int32(*t.PurchasePrice)
	}
	for i := range backendTicker.Phases {
		backendTicker.Phases[i] = UnknownPrice
		if price, ok := t.Phases[i]; ok {
			backendTicker.Phases[i] = int32(price)
		}
	}
	return backendTicker
}

// PriceRange bounds the prices a pattern may still produce.
type PriceRange struct {
	Min int32 `json:"min"`
	Max int32 `json:"max"`
}

// SpikeWindow is the inclusive phase-index range a spike can occur in.
type SpikeWindow struct {
	Start int32 `json:"start"`
	End   int32 `json:"end"`
}

// Spikes describes the timing windows for each spike class.
type Spikes struct {
	Small SpikeWindow `json:"small"`
	Big   SpikeWindow `json:"big"`
	Any   SpikeWindow `json:"any"`
}

// PotentialWeek is one still-possible layout of the remaining week under a
// pattern.
type PotentialWeek struct {
	Chance float64      `json:"chance"`
	Prices []PriceRange `json:"prices"`
}

// PotentialPattern is a candidate pattern with its probability and the week
// layouts for which it remains possible.
type PotentialPattern struct {
	Pattern        Pattern         `json:"pattern"`
	Chance         float64         `json:"chance"`
	PotentialWeeks []PotentialWeek `json:"potential_weeks"`
	PricesFuture   PriceRange      `json:"prices_future"`
}

// Forecast is the backend's prediction for a submitted ticker.
type Forecast struct {
	Heat     int32              `json:"heat"`
	Spikes   Spikes             `json:"spikes"`
	Patterns []PotentialPattern `json:"patterns"`
}

// MostLikely returns the candidate pattern with the highest chance, nil when
// the forecast has none.
func (f *Forecast) MostLikely() *PotentialPattern {
	var best *PotentialPattern
	for i := range f.Patterns {
		p := &f.Patterns[i]
		if best == nil || p.Chance > best.Chance {
			best = p
		}
	}
	return best
}

// Candidate returns the entry for a specific backend pattern, nil when
// absent.
func (f *Forecast) Candidate(pattern Pattern) *PotentialPattern {
	for i := range f.Patterns {
		if f.Patterns[i].Pattern == pattern {
			return &f.Patterns[i]
		}
	}
	return nil
}

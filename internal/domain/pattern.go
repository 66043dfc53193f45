package domain

import "fmt"

// Pattern is a categorical weekly price-pattern outcome. It mirrors the
// forecasting backend's enum but is mapped to it through an explicit lookup
// table (internal/forecast), never by shared identity.
type Pattern int

const (
	PatternUnknown Pattern = iota
	PatternFluctuating
	PatternDecreasing
	PatternSmallSpike
	PatternBigSpike
)

func (p Pattern) String() string {
	switch p {
	case PatternUnknown:
		return "unknown"
	case PatternFluctuating:
		return "fluctuating"
	case PatternDecreasing:
		return "decreasing"
	case PatternSmallSpike:
		return "small spike"
	case PatternBigSpike:
		return "big spike"
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// ParsePattern converts a stored pattern name back into a Pattern.
func ParsePattern(value string) (Pattern, error) {
	for _, p := range []Pattern{
		PatternUnknown,
		PatternFluctuating,
		PatternDecreasing,
		PatternSmallSpike,
		PatternBigSpike,
	} {
		if p.String() == value {
			return p, nil
		}
	}
	return PatternUnknown, fmt.Errorf("%q is not a price pattern", value)
}

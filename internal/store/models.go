package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/peake100/stalkbroker/internal/domain"
)

// dateLayout is how calendar dates (week anchors, phase dates) are stored.
const dateLayout = "2006-01-02"

func encodeDate(d time.Time) string {
	return domain.DateOnly(d).Format(dateLayout)
}

func decodeDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode date %q: %w", s, err)
	}
	return d, nil
}

func encodeTimezone(loc *time.Location) sql.NullString {
	if loc == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: loc.String(), Valid: true}
}

func decodeTimezone(ns sql.NullString) (*time.Location, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(ns.String)
	if err != nil {
		return nil, fmt.Errorf("decode timezone %q: %w", ns.String, err)
	}
	return loc, nil
}

func encodePattern(p *domain.Pattern) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: p.String(), Valid: true}
}

func decodePattern(ns sql.NullString) (*domain.Pattern, error) {
	if !ns.Valid {
		return nil, nil
	}
	p, err := domain.ParsePattern(ns.String)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toNullInt64(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func fromNullInt64(ns sql.NullInt64) *int {
	if !ns.Valid {
		return nil
	}
	v := int(ns.Int64)
	return &v
}

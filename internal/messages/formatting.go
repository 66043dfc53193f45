// Package messages renders every user-facing string the broker sends:
// reports, bulletins, confirmations and error replies. It deals only in
// plain values (mentions, display names, domain types) so the transport
// layer stays swappable.
package messages

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MessageDateFormat is how calendar dates appear in replies, e.g.
// "Monday May 11, 2020".
const MessageDateFormat = "Monday Jan 02, 2006"

// kv is an ordered key/value pair for report lines. Order matters in
// reports, so a slice is used instead of a map.
type kv struct {
	Key   string
	Value any
}

// formatReport renders a titled report: a bold header, then "key: value"
// lines, closed with a random memo.
func formatReport(header string, info []kv) string {
	info = append(info, kv{"Memo", randomMemo()})

	lines := []string{fmt.Sprintf("***%s***", titleCase(header))}
	for _, pair := range info {
		value := pair.Value
		if date, ok := value.(time.Time); ok {
			value = date.Format(MessageDateFormat)
		}
		lines = append(lines, fmt.Sprintf("**%s**: %v", titleCase(pair.Key), value))
	}
	lines[1] = ">>> " + lines[1]

	return strings.Join(lines, "\n")
}

// formatBulletin is formatReport with an urgent header.
func formatBulletin(header string, info []kv) string {
	return formatReport(header+"!!!", info)
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// formatChance renders a probability as "62% chance".
func formatChance(chance float64) string {
	return fmt.Sprintf("%d%% chance", int(math.Round(chance*100)))
}

// formatPeriodCount renders a number of price periods as days, e.g.
// 3 periods -> "1 1/2 days".
func formatPeriodCount(periods int) string {
	days := periods / 2
	halfDays := ""
	if periods%2 != 0 {
		halfDays = " 1/2"
	}

	plural := ""
	if days != 1 || halfDays != "" {
		plural = "s"
	}
	return fmt.Sprintf("%d%s day%s", days, halfDays, plural)
}

package discord

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	pricePattern = regexp.MustCompile(`^\d+$`)
	datePattern  = regexp.MustCompile(`^\d{1,2}/\d{1,2}(/\d{2,4})?$`)
	timePattern  = regexp.MustCompile(`(?i)^(am|pm)$`)
)

// tickerArgs is the parsed form of a ticker command's arguments. Price, date
// and time of day may appear in any order; each may appear at most once.
type tickerArgs struct {
	Price   *int
	DateArg string
	TimeArg string
}

// badArgumentError reports a command token that is neither a price, a date,
// a time of day nor a user mention.
type badArgumentError struct {
	Token string
}

func (e *badArgumentError) Error() string {
	return fmt.Sprintf("unrecognized argument %q", e.Token)
}

// parseTickerArgs sorts raw command tokens into price, date and time-of-day
// slots. Mention tokens are skipped here; the transport resolves those
// separately. A duplicate or unrecognized token fails the whole parse.
func parseTickerArgs(tokens []string) (tickerArgs, error) {
	var args tickerArgs

	for _, token := range tokens {
		switch {
		case strings.HasPrefix(token, "<@"):
			// User mention, resolved from the message metadata.

		case pricePattern.MatchString(token):
			if args.Price != nil {
				return tickerArgs{}, &badArgumentError{Token: token}
			}
			price, err := strconv.Atoi(token)
			if err != nil {
				return tickerArgs{}, &badArgumentError{Token: token}
			}
			args.Price = &price

		case datePattern.MatchString(token):
			if args.DateArg != "" {
				return tickerArgs{}, &badArgumentError{Token: token}
			}
			args.DateArg = token

		case timePattern.MatchString(token):
			if args.TimeArg != "" {
				return tickerArgs{}, &badArgumentError{Token: token}
			}
			args.TimeArg = token

		default:
			return tickerArgs{}, &badArgumentError{Token: token}
		}
	}

	return args, nil
}

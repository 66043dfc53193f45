package messages

import (
	"fmt"
	"time"

	"github.com/peake100/stalkbroker/internal/domain"
	"github.com/peake100/stalkbroker/internal/forecast"
)

// ReportTicker renders a user's weekly market report: the Daisy Mae buy-in
// price followed by every phase up to and including the request date. Future
// phases are never shown.
func ReportTicker(
	displayName string,
	weekOf time.Time,
	ticker *domain.Ticker,
	requestDateLocal time.Time,
) string {
	info := []kv{
		{"Market", displayName},
		{"Week of", weekOf.Format("01/02")},
	}

	if ticker.PurchasePrice == nil {
		info = append(info, kv{domain.PhaseName(domain.SundayPhase), "?"})
	} else {
		info = append(info, kv{domain.PhaseName(domain.SundayPhase), *ticker.PurchasePrice})
	}

	requestDate := domain.DateOnly(requestDateLocal)
	for _, phase := range ticker.AllPhases() {
		if phase.Date.After(requestDate) {
			break
		}
		if phase.Price == nil {
			info = append(info, kv{phase.Name, "?"})
		} else {
			info = append(info, kv{phase.Name, *phase.Price})
		}
	}

	return formatReport("market report", info)
}

// ReportForecast renders the text accompanying a forecast chart: the heat
// score, the most likely high, and any spike windows still ahead of the
// current period.
func ReportForecast(
	mention string,
	ticker *domain.Ticker,
	fc *forecast.Forecast,
	currentPeriod int,
) string {
	return formatReport("market forecast", forecastInfo(mention, ticker, fc, currentPeriod))
}

// BulletinForecast renders the same forecast info as an urgent bulletin for
// servers whose heat threshold was met.
func BulletinForecast(
	mention string,
	ticker *domain.Ticker,
	fc *forecast.Forecast,
	currentPeriod int,
) string {
	return formatBulletin("this market is heating up", forecastInfo(mention, ticker, fc, currentPeriod))
}

// forecastInfo builds the shared key/value lines for forecast reports and
// bulletins.
func forecastInfo(
	mention string,
	ticker *domain.Ticker,
	fc *forecast.Forecast,
	currentPeriod int,
) []kv {
	mostLikely := fc.MostLikely()
	bigSpike := fc.Candidate(forecast.PatternBigSpike)
	smallSpike := fc.Candidate(forecast.PatternSmallSpike)

	period := int32(currentPeriod)
	hasBig := bigSpike != nil && len(bigSpike.PotentialWeeks) > 0 && period <= fc.Spikes.Big.End
	hasSmall := smallSpike != nil && len(smallSpike.PotentialWeeks) > 0 && period <= fc.Spikes.Small.End

	info := []kv{
		{"Market", mention},
		{"Week of", ticker.WeekOf.Format("01/02/06")},
		{"Heat", fc.Heat},
	}

	if mostLikely != nil {
		info = append(info, kv{
			"Likely high",
			fmt.Sprintf("%d (%s)", mostLikely.PricesFuture.Max, formatChance(mostLikely.Chance)),
		})
	}
	if hasBig {
		info = append(info, kv{
			"Big spike",
			fmt.Sprintf("%d (%s)", bigSpike.PricesFuture.Max, formatChance(bigSpike.Chance)),
		})
	}
	if hasSmall {
		info = append(info, kv{
			"Small spike",
			fmt.Sprintf("%d (%s)", smallSpike.PricesFuture.Max, formatChance(smallSpike.Chance)),
		})
	}

	if (hasBig || hasSmall) && period <= fc.Spikes.Any.End {
		earliest := fc.Spikes.Any.Start - period
		if earliest < 0 {
			earliest = 0
		}
		info = append(info, kv{"Soonest spike", formatPeriodCount(int(earliest))})
	}

	return info
}

package discord

import (
	"bytes"
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/peake100/stalkbroker/internal/domain"
	"github.com/peake100/stalkbroker/internal/forecast"
	"github.com/peake100/stalkbroker/internal/messages"
)

// chartFileName is the attachment name for rendered forecast charts.
const chartFileName = "forecast.png"

// handleForecast submits the current week's ticker to the forecast backend
// and replies with a chart plus a text summary of heat and spike windows.
func (r *Router) handleForecast(ctx context.Context, m *discordgo.MessageCreate, _ []string) error {
	user, target, err := r.resolveUser(ctx, m)
	if err != nil {
		return err
	}
	tz, err := userTimezone(user)
	if err != nil {
		return err
	}

	local := domain.Localize(r.messageTime(m), tz)
	weekOf := domain.PreviousSunday(domain.DateOnly(local))
	currentPeriod := domain.PhaseFromDatetime(local)

	ticker, err := r.repo.FetchTicker(ctx, user, weekOf)
	if err != nil {
		return err
	}
	previousPattern, err := r.repo.FetchPreviousPattern(ctx, user, weekOf)
	if err != nil {
		return err
	}

	backendTicker := forecast.TickerFromDomain(ticker, previousPattern, currentPeriod)
	fc, err := r.forecaster.ForecastPrices(ctx, backendTicker)
	if err != nil {
		return err
	}
	chart, err := r.forecaster.ForecastChart(ctx, backendTicker, fc, forecast.DefaultChartOptions())
	if err != nil {
		return err
	}

	// A forecast that has collapsed to a single certain pattern confirms the
	// week, which seeds next week's prior.
	if likely := fc.MostLikely(); likely != nil && likely.Chance >= 1 {
		confirmed := forecast.PatternFromBackend(likely.Pattern)
		if err := r.repo.UpdateTickerPattern(ctx, user, weekOf, confirmed); err != nil {
			r.log.Error("pattern confirmation failed",
				zap.String("user_id", user.DiscordID),
				zap.Error(err),
			)
		}
	}

	r.react(m, reactForecast)

	report := messages.ReportForecast(target.Mention(), ticker, fc, currentPeriod)
	_, err = r.session.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content: report,
		Files: []*discordgo.File{{
			Name:        chartFileName,
			ContentType: "image/png",
			Reader:      bytes.NewReader(chart),
		}},
	})
	return err
}

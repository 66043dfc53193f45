package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/peake100/stalkbroker/internal/domain"
	"github.com/peake100/stalkbroker/internal/messages"
	"github.com/peake100/stalkbroker/internal/metrics"
)

// handleTicker records a price when one is given, otherwise reports the
// requested week's market history.
func (r *Router) handleTicker(ctx context.Context, m *discordgo.MessageCreate, rawArgs []string) error {
	args, err := parseTickerArgs(rawArgs)
	if err != nil {
		return err
	}

	if args.Price == nil {
		return r.fetchTicker(ctx, m, args)
	}
	return r.updateTicker(ctx, m, args)
}

// updateTicker resolves the price's period from the author's local time,
// persists exactly that slot, confirms with reactions and a reply, and
// broadcasts bulletins when the price is live.
func (r *Router) updateTicker(ctx context.Context, m *discordgo.MessageCreate, args tickerArgs) error {
	user, err := r.repo.UpsertUser(ctx, m.Author.ID, m.GuildID)
	if err != nil {
		return err
	}
	tz, err := userTimezone(user)
	if err != nil {
		return err
	}

	local := domain.Localize(r.messageTime(m), tz)
	priceDate, err := domain.DeducePriceDate(args.DateArg, local)
	if err != nil {
		return err
	}
	timeOfDay, err := domain.DeduceTimeOfDay(args.TimeArg, priceDate, local)
	if err != nil {
		return err
	}

	weekOf := domain.PreviousSunday(priceDate)
	ticker, err := r.repo.UpdateTickerPrice(ctx, user, weekOf, priceDate, timeOfDay, *args.Price)
	if err != nil {
		return err
	}
	metrics.PriceUpdatesTotal.Inc()

	r.react(m, tickerUpdateReactions(priceDate, timeOfDay, args.DateArg != "")...)
	r.reply(m, messages.ConfirmationTickerUpdate(
		m.Author.Mention(), *args.Price, priceDate, timeOfDay, local,
	))

	if !domain.IsCurrentPeriod(local, priceDate, timeOfDay) {
		return nil
	}
	return r.broadcastBulletins(ctx, bulletinRequest{
		user:        user,
		displayName: displayName(m.Author, m.Member),
		mention:     m.Author.Mention(),
		price:       *args.Price,
		dateLocal:   priceDate,
		timeOfDay:   timeOfDay,
		ticker:      ticker,
		local:       local,
	})
}

// fetchTicker reports a week's history for the author, or for a mentioned
// user when the market being inspected is someone else's.
func (r *Router) fetchTicker(ctx context.Context, m *discordgo.MessageCreate, args tickerArgs) error {
	user, target, err := r.resolveUser(ctx, m)
	if err != nil {
		return err
	}
	tz, err := userTimezone(user)
	if err != nil {
		return err
	}

	local := domain.Localize(r.messageTime(m), tz)
	requestDate, err := domain.DeducePriceDate(args.DateArg, local)
	if err != nil {
		return err
	}

	weekOf := domain.PreviousSunday(requestDate)
	ticker, err := r.repo.FetchTicker(ctx, user, weekOf)
	if err != nil {
		return err
	}

	var member *discordgo.Member
	if target.ID == m.Author.ID {
		member = m.Member
	}

	r.react(m)
	r.reply(m, messages.ReportTicker(displayName(target, member), weekOf, ticker, requestDate))
	r.log.Debug("ticker reported",
		zap.String("user_id", target.ID),
		zap.Time("week_of", weekOf),
	)
	return nil
}

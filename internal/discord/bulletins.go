package discord

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/peake100/stalkbroker/internal/domain"
	"github.com/peake100/stalkbroker/internal/forecast"
	"github.com/peake100/stalkbroker/internal/messages"
	"github.com/peake100/stalkbroker/internal/metrics"
)

// bulletinRequest carries everything a live price update needs to announce
// itself across a user's communities.
type bulletinRequest struct {
	user        *domain.User
	displayName string
	mention     string
	price       int
	dateLocal   time.Time
	timeOfDay   *domain.TimeOfDay
	ticker      *domain.Ticker
	local       time.Time
}

// broadcastBulletins fans a live price update out to every server the user
// belongs to. The price is already saved by the time this runs, so a
// broadcast failure never loses data. Failures on individual servers are
// collected so the rest still get their bulletin.
func (r *Router) broadcastBulletins(ctx context.Context, req bulletinRequest) error {
	fc, currentPeriod := r.bulletinForecast(ctx, req)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, serverID := range req.user.Servers {
		wg.Add(1)
		go func(serverID string) {
			defer wg.Done()
			if err := r.sendServerBulletins(ctx, serverID, req, fc, currentPeriod); err != nil {
				metrics.BulletinFailuresTotal.Inc()
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(serverID)
	}
	wg.Wait()

	if len(errs) > 0 {
		return &domain.BulkError{Errs: errs}
	}
	return nil
}

// bulletinForecast fetches a forecast for heat bulletins. It is strictly
// best-effort: the price bulletins go out either way.
func (r *Router) bulletinForecast(
	ctx context.Context,
	req bulletinRequest,
) (*forecast.Forecast, int) {
	currentPeriod := domain.PhaseFromDatetime(req.local)

	previousPattern, err := r.repo.FetchPreviousPattern(ctx, req.user, req.ticker.WeekOf)
	if err != nil {
		r.log.Warn("previous pattern lookup failed", zap.Error(err))
		previousPattern = domain.PatternUnknown
	}

	backendTicker := forecast.TickerFromDomain(req.ticker, previousPattern, currentPeriod)
	fc, err := r.forecaster.ForecastPrices(ctx, backendTicker)
	if err != nil {
		r.log.Warn("bulletin forecast unavailable", zap.Error(err))
		return nil, currentPeriod
	}
	return fc, currentPeriod
}

// sendServerBulletins delivers one server's bulletins for a live price
// update, honoring that server's thresholds.
func (r *Router) sendServerBulletins(
	ctx context.Context,
	serverID string,
	req bulletinRequest,
	fc *forecast.Forecast,
	currentPeriod int,
) error {
	server, err := r.repo.UpsertServer(ctx, serverID)
	if err != nil {
		return err
	}
	if server.BulletinChannel == "" {
		return &domain.NoBulletinChannelError{
			ServerID:   serverID,
			ServerName: r.guildName(serverID),
		}
	}

	ping := r.subscriberPing(ctx, serverID, req.user.DiscordID)

	if priceBulletinDue(req.price, server.BulletinMinimum) {
		var bulletin string
		if req.timeOfDay == nil {
			bulletin = messages.BulletinDaisyMaePriceUpdate(req.displayName, req.price, req.dateLocal)
		} else {
			bulletin = messages.BulletinNookPriceUpdate(req.displayName, req.price, req.dateLocal, *req.timeOfDay)
		}
		if err := r.sendBulletin(server.BulletinChannel, ping+bulletin); err != nil {
			return err
		}
	}

	if fc != nil && heatBulletinDue(int(fc.Heat), server.HeatMinimum) {
		bulletin := messages.BulletinForecast(req.mention, req.ticker, fc, currentPeriod)
		if err := r.sendBulletin(server.BulletinChannel, ping+bulletin); err != nil {
			return err
		}
	}

	return nil
}

// priceBulletinDue applies a server's price threshold. The boundary is
// inclusive: a price exactly at the minimum still triggers.
func priceBulletinDue(price, minimum int) bool {
	return price >= minimum
}

// heatBulletinDue applies a server's heat threshold, also inclusive. A zero
// minimum disables heat bulletins for the server.
func heatBulletinDue(heat, minimum int) bool {
	return minimum > 0 && heat >= minimum
}

// subscriberPing builds the mention line for members who subscribed to
// bulletin pings. The triggering user is never pinged about their own price.
func (r *Router) subscriberPing(ctx context.Context, serverID, triggerDiscordID string) string {
	subscribers, err := r.repo.ListSubscribers(ctx, serverID)
	if err != nil {
		r.log.Warn("subscriber lookup failed", zap.String("server_id", serverID), zap.Error(err))
		return ""
	}

	var mentions []string
	for _, discordID := range subscribers {
		if discordID == triggerDiscordID {
			continue
		}
		mentions = append(mentions, "<@"+discordID+">")
	}
	if len(mentions) == 0 {
		return ""
	}
	return strings.Join(mentions, " ") + "\n"
}

func (r *Router) sendBulletin(channelID, content string) error {
	if _, err := r.session.ChannelMessageSend(channelID, content); err != nil {
		return err
	}
	metrics.BulletinsSentTotal.Inc()
	return nil
}

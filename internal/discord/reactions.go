package discord

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/peake100/stalkbroker/internal/domain"
)

// Reaction emoji the broker stamps onto handled messages. The confirmation
// thumbs-up is always added first and awaited, so users see a stable signal
// that the command landed before the flavor reactions trickle in.
const (
	reactConfirm         = "👍"
	reactNook            = "🦝"
	reactDaisyMae        = "🐷"
	reactMorning         = "☀️"
	reactEvening         = "🌒"
	reactHistoric        = "📅"
	reactTimezone        = "🕓"
	reactBulletinChannel = "📈"
	reactBulletinMin     = "💰"
	reactSubscribed      = "📰"
	reactUnsubscribed    = "🔕"
	reactForecast        = "🌧️"
)

// tickerUpdateReactions picks the secondary reactions for a recorded price:
// who sold (Daisy Mae on Sundays, the Nooks otherwise), which half of the
// day, and whether the update backfilled an earlier date.
func tickerUpdateReactions(
	priceDate time.Time,
	timeOfDay *domain.TimeOfDay,
	historical bool,
) []string {
	var reactions []string

	if priceDate.Weekday() == time.Sunday {
		reactions = append(reactions, reactDaisyMae)
	} else {
		reactions = append(reactions, reactNook)
	}

	if timeOfDay != nil {
		if *timeOfDay == domain.AM {
			reactions = append(reactions, reactMorning)
		} else {
			reactions = append(reactions, reactEvening)
		}
	}

	if historical {
		reactions = append(reactions, reactHistoric)
	}

	return reactions
}

// react adds the confirmation reaction and waits for it, then fires the
// secondary reactions concurrently. Reaction failures are logged, never
// surfaced: the command itself already succeeded.
func (r *Router) react(m *discordgo.MessageCreate, secondary ...string) {
	if err := r.session.MessageReactionAdd(m.ChannelID, m.ID, reactConfirm); err != nil {
		r.log.Warn("confirmation reaction failed", zap.Error(err))
		return
	}

	var wg sync.WaitGroup
	for _, emoji := range secondary {
		wg.Add(1)
		go func(emoji string) {
			defer wg.Done()
			if err := r.session.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
				r.log.Warn("secondary reaction failed", zap.Error(err))
			}
		}(emoji)
	}
	wg.Wait()
}

package store

import (
	"context"
	"time"

	"github.com/peake100/stalkbroker/internal/domain"
)

// Repo defines the persistence gateway: idempotent create-or-update
// semantics over users, servers and tickers. Every method is safe to call
// repeatedly; uniqueness is guaranteed by the storage layer's indexes, so
// concurrent first contacts cannot duplicate records.
type Repo interface {
	// UpsertUser finds or creates a user by Discord id. The internal id and
	// Discord id are fixed at creation and never overwritten. When
	// serverDiscordID is non-empty it is added to the user's membership set;
	// pass "" for direct messages.
	UpsertUser(ctx context.Context, discordID, serverDiscordID string) (*domain.User, error)

	// UpdateTimezone sets a user's timezone, creating the user first when
	// they do not exist yet.
	UpdateTimezone(ctx context.Context, discordID, serverDiscordID string, tz *time.Location) error

	// UpdateNotifyOnBulletin flips the bulletin-subscription flag and
	// returns the resulting user record.
	UpdateNotifyOnBulletin(ctx context.Context, discordID, serverDiscordID string, notify bool) (*domain.User, error)

	// ListSubscribers returns the Discord ids of server members who asked to
	// be pinged when bulletins land.
	ListSubscribers(ctx context.Context, serverDiscordID string) ([]string, error)

	// UpsertServer finds or creates a server by Discord id. Mutable server
	// settings are changed only through the narrow setters below.
	UpsertServer(ctx context.Context, discordID string) (*domain.Server, error)

	SetBulletinChannel(ctx context.Context, serverDiscordID, channelID string) (*domain.Server, error)
	SetBulletinMinimum(ctx context.Context, serverDiscordID string, minimum int) (*domain.Server, error)
	SetHeatMinimum(ctx context.Context, serverDiscordID string, minimum int) (*domain.Server, error)

	// FetchTicker returns the stored ticker for (user, week), or a fresh
	// empty in-memory ticker when none exists. Callers must not assume the
	// returned ticker was ever written to storage.
	FetchTicker(ctx context.Context, user *domain.User, weekOf time.Time) (*domain.Ticker, error)

	// UpdateTickerPrice validates the period, then upserts exactly one slot
	// of the (user, week) ticker: the purchase price for Sundays, a single
	// phase otherwise. Concurrent updates to different phases never clobber
	// each other. Returns the resulting ticker.
	UpdateTickerPrice(ctx context.Context, user *domain.User, weekOf, priceDate time.Time, timeOfDay *domain.TimeOfDay, price int) (*domain.Ticker, error)

	// UpdateTickerPattern sets only the final pattern of a week's ticker.
	UpdateTickerPattern(ctx context.Context, user *domain.User, weekOf time.Time, pattern domain.Pattern) error

	// FetchPreviousPattern returns the confirmed pattern of the week before
	// weekOfCurrent, or PatternUnknown when there is none.
	FetchPreviousPattern(ctx context.Context, user *domain.User, weekOfCurrent time.Time) (domain.Pattern, error)

	Close() error
}

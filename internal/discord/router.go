// Package discord wires Discord gateway events to the broker's commands:
// parsing messages, invoking the domain and persistence layers, reacting,
// replying and fanning bulletins out to every community a user belongs to.
package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/peake100/stalkbroker/internal/domain"
	"github.com/peake100/stalkbroker/internal/forecast"
	"github.com/peake100/stalkbroker/internal/metrics"
	"github.com/peake100/stalkbroker/internal/store"
)

// commandPrefix marks a message as a broker command.
const commandPrefix = "$"

// commandTimeout bounds a single command's backend work. Discord handlers
// carry no deadline of their own.
const commandTimeout = 30 * time.Second

// Router dispatches Discord events to command handlers. All collaborators
// are injected so tests can run it against fakes.
type Router struct {
	session    *discordgo.Session
	log        *zap.Logger
	repo       store.Repo
	forecaster *forecast.Client
	clock      domain.Clock
}

// NewRouter creates a Discord router over the given collaborators.
func NewRouter(
	session *discordgo.Session,
	log *zap.Logger,
	repo store.Repo,
	forecaster *forecast.Client,
	clock domain.Clock,
) *Router {
	return &Router{
		session:    session,
		log:        log,
		repo:       repo,
		forecaster: forecaster,
		clock:      clock,
	}
}

// Register attaches the router's event handlers to its session.
func (r *Router) Register() {
	r.session.AddHandler(r.handleMessageCreate)
	r.session.AddHandler(r.handleGuildCreate)
	r.session.AddHandler(r.handleGuildMemberAdd)
}

// handleMessageCreate routes a single incoming message to its command
// handler, timing it and rendering any error at this single boundary.
func (r *Router) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, commandPrefix) {
		return
	}

	fields := strings.Fields(content)
	command := strings.ToLower(strings.TrimPrefix(fields[0], commandPrefix))
	args := fields[1:]

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	start := r.clock.Now()
	var err error

	switch command {
	case "ticker":
		err = r.handleTicker(ctx, m, args)
	case "forecast":
		err = r.handleForecast(ctx, m, args)
	case "timezone":
		err = r.handleTimezone(ctx, m, args)
	case "bulletins_here":
		err = r.handleBulletinsHere(ctx, m)
	case "bulletin_minimum":
		err = r.handleBulletinMinimum(ctx, m, args)
	case "heat_minimum":
		err = r.handleHeatMinimum(ctx, m, args)
	case "subscribe":
		err = r.handleSubscription(ctx, m, true)
	case "unsubscribe":
		err = r.handleSubscription(ctx, m, false)
	default:
		// Not a broker command. Other bots share the prefix namespace.
		return
	}

	metrics.CommandDuration.WithLabelValues(command).Observe(r.clock.Now().Sub(start).Seconds())
	if err != nil {
		metrics.CommandsTotal.WithLabelValues(command, "error").Inc()
		r.renderCommandError(m, err)
		return
	}
	metrics.CommandsTotal.WithLabelValues(command, "ok").Inc()
}

// handleGuildCreate registers a server the first time the gateway announces
// it, which covers both startup replay and live invites.
func (r *Router) handleGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := r.repo.UpsertServer(ctx, g.ID); err != nil {
		r.log.Error("guild registration failed", zap.String("guild_id", g.ID), zap.Error(err))
		return
	}
	r.log.Info("guild registered", zap.String("guild_id", g.ID), zap.String("guild_name", g.Name))
}

// handleGuildMemberAdd registers a user joining a known server so their
// membership set stays current for bulletin fan-out.
func (r *Router) handleGuildMemberAdd(_ *discordgo.Session, member *discordgo.GuildMemberAdd) {
	if member.User == nil || member.User.Bot {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := r.repo.UpsertUser(ctx, member.User.ID, member.GuildID); err != nil {
		r.log.Error("member registration failed",
			zap.String("user_id", member.User.ID),
			zap.String("guild_id", member.GuildID),
			zap.Error(err),
		)
	}
}

// messageTime is the instant a command refers to. The gateway timestamp is
// authoritative; the injected clock only covers payloads that lack one.
func (r *Router) messageTime(m *discordgo.MessageCreate) time.Time {
	if m.Timestamp.IsZero() {
		return r.clock.Now()
	}
	return m.Timestamp.UTC()
}

// reply sends text to the channel the command arrived on.
func (r *Router) reply(m *discordgo.MessageCreate, content string) {
	if _, err := r.session.ChannelMessageSend(m.ChannelID, content); err != nil {
		r.log.Error("reply failed", zap.String("channel_id", m.ChannelID), zap.Error(err))
	}
}

// dm sends text to a user's direct-message channel, creating it on demand.
func (r *Router) dm(userID, content string) {
	channel, err := r.session.UserChannelCreate(userID)
	if err != nil {
		r.log.Error("dm channel creation failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if _, err := r.session.ChannelMessageSend(channel.ID, content); err != nil {
		r.log.Error("dm failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// displayName is the name a user's report should be titled with: their
// server nick when they have one, their account name otherwise.
func displayName(user *discordgo.User, member *discordgo.Member) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// guildName resolves a guild's human name, preferring the session cache.
func (r *Router) guildName(guildID string) string {
	if guild, err := r.session.State.Guild(guildID); err == nil {
		return guild.Name
	}
	if guild, err := r.session.Guild(guildID); err == nil {
		return guild.Name
	}
	return guildID
}

// resolveUser loads the command author, or the single mentioned user when
// the command inspects someone else's market.
func (r *Router) resolveUser(
	ctx context.Context,
	m *discordgo.MessageCreate,
) (*domain.User, *discordgo.User, error) {
	target := m.Author
	if len(m.Mentions) > 0 {
		target = m.Mentions[0]
	}

	user, err := r.repo.UpsertUser(ctx, target.ID, m.GuildID)
	if err != nil {
		return nil, nil, err
	}
	return user, target, nil
}

// userTimezone returns the user's timezone or the error that tells them to
// set one.
func userTimezone(user *domain.User) (*time.Location, error) {
	if user.Timezone == nil {
		return nil, &domain.UnknownUserTimezoneError{DiscordID: user.DiscordID}
	}
	return user.Timezone, nil
}

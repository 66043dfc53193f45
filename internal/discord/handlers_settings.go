package discord

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/peake100/stalkbroker/internal/domain"
	"github.com/peake100/stalkbroker/internal/messages"
)

// guildOnlyError reports a server-configuration command sent from a direct
// message, where there is no server to configure.
type guildOnlyError struct {
	Command string
}

func (e *guildOnlyError) Error() string {
	return fmt.Sprintf("command %q only works inside a server", e.Command)
}

// handleTimezone stores the author's timezone, creating their record on
// first contact.
func (r *Router) handleTimezone(ctx context.Context, m *discordgo.MessageCreate, args []string) error {
	if len(args) != 1 {
		return &badArgumentError{Token: "timezone name required"}
	}

	tz, err := domain.ParseTimezone(args[0])
	if err != nil {
		return err
	}
	if err := r.repo.UpdateTimezone(ctx, m.Author.ID, m.GuildID, tz); err != nil {
		return err
	}

	r.react(m, reactTimezone)
	r.reply(m, messages.ConfirmationTimezone(m.Author.Mention(), tz))
	return nil
}

// handleBulletinsHere marks the channel the command arrived on as the
// server's bulletin channel.
func (r *Router) handleBulletinsHere(ctx context.Context, m *discordgo.MessageCreate) error {
	if m.GuildID == "" {
		return &guildOnlyError{Command: "bulletins_here"}
	}

	if _, err := r.repo.SetBulletinChannel(ctx, m.GuildID, m.ChannelID); err != nil {
		return err
	}

	r.react(m, reactBulletinChannel)
	r.reply(m, messages.ConfirmationBulletinsChannel(m.Author.Mention()))
	return nil
}

// handleBulletinMinimum sets the lowest price worth announcing on this
// server.
func (r *Router) handleBulletinMinimum(ctx context.Context, m *discordgo.MessageCreate, args []string) error {
	minimum, err := parseMinimum(m, "bulletin_minimum", args)
	if err != nil {
		return err
	}

	if _, err := r.repo.SetBulletinMinimum(ctx, m.GuildID, minimum); err != nil {
		return err
	}

	r.react(m, reactBulletinMin)
	r.reply(m, messages.ConfirmationBulletinMinimum(m.Author.Mention(), minimum))
	return nil
}

// handleHeatMinimum sets the lowest forecast heat worth announcing on this
// server.
func (r *Router) handleHeatMinimum(ctx context.Context, m *discordgo.MessageCreate, args []string) error {
	minimum, err := parseMinimum(m, "heat_minimum", args)
	if err != nil {
		return err
	}

	if _, err := r.repo.SetHeatMinimum(ctx, m.GuildID, minimum); err != nil {
		return err
	}

	r.react(m, reactBulletinMin)
	r.reply(m, messages.ConfirmationHeatMinimum(m.Author.Mention(), minimum))
	return nil
}

// handleSubscription flips whether the author gets a ping when bulletins
// land.
func (r *Router) handleSubscription(ctx context.Context, m *discordgo.MessageCreate, notify bool) error {
	if _, err := r.repo.UpdateNotifyOnBulletin(ctx, m.Author.ID, m.GuildID, notify); err != nil {
		return err
	}

	reaction := reactSubscribed
	if !notify {
		reaction = reactUnsubscribed
	}
	r.react(m, reaction)
	r.reply(m, messages.ConfirmationSubscription(m.Author.Mention(), notify))
	return nil
}

// parseMinimum validates the single integer argument of the threshold
// commands.
func parseMinimum(m *discordgo.MessageCreate, command string, args []string) (int, error) {
	if m.GuildID == "" {
		return 0, &guildOnlyError{Command: command}
	}
	if len(args) != 1 {
		return 0, &badArgumentError{Token: "a single number is required"}
	}

	minimum, err := strconv.Atoi(args[0])
	if err != nil || minimum < 0 {
		return 0, &badArgumentError{Token: args[0]}
	}
	return minimum, nil
}

package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/peake100/stalkbroker/internal/domain"
	"github.com/peake100/stalkbroker/internal/forecast"
	"github.com/peake100/stalkbroker/internal/messages"
)

// renderCommandError is the single place a command failure turns into words.
// Handlers return typed errors; everything user-correctable gets a tailored
// public reply, bulletin-channel gaps go to DM, and anything unclassified
// gets a generic public reply with the diagnostics DMed privately.
func (r *Router) renderCommandError(m *discordgo.MessageCreate, err error) {
	mention := m.Author.Mention()

	var (
		badTZ        *domain.BadTimezoneError
		imaginary    *domain.ImaginaryDateError
		future       *domain.FutureDateError
		todRequired  *domain.TimeOfDayRequiredError
		unknownTZ    *domain.UnknownUserTimezoneError
		noBulletin   *domain.NoBulletinChannelError
		bulk         *domain.BulkError
		badArg       *badArgumentError
		guildOnly    *guildOnlyError
		impossible   *forecast.ImpossibleTickerError
		backendError *forecast.BackendError
	)

	switch {
	case errors.As(err, &bulk):
		// Fan-out failures render independently so one server's problem
		// never hides another's.
		for _, sub := range bulk.Errs {
			r.renderCommandError(m, sub)
		}

	case errors.As(err, &badArg):
		r.reply(m, messages.ErrorBadArgument(mention, badArg.Token))

	case errors.As(err, &guildOnly):
		r.reply(m, messages.ErrorGuildOnly(mention))

	case errors.As(err, &badTZ):
		r.reply(m, messages.ErrorBadTimezone(mention, badTZ.Value))

	case errors.As(err, &imaginary):
		r.reply(m, messages.ErrorImaginaryDate(mention, imaginary.Value))

	case errors.As(err, &future):
		r.reply(m, messages.ErrorFutureDate(mention, future.Value))

	case errors.As(err, &todRequired):
		r.reply(m, messages.ErrorTimeOfDayRequired(mention))

	case errors.As(err, &unknownTZ):
		r.reply(m, messages.ErrorUnknownTimezone(mention))

	case errors.As(err, &noBulletin):
		r.dm(m.Author.ID, messages.ErrorNoBulletinChannel(mention, noBulletin.ServerName))

	case errors.As(err, &impossible):
		r.reply(m, messages.ErrorImpossibleTicker(mention))

	case errors.As(err, &backendError):
		r.log.Error("forecast backend failure",
			zap.Int("status", backendError.Status),
			zap.String("code", backendError.Code),
			zap.Error(err),
		)
		r.reply(m, messages.ErrorBackend(mention))

	default:
		r.log.Error("unclassified command failure",
			zap.String("user_id", m.Author.ID),
			zap.String("content", m.Content),
			zap.Error(err),
		)
		r.reply(m, messages.ErrorGeneral(mention))
		r.dm(m.Author.ID, messages.ErrorGeneralDetails(err.Error()))
	}
}

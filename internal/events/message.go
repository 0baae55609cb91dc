// Package events provides event handlers for message events
package events

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/internal/commands/wizard"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/setup"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient, wizards *setup.Manager) {
	client.EventHandler.OnMessageCreate(onMessageCreate(wizards))
}

// onMessageCreate routes a message to a waiting setup wizard first, then to counting
func onMessageCreate(wizards *setup.Manager) discord.MessageCreateHandler {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		defer errors.RecoverMiddleware()()

		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}
		if wizards != nil && answerWizard(s, m, wizards) {
			return
		}
		count(s, m)
	}
}

// answerWizard feeds the message to the author's wizard. It reports whether the
// message was consumed.
func answerWizard(s *discordgo.Session, m *discordgo.MessageCreate, wizards *setup.Manager) bool {
	if _, waiting := wizards.Waiting(m.GuildID, m.Author.ID, m.ChannelID); !waiting {
		return false
	}

	field, channelID, err := wizards.Provide(m.GuildID, m.Author.ID, m.Content)
	var reply string
	switch {
	case err == nil:
		reply = wizard.Confirmation(field, channelID)
	case errors.Is(err, setup.ErrInvalidChannel):
		reply = "❌ Invalid channel."
	case errors.Is(err, setup.ErrStepExpired):
		reply = "⌛ That step timed out, press the button again."
	case errors.Is(err, setup.ErrNotAwaiting), errors.Is(err, setup.ErrNoSession), errors.Is(err, setup.ErrClosed):
		return false
	default:
		logger.Error(fmt.Sprintf("Error en respuesta de setup: %v", err), "Setup")
		return true
	}

	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		logger.Warn(fmt.Sprintf("Error respondiendo al setup: %v", err), "Setup")
	}
	return true
}

// count plays the counting game when the message is in the guild's counting channel
func count(s *discordgo.Session, m *discordgo.MessageCreate) {
	if ledger.Guilds == nil || ledger.Counting == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), discord.OperationTimeout)
	defer cancel()

	settings, err := ledger.Guilds.Get(ctx, m.GuildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error leyendo configuración de %s: %v", m.GuildID, err), "Counting")
		return
	}
	if settings.CountChannel == "" || settings.CountChannel != m.ChannelID {
		return
	}

	parsed := ledger.ParseCount(m.Content)
	if !parsed.OK {
		return
	}

	outcome, _, err := ledger.Counting.Submit(ctx, m.GuildID, m.Author.ID, parsed.Value)
	if err != nil {
		logger.Error(fmt.Sprintf("Error guardando conteo: %v", err), "Counting")
		return
	}

	if outcome == ledger.Accepted {
		react(s, m, "✅")
		return
	}

	react(s, m, "❌")
	if _, err := s.ChannelMessageSendReply(m.ChannelID, ruinedMessage(m.Author.Mention(), parsed.Value, outcome), m.Reference()); err != nil {
		logger.Warn(fmt.Sprintf("Error respondiendo al conteo: %v", err), "Counting")
	}
}

func react(s *discordgo.Session, m *discordgo.MessageCreate, emoji string) {
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
		logger.Debug(fmt.Sprintf("Error agregando reacción: %v", err), "Counting")
	}
}

func ruinedMessage(mention string, value int64, outcome ledger.Outcome) string {
	reason := "**Wrong number.**"
	if outcome == ledger.SameUserTwice {
		reason = "**Same user twice.**"
	}
	return fmt.Sprintf("%s RUINED IT AT **%d**!! Next number is **1**. %s", mention, value, reason)
}

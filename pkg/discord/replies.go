package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
)

// PersistenceFailureMessage is shown when the store could not be read or written
const PersistenceFailureMessage = "❌ Something went wrong saving that, please try again."

// FailureMessage maps store and ledger errors to the reply the user sees
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, database.ErrPersistence):
		return PersistenceFailureMessage
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "❌ You don't have enough money."
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "❌ Invalid amount."
	case errors.Is(err, ledger.ErrCaseNotFound):
		return "❌ Invalid case ID."
	case errors.Is(err, ledger.ErrValidation):
		return "❌ Invalid input."
	}
	return "❌ Something went wrong, please try again."
}

// ReplyFailure logs unexpected errors and answers with FailureMessage
func (ctx *CommandContext) ReplyFailure(err error) error {
	if !errors.Is(err, ledger.ErrValidation) &&
		!errors.Is(err, ledger.ErrInsufficientFunds) &&
		!errors.Is(err, ledger.ErrCaseNotFound) {
		logger.Error("Error en "+ctx.describe()+": "+err.Error(), "Command")
	}
	return ctx.ReplyEphemeral(FailureMessage(err))
}

func (ctx *CommandContext) describe() string {
	switch ctx.Interaction.Type {
	case discordgo.InteractionApplicationCommand:
		return "/" + commandName(ctx.Interaction.ApplicationCommandData())
	case discordgo.InteractionMessageComponent:
		return "componente " + ctx.CustomID()
	}
	return "interacción"
}

// Mention formats a user ID as a mention
func Mention(userID string) string {
	return "<@" + userID + ">"
}

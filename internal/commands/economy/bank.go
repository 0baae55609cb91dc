package economy

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
)

func amountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "amount",
		Description: description,
		Required:    true,
	}
}

// createDepositCommand creates the /deposit command
func createDepositCommand() *discord.Command {
	return discord.NewCommand(
		"deposit",
		"Deposit money into your bank.",
		category,
		depositHandler,
	).WithOptions(amountOption("Amount to deposit, or 'all'"))
}

// createWithdrawCommand creates the /withdraw command
func createWithdrawCommand() *discord.Command {
	return discord.NewCommand(
		"withdraw",
		"Withdraw money from your bank.",
		category,
		withdrawHandler,
	).WithOptions(amountOption("Amount to withdraw, or 'all'"))
}

func depositHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		c, cancel := ctx.Context()
		defer cancel()

		moved, err := move(c, ledger.Balances, ctx.Interaction.GuildID, ctx.User().ID, ctx.GetStringOption("amount"), true)
		if err != nil {
			replyError(ctx, err, "❌ You don't have that much in wallet.")
			return
		}

		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       "🏦 Deposit Successful",
			Description: fmt.Sprintf("You deposited **$%d** into your bank.", moved),
			Color:       0x3498DB,
		})
	}()
	return nil
}

func withdrawHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		c, cancel := ctx.Context()
		defer cancel()

		moved, err := move(c, ledger.Balances, ctx.Interaction.GuildID, ctx.User().ID, ctx.GetStringOption("amount"), false)
		if err != nil {
			replyError(ctx, err, "❌ You don't have that much in bank.")
			return
		}

		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       "🏦 Withdraw Successful",
			Description: fmt.Sprintf("You withdrew **$%d** from your bank.", moved),
			Color:       0x3498DB,
		})
	}()
	return nil
}

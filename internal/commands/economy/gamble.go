package economy

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
)

// createGambleCommand creates the /gamble command
func createGambleCommand() *discord.Command {
	minAmount := 1.0
	return discord.NewCommand(
		"gamble",
		"Gamble money from your wallet.",
		category,
		gambleHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "Amount to gamble",
			Required:    true,
			MinValue:    &minAmount,
		},
	)
}

// gambleHandler handles the /gamble command
func gambleHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		c, cancel := ctx.Context()
		defer cancel()

		res, err := gamble(c, ledger.Balances, ctx.Interaction.GuildID, ctx.User().ID, ctx.GetIntOption("amount"), dice)
		if err != nil {
			replyError(ctx, err, "❌ You don't have that much in wallet.")
			return
		}

		embed := &discordgo.MessageEmbed{
			Title:       "🎰 Gamble Result",
			Description: fmt.Sprintf("You lost **$%d**.", res.Amount),
			Color:       0xE74C3C,
		}
		if res.Won {
			embed.Description = fmt.Sprintf("You won **$%d**!", res.Amount)
			embed.Color = 0x2ECC71
		}
		ctx.ReplyEmbed(embed)
	}()
	return nil
}

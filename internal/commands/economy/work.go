package economy

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
)

// createWorkCommand creates the /work command
func createWorkCommand() *discord.Command {
	return discord.NewCommand(
		"work",
		"Work and earn money.",
		category,
		workHandler,
	)
}

// workHandler handles the /work command
func workHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		c, cancel := ctx.Context()
		defer cancel()

		earned, err := work(c, ledger.Balances, ctx.Interaction.GuildID, ctx.User().ID, dice)
		if err != nil {
			replyError(ctx, err, "❌ You don't have enough money.")
			return
		}

		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       "💼 Work Completed",
			Description: fmt.Sprintf("You worked hard and earned **$%d**!", earned),
			Color:       0x2ECC71,
		})
	}()
	return nil
}

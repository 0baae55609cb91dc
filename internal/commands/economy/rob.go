package economy

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
)

// createRobCommand creates the /rob command
func createRobCommand() *discord.Command {
	return discord.NewCommand(
		"rob",
		"Attempt to rob another user.",
		category,
		robHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "target",
			Description: "User to rob",
			Required:    true,
		},
	)
}

// robHandler handles the /rob command
func robHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		target := ctx.GetUserOption("target")
		if target == nil {
			ctx.ReplyEphemeral("❌ You must specify a target.")
			return
		}
		if target.ID == ctx.User().ID {
			ctx.ReplyEphemeral("❌ You cannot rob yourself.")
			return
		}
		if target.Bot {
			ctx.ReplyEphemeral("❌ You cannot rob a bot.")
			return
		}

		c, cancel := ctx.Context()
		defer cancel()

		res, err := rob(c, ledger.Balances, ctx.Interaction.GuildID, ctx.User().ID, target.ID, dice)
		if err != nil {
			replyError(ctx, err, "❌ You don't have enough money.")
			return
		}

		if res.Success {
			ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Title:       "💰 Robbery Successful",
				Description: fmt.Sprintf("You successfully robbed **%s** for **$%d**!", displayName(target), res.Amount),
				Color:       0x2ECC71,
			})
			return
		}

		desc := fmt.Sprintf("You got caught! Paid **$%d** as penalty.", res.Amount)
		if res.Amount == 0 {
			desc = "You got caught! Luckily your wallet was too empty to pay a penalty."
		}
		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       "❌ Robbery Failed",
			Description: desc,
			Color:       0xE74C3C,
		})
	}()
	return nil
}

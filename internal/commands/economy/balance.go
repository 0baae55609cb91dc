package economy

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
)

// createBalanceCommand creates the /balance command
func createBalanceCommand() *discord.Command {
	return discord.NewCommand(
		"balance",
		"Check your balance.",
		category,
		balanceHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "member",
			Description: "Optional member to check",
			Required:    false,
		},
	)
}

// balanceHandler handles the /balance command
func balanceHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("member")
		if user == nil {
			user = ctx.User()
		}

		c, cancel := ctx.Context()
		defer cancel()

		b, err := ledger.Balances.GetBalance(c, ctx.Interaction.GuildID, user.ID)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}

		ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title: fmt.Sprintf("💰 %s's Balance", displayName(user)),
			Color: 0xF1C40F,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Wallet", Value: fmt.Sprintf("$%d", b.Wallet), Inline: true},
				{Name: "Bank", Value: fmt.Sprintf("$%d", b.Bank), Inline: true},
			},
			Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
		})
	}()
	return nil
}

package mod

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// createBanCommand creates the /ban command
func createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Ban a member from the server.",
		"Moderation",
		banHandler,
	).WithOptions(
		memberOption("User to ban"),
		reasonOption("Reason for ban"),
	).Restricted().
		WithBotPermissions(discordgo.PermissionBanMembers)
}

// banHandler handles the /ban command
func banHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("member")
		if user == nil {
			ctx.ReplyEphemeral("❌ You must specify a member.")
			return
		}
		if user.ID == ctx.User().ID {
			ctx.ReplyEphemeral("❌ You cannot ban yourself.")
			return
		}
		reason := ctx.GetStringOption("reason")

		if err := ctx.Session.GuildBanCreateWithReason(ctx.Interaction.GuildID, user.ID, reason, 0); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo banear a %s: %v", user.ID, err), "Ban")
			ctx.ReplyEphemeral("❌ Cannot ban this user.")
			return
		}

		c, err := record(ctx, models.CaseBan, user.ID, reason, nil)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}
		finish(ctx, c, user.Mention())
	}()
	return nil
}

package mod

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// createKickCommand creates the /kick command
func createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Kick a member from the server.",
		"Moderation",
		kickHandler,
	).WithOptions(
		memberOption("User to kick"),
		reasonOption("Reason for kick"),
	).Restricted().
		WithBotPermissions(discordgo.PermissionKickMembers)
}

// kickHandler handles the /kick command
func kickHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("member")
		if user == nil {
			ctx.ReplyEphemeral("❌ You must specify a member.")
			return
		}
		if user.ID == ctx.User().ID {
			ctx.ReplyEphemeral("❌ You cannot kick yourself.")
			return
		}
		reason := ctx.GetStringOption("reason")

		if err := ctx.Session.GuildMemberDeleteWithReason(ctx.Interaction.GuildID, user.ID, reason); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo expulsar a %s: %v", user.ID, err), "Kick")
			ctx.ReplyEphemeral("❌ Cannot kick this user.")
			return
		}

		c, err := record(ctx, models.CaseKick, user.ID, reason, nil)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}
		finish(ctx, c, user.Mention())
	}()
	return nil
}

package mod

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// createUnbanCommand creates the /unban command
func createUnbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Unban a user by ID.",
		"Moderation",
		unbanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user_id",
			Description: "ID of the user to unban",
			Required:    true,
		},
		reasonOption("Reason for unban"),
	).Restricted().
		WithBotPermissions(discordgo.PermissionBanMembers)
}

// validSnowflake reports whether id looks like a Discord ID
func validSnowflake(id string) bool {
	if id == "" || len(id) > 20 {
		return false
	}
	_, err := strconv.ParseUint(id, 10, 64)
	return err == nil
}

// isNotFound reports whether err is a 404 from the Discord API
func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

// unbanHandler looks the ID up in the ban list before lifting the ban
func unbanHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		userID := strings.TrimSpace(ctx.GetStringOption("user_id"))
		if !validSnowflake(userID) {
			ctx.ReplyEphemeral("❌ Invalid user ID.")
			return
		}
		reason := ctx.GetStringOption("reason")
		guildID := ctx.Interaction.GuildID

		ban, err := ctx.Session.GuildBan(guildID, userID)
		if isNotFound(err) {
			ctx.ReplyEphemeral("❌ User ID not found in ban list.")
			return
		}
		if err != nil {
			logger.Error(fmt.Sprintf("Error consultando el ban de %s: %v", userID, err), "Unban")
			ctx.ReplyEphemeral("❌ Could not check the ban list, please try again.")
			return
		}

		if err := ctx.Session.GuildBanDelete(guildID, userID, discordgo.WithAuditLogReason(reason)); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo desbanear a %s: %v", userID, err), "Unban")
			ctx.ReplyEphemeral("❌ Cannot unban this user.")
			return
		}

		c, err := record(ctx, models.CaseUnban, userID, reason, nil)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}

		target := fmt.Sprintf("%s (`%s`)", discord.Mention(userID), userID)
		if ban.User != nil {
			target = fmt.Sprintf("%s (`%s`)", ban.User.Username, userID)
		}
		finish(ctx, c, target)
	}()
	return nil
}

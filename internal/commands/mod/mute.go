package mod

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// Discord caps timeouts at 28 days
const maxMuteMinutes = 28 * 24 * 60

// createMuteCommand creates the /mute command
func createMuteCommand() *discord.Command {
	minMinutes := 1.0
	return discord.NewCommand(
		"mute",
		"Mute a member.",
		"Moderation",
		muteHandler,
	).WithOptions(
		memberOption("User to mute"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "minutes",
			Description: "Duration in minutes",
			Required:    true,
			MinValue:    &minMinutes,
			MaxValue:    maxMuteMinutes,
		},
		reasonOption("Reason for mute"),
	).Restricted().
		WithBotPermissions(discordgo.PermissionModerateMembers)
}

// muteHandler times the member out and records the case with its duration
func muteHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("member")
		if user == nil {
			ctx.ReplyEphemeral("❌ You must specify a member.")
			return
		}
		if user.ID == ctx.User().ID {
			ctx.ReplyEphemeral("❌ You cannot mute yourself.")
			return
		}

		minutes := int(ctx.GetIntOption("minutes"))
		if minutes < 1 || minutes > maxMuteMinutes {
			ctx.ReplyEphemeral("❌ Invalid duration.")
			return
		}
		reason := ctx.GetStringOption("reason")
		guildID := ctx.Interaction.GuildID

		until := time.Now().Add(time.Duration(minutes) * time.Minute)
		if err := ctx.Session.GuildMemberTimeout(guildID, user.ID, &until, discordgo.WithAuditLogReason(reason)); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo silenciar a %s: %v", user.ID, err), "Mute")
			ctx.ReplyEphemeral("❌ Cannot mute this user.")
			return
		}

		c, err := record(ctx, models.CaseMute, user.ID, reason, &minutes)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}
		finish(ctx, c, user.Mention())

		session := ctx.Session
		time.AfterFunc(time.Until(until), func() {
			defer errors.RecoverMiddleware()()
			sendLog(session, guildID, unmutedEmbed(user.ID))
		})
	}()
	return nil
}

func unmutedEmbed(userID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "✅ User Unmuted",
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: discord.Mention(userID), Inline: true},
			{Name: "Reason", Value: "Mute duration expired", Inline: true},
		},
	}
}

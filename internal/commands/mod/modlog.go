package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), discord.OperationTimeout)
}

func now() string {
	return time.Now().UTC().Format(models.CaseTimeFormat)
}

// actionEmbed is the public reply to a moderation command
func actionEmbed(c models.Case, target string, moderator *discordgo.User) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: c.Type.Title(),
		Color: c.Type.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: target, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Issued by %s • %s", moderator.Username, c.Timestamp),
		},
	}
	if c.Duration != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Duration", Value: fmt.Sprintf("%d minutes", *c.Duration), Inline: true,
		})
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Reason", Value: c.Reason, Inline: true},
		&discordgo.MessageEmbedField{Name: "Case ID", Value: c.CaseID, Inline: true},
	)
	return embed
}

// logEmbed is what the guild's log channel receives for a case
func logEmbed(c models.Case) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: fmt.Sprintf("%s (`%s`)", discord.Mention(c.UserID), c.UserID)},
		{Name: "Moderator", Value: fmt.Sprintf("%s (`%s`)", discord.Mention(c.ModeratorID), c.ModeratorID)},
		{Name: "Reason", Value: c.Reason},
		{Name: "Case ID", Value: c.CaseID},
	}
	if c.Duration != nil {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Duration", Value: fmt.Sprintf("%d minutes", *c.Duration)})
	}
	return &discordgo.MessageEmbed{
		Title:  c.Type.Title(),
		Color:  c.Type.Color(),
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: "Timestamp: " + now()},
	}
}

// sendLog posts embed to the guild's log channel when one is configured
func sendLog(s *discordgo.Session, guildID string, embed *discordgo.MessageEmbed) {
	ctx, cancel := contextWithTimeout()
	defer cancel()

	settings, err := ledger.Guilds.Get(ctx, guildID)
	if err != nil {
		logger.Warn("No se pudo leer la configuración de "+guildID+": "+err.Error(), "ModLog")
		return
	}
	if settings.LogChannel == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(settings.LogChannel, embed); err != nil {
		logger.Warn("No se pudo enviar el log a "+settings.LogChannel+": "+err.Error(), "ModLog")
	}
}

// record stores a case for the invoking moderator
func record(ctx *discord.CommandContext, caseType models.CaseType, userID, reason string, duration *int) (models.Case, error) {
	c, cancel := ctx.Context()
	defer cancel()
	return ledger.Cases.AddCase(c, ctx.Interaction.GuildID, caseType, userID, ctx.User().ID, reason, duration)
}

// finish answers the moderator and mirrors the case to the log channel
func finish(ctx *discord.CommandContext, c models.Case, target string) {
	ctx.ReplyEmbed(actionEmbed(c, target, ctx.User()))
	sendLog(ctx.Session, c.GuildID, logEmbed(c))
}

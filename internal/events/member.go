// Package events provides event handlers for member events
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

const (
	welcomeFallback = 0x1E466F
	leaveFallback   = 0xFF3B3B
)

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildMemberAdd(onGuildMemberAdd)
	client.EventHandler.OnGuildMemberRemove(onGuildMemberRemove)
}

// onGuildMemberAdd is called when a new member joins the server
func onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	defer errors.RecoverMiddleware()()
	logger.Info(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s", m.User.Username, m.GuildID), "Member")

	settings, guild, ok := memberContext(s, m.GuildID)
	if !ok || settings.WelcomeChannel == "" {
		return
	}

	embed := welcomeEmbed(settings, guild.Name, guild.MemberCount, m.User, time.Now().UTC())
	if _, err := s.ChannelMessageSendEmbed(settings.WelcomeChannel, embed); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Member")
	}
}

// onGuildMemberRemove is called when a member leaves the server
func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	defer errors.RecoverMiddleware()()
	logger.Info(fmt.Sprintf("👋 Adiós: %s salió del servidor %s", m.User.Username, m.GuildID), "Member")

	settings, guild, ok := memberContext(s, m.GuildID)
	if !ok || settings.LeaveChannel == "" {
		return
	}

	embed := leaveEmbed(settings, guild.Name, m.User, time.Now().UTC())
	if _, err := s.ChannelMessageSendEmbed(settings.LeaveChannel, embed); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de despedida: %v", err), "Member")
	}
}

// memberContext loads the guild settings and the guild, preferring the state cache
func memberContext(s *discordgo.Session, guildID string) (models.GuildSettings, *discordgo.Guild, bool) {
	if ledger.Guilds == nil {
		return models.GuildSettings{}, nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), discord.OperationTimeout)
	defer cancel()

	settings, err := ledger.Guilds.Get(ctx, guildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error leyendo configuración de %s: %v", guildID, err), "Member")
		return models.GuildSettings{}, nil, false
	}

	guild, err := s.State.Guild(guildID)
	if err != nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error obteniendo servidor: %v", err), "Member")
			return models.GuildSettings{}, nil, false
		}
	}
	return settings, guild, true
}

func welcomeEmbed(settings models.GuildSettings, guildName string, memberCount int, user *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	settings = settings.WithDefaults()
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Welcome to %s!", guildName),
		Description: models.RenderTemplate(settings.WelcomeMessage, user.Mention(), guildName),
		Color:       models.ParseColor(settings.WelcomeColor, welcomeFallback),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("128")},
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Member #%d", memberCount)},
		Timestamp:   now.Format(time.RFC3339),
	}
}

func leaveEmbed(settings models.GuildSettings, guildName string, user *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	settings = settings.WithDefaults()
	return &discordgo.MessageEmbed{
		Title:       "Member Left",
		Description: models.RenderTemplate(settings.LeaveMessage, user.Mention(), guildName),
		Color:       models.ParseColor(settings.LeaveColor, leaveFallback),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("128")},
		Timestamp:   now.Format(time.RFC3339),
	}
}

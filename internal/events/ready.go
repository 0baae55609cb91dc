// Package events provides event handlers for the bot
package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/sourcegraph/conc/pool"
)

// RegisterReadyEvent registers the ready event handler
func RegisterReadyEvent(client *discord.ExtendedClient) {
	client.EventHandler.OnReady(onReady)
}

// onReady is called when the bot successfully connects to Discord
func onReady(s *discordgo.Session, r *discordgo.Ready) {
	now := time.Now().UTC()
	logger.Success(fmt.Sprintf("✅ Bot conectado: %s (%s)", r.User.Username, r.User.ID), "Ready")
	logger.Info(fmt.Sprintf("📊 Conectado a %d servidores", len(r.Guilds)), "Ready")

	if err := s.UpdateGameStatus(0, "/help"); err != nil {
		logger.Error(fmt.Sprintf("Error estableciendo estado: %v", err), "Ready")
	}

	go announceReady(s, r, now)
}

// announceReady posts the ready embed to every configured log channel
func announceReady(s *discordgo.Session, r *discordgo.Ready, now time.Time) {
	defer errors.RecoverMiddleware()()

	if ledger.Guilds == nil {
		return
	}
	embed := readyEmbed(r.User.Username, len(r.Guilds), now)

	p := pool.New().WithMaxGoroutines(5)
	for _, g := range r.Guilds {
		guildID := g.ID
		p.Go(func() {
			ctx, cancel := context.WithTimeout(context.Background(), discord.OperationTimeout)
			defer cancel()

			settings, err := ledger.Guilds.Get(ctx, guildID)
			if err != nil {
				logger.Error(fmt.Sprintf("Error leyendo configuración de %s: %v", guildID, err), "Ready")
				return
			}
			if settings.LogChannel == "" {
				return
			}
			if _, err := s.ChannelMessageSendEmbed(settings.LogChannel, embed); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo enviar el aviso de inicio en %s: %v", guildID, err), "Ready")
			}
		})
	}
	p.Wait()
}

func readyEmbed(username string, guilds int, now time.Time) *discordgo.MessageEmbed {
	startup := now.Format("2006-01-02 15:04:05 UTC")
	return &discordgo.MessageEmbed{
		Title:       "🤖 Elura Utility • Bot Online",
		Description: fmt.Sprintf("Bot **%s** is now online and ready!", username),
		Color:       0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Servers Connected", Value: strconv.Itoa(guilds), Inline: true},
			{Name: "Startup Time", Value: startup, Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Elura Utility • Professional Bot Startup"},
		Timestamp: now.Format(time.RFC3339),
	}
}

package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// createCountCommand creates the /count command
func createCountCommand() *discord.Command {
	return discord.NewCommand(
		"count",
		"Check counting channel stats.",
		category,
		countHandler,
	)
}

// countHandler shows where the counting game stands
func countHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		c, cancel := ctx.Context()
		defer cancel()

		guildID := ctx.Interaction.GuildID
		state, err := ledger.Counting.State(c, guildID)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}
		settings, err := ledger.Guilds.Get(c, guildID)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}

		ctx.ReplyEmbed(countEmbed(state, settings.CountChannel))
	}()
	return nil
}

func countEmbed(state models.CountingState, channelID string) *discordgo.MessageEmbed {
	channel := "Not configured, run /setup"
	if channelID != "" {
		channel = "<#" + channelID + ">"
	}
	last := "Nobody yet"
	if state.LastUserID != "" {
		last = discord.Mention(state.LastUserID)
	}
	return &discordgo.MessageEmbed{
		Title: "🔢 Counting Stats",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: channel},
			{Name: "Current Number", Value: fmt.Sprintf("%d", state.Current), Inline: true},
			{Name: "Next Number", Value: fmt.Sprintf("%d", state.Current+1), Inline: true},
			{Name: "Last Counter", Value: last, Inline: true},
		},
	}
}

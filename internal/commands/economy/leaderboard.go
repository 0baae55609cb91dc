package economy

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/sourcegraph/conc/pool"
)

const leaderboardSize = 10

// createLeaderboardCommand creates the /leaderboard command
func createLeaderboardCommand() *discord.Command {
	return discord.NewCommand(
		"leaderboard",
		"Show wallet leaderboard for this guild.",
		category,
		leaderboardHandler,
	)
}

// leaderboardHandler handles the /leaderboard command
func leaderboardHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		c, cancel := ctx.Context()
		defer cancel()

		rows, err := ledger.Balances.Leaderboard(c, ctx.Interaction.GuildID, leaderboardSize)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}

		names := resolveNames(ctx.Session, ctx.Interaction.GuildID, rows)
		ctx.ReplyEmbed(leaderboardEmbed(rows, names))
	}()
	return nil
}

// resolveNames looks members up concurrently. Members who left keep their ID.
func resolveNames(s *discordgo.Session, guildID string, rows []ledger.Standing) []string {
	names := make([]string, len(rows))
	p := pool.New().WithMaxGoroutines(5)
	for i, row := range rows {
		p.Go(func() {
			names[i] = memberName(s, guildID, row.UserID)
		})
	}
	p.Wait()
	return names
}

func memberName(s *discordgo.Session, guildID, userID string) string {
	m, err := s.State.Member(guildID, userID)
	if err != nil {
		m, err = s.GuildMember(guildID, userID)
	}
	if err != nil || m.User == nil {
		return "User ID " + userID
	}
	if m.Nick != "" {
		return m.Nick
	}
	return displayName(m.User)
}

func leaderboardEmbed(rows []ledger.Standing, names []string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Wallet Leaderboard",
		Color: 0xF1C40F,
	}
	if len(rows) == 0 {
		embed.Description = "Nobody has any money yet."
		return embed
	}
	for i, row := range rows {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", row.Rank, names[i]),
			Value: fmt.Sprintf("$%d", row.Balance.Wallet),
		})
	}
	return embed
}

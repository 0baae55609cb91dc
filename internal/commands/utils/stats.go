package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/config"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
)

// createStatsCommand creates the /stats command
func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Show bot statistics.",
		category,
		statsHandler,
	)
}

func uptime(c *discord.ExtendedClient) time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}

// statsHandler handles the /stats command
func statsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		memberCount := 0
		ctx.Session.State.RLock()
		for _, guild := range ctx.Session.State.Guilds {
			memberCount += guild.MemberCount
		}
		ctx.Session.State.RUnlock()

		issued := "-"
		if ledger.Cases != nil {
			c, cancel := ctx.Context()
			n, err := ledger.Cases.IssuedCases(c)
			cancel()
			if err != nil {
				logger.Warn(fmt.Sprintf("Error leyendo total de casos: %v", err), "Stats")
			} else {
				issued = fmt.Sprintf("%d", n)
			}
		}

		botID, _ := ctx.Client.Identity()
		footer := &discordgo.MessageEmbedFooter{Text: "Elura Utility"}
		if u := ctx.Session.State.User; u != nil {
			footer.IconURL = u.AvatarURL("")
		}

		embed := &discordgo.MessageEmbed{
			Title: "📊 Bot Statistics",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "🤖 Bot Version", Value: config.Version, Inline: true},
				{Name: "🐹 Go Version", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
				{Name: "📚 DiscordGo Version", Value: discordgo.VERSION, Inline: true},
				{Name: "🖥 RAM Usage", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
				{Name: "⚙️ Goroutines", Value: fmt.Sprintf("%d Goroutines / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU()), Inline: true},
				{Name: "⏱ Uptime", Value: formatDuration(uptime(ctx.Client)), Inline: true},
				{Name: "🏠 Guilds", Value: fmt.Sprintf("%d", ctx.Client.GuildCount()), Inline: true},
				{Name: "👥 Members", Value: fmt.Sprintf("%d", memberCount), Inline: true},
				{Name: "🧩 Commands", Value: fmt.Sprintf("%d", ctx.Client.CommandCount()), Inline: true},
				{Name: "🛡 Cases Issued", Value: issued, Inline: true},
			},
			Footer:    footer,
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if botID != "" {
			embed.Author = &discordgo.MessageEmbedAuthor{Name: "ID " + botID}
		}

		ctx.ReplyEmbed(embed)
	}()
	return nil
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d seconds", seconds))
	}

	return strings.Join(parts, ", ")
}

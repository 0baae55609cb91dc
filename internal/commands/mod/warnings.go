package mod

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// embed field values are capped by Discord
const maxFieldValue = 1024

// createWarningsCommand creates the /warnings command
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warnings",
		"View a user's punishment history.",
		"Moderation",
		warningsHandler,
	).WithOptions(
		memberOption("User to check"),
	).Restricted()
}

// warningsHandler handles the /warnings command
func warningsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("member")
		if user == nil {
			ctx.ReplyEphemeral("❌ You must specify a member.")
			return
		}

		c, cancel := ctx.Context()
		defer cancel()

		cases, err := ledger.Cases.ListCases(c, ctx.Interaction.GuildID, user.ID)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}

		embed := historyEmbed(user.Mention(), user.ID, cases)
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")}
		ctx.ReplyEmbed(embed)
	}()
	return nil
}

// historyEmbed renders a user's totals and cases, oldest first
func historyEmbed(mention, userID string, cases []models.Case) *discordgo.MessageEmbed {
	totals := ledger.CountByType(cases)

	embed := &discordgo.MessageEmbed{
		Title: "📄 Punishment History",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("%s\n`%s`", mention, userID)},
			{Name: "Totals", Value: fmt.Sprintf("⚠️ Warned: %d\n🔇 Muted: %d\n👢 Kicked: %d\n⛔ Banned: %d",
				totals[models.CaseWarn], totals[models.CaseMute], totals[models.CaseKick], totals[models.CaseBan])},
		},
	}

	if len(cases) == 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Cases", Value: "No punishments found."})
		return embed
	}

	var b strings.Builder
	for i, c := range cases {
		entry := fmt.Sprintf("**Case %s** • %s\n• Reason: `%s`\n• Staff: %s\n• Time: `%s`\n\n",
			c.CaseID, c.Type.Label(), c.Reason, discord.Mention(c.ModeratorID), c.Timestamp)
		if b.Len()+len(entry) > maxFieldValue-32 {
			fmt.Fprintf(&b, "…and %d more", len(cases)-i)
			break
		}
		b.WriteString(entry)
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Case List", Value: b.String()})
	return embed
}

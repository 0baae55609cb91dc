package mod

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

const (
	unwarnPrefix = "unwarn"

	// ConfirmationTTL is how long the Yes/No prompt accepts answers
	ConfirmationTTL = 25 * time.Second
)

// createUnwarnCommand creates the /unwarn command
func createUnwarnCommand() *discord.Command {
	return discord.NewCommand(
		"unwarn",
		"Remove a punishment case.",
		"Moderation",
		unwarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "case_id",
			Description: "Case ID",
			Required:    true,
		},
	).Restricted()
}

// unwarnHandler asks the moderator to confirm the removal
func unwarnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		caseID := models.NormalizeCaseID(ctx.GetStringOption("case_id"))

		c, cancel := ctx.Context()
		defer cancel()

		if _, err := ledger.Cases.FindCase(c, ctx.Interaction.GuildID, caseID); err != nil {
			ctx.ReplyFailure(err)
			return
		}

		owner := ctx.User().ID
		ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    fmt.Sprintf("Are you sure you want to remove case `%s`?", caseID),
				Flags:      discordgo.MessageFlagsEphemeral,
				Components: confirmButtons(caseID, owner),
			},
		})
	}()
	return nil
}

func confirmButtons(caseID, owner string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Yes",
					Style:    discordgo.SuccessButton,
					CustomID: discord.ComponentID(unwarnPrefix, "yes", caseID, owner),
				},
				discordgo.Button{
					Label:    "No",
					Style:    discordgo.DangerButton,
					CustomID: discord.ComponentID(unwarnPrefix, "no", caseID, owner),
				},
			},
		},
	}
}

// confirmationExpired reports whether a prompt message is older than ConfirmationTTL
func confirmationExpired(messageID string, now time.Time) bool {
	sent, err := discordgo.SnowflakeTimestamp(messageID)
	if err != nil {
		return true
	}
	return now.Sub(sent) > ConfirmationTTL
}

// unwarnComponentHandler handles the Yes and No buttons. args are action, case ID
// and the moderator who asked.
func unwarnComponentHandler(ctx *discord.CommandContext, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("custom id unwarn mal formado: %v", args)
	}
	action, caseID, owner := args[0], args[1], args[2]

	if ctx.User().ID != owner {
		return ctx.ReplyEphemeral("❌ Not your confirmation.")
	}
	if ctx.Interaction.Message != nil && confirmationExpired(ctx.Interaction.Message.ID, time.Now()) {
		return ctx.UpdateMessage("❌ Confirmation expired.", nil, nil)
	}
	if action != "yes" {
		return ctx.UpdateMessage("❌ Cancelled.", nil, nil)
	}

	go func() {
		defer errors.RecoverMiddleware()()

		c, cancel := ctx.Context()
		defer cancel()

		removed, err := ledger.Cases.RemoveCase(c, ctx.Interaction.GuildID, caseID)
		if errors.Is(err, ledger.ErrCaseNotFound) {
			ctx.UpdateMessage("❌ Case already removed.", nil, nil)
			return
		}
		if err != nil {
			ctx.UpdateMessage(discord.FailureMessage(err), nil, nil)
			return
		}

		embed := removedEmbed(removed, ctx.User())
		ctx.UpdateMessage("", []*discordgo.MessageEmbed{embed}, nil)
		sendLog(ctx.Session, removed.GuildID, embed)
	}()
	return nil
}

func removedEmbed(c models.Case, by *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🗑 Case Removed",
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Case ID", Value: c.CaseID, Inline: true},
			{Name: "Action", Value: c.Type.Label(), Inline: true},
			{Name: "User", Value: discord.Mention(c.UserID), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Removed by %s • %s", by.Username, now()),
		},
	}
}

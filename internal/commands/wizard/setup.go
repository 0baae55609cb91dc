// Package wizard provides the founder-only /setup command and its buttons. The
// session state lives in pkg/setup; this package only talks to Discord.
package wizard

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/setup"
)

const (
	prefix       = "setup"
	finishAction = "finish"
)

var manager *setup.Manager

// RegisterSetupCommands registers /setup and its components against mgr
func RegisterSetupCommands(client *discord.ExtendedClient, mgr *setup.Manager) {
	manager = mgr
	client.CommandHandler.RegisterCommand(createSetupCommand())
	client.RegisterComponent(prefix, setupComponentHandler)
}

// createSetupCommand creates the /setup command
func createSetupCommand() *discord.Command {
	return discord.NewCommand(
		"setup",
		"Run the full Elura Utility setup wizard.",
		"General",
		setupHandler,
	).Founder()
}

func wizardEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "⚙️ Elura Setup Wizard",
		Description: "Use the buttons below to configure your server.\n" +
			"You have **2 minutes** to complete setup.\n\n" +
			"**Required:**\n" +
			"• Welcome Channel\n" +
			"• Leave Channel\n" +
			"• Logs Channel\n" +
			"• Count Channel\n" +
			"• Economy Channel\n\n" +
			"Press **Finish Setup** when done.",
		Color: 0x5865F2,
	}
}

// wizardButtons lays out one button per field plus Finish Setup
func wizardButtons() []discordgo.MessageComponent {
	fields := make([]discordgo.MessageComponent, 0, len(setup.Fields))
	for _, f := range setup.Fields {
		fields = append(fields, discordgo.Button{
			Label:    "Set " + f.Label(),
			Style:    discordgo.PrimaryButton,
			CustomID: discord.ComponentID(prefix, string(f)),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: fields},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Finish Setup",
				Style:    discordgo.SuccessButton,
				CustomID: discord.ComponentID(prefix, finishAction),
			},
		}},
	}
}

// setupHandler starts a wizard for the founder in the current channel
func setupHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		deadline := manager.Start(ctx.Interaction.GuildID, ctx.User().ID, ctx.Interaction.ChannelID)
		logger.Info(fmt.Sprintf("Setup iniciado por %s en %s (expira %s)", ctx.User().ID, ctx.Interaction.GuildID, deadline.Format("15:04:05")), "Setup")

		ctx.ReplyEmbedWithComponents(wizardEmbed(), wizardButtons(), false)
	}()
	return nil
}

// prompt is the question asked after a field button
func prompt(f setup.Field) string {
	name := strings.ToLower(strings.TrimSuffix(f.Label(), " Channel"))
	if f == setup.CountChannel {
		name = "counting"
	}
	return fmt.Sprintf("Mention the %s channel:", name)
}

// Confirmation is the reply to an accepted channel mention
func Confirmation(f setup.Field, channelID string) string {
	label := strings.Replace(f.Label(), " Channel", " channel", 1)
	return fmt.Sprintf("%s set to <#%s>", label, channelID)
}

// setupComponentHandler handles the field buttons and Finish Setup
func setupComponentHandler(ctx *discord.CommandContext, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("custom id setup mal formado: %v", args)
	}
	guildID, userID := ctx.Interaction.GuildID, ctx.User().ID

	if args[0] == finishAction {
		go func() {
			defer errors.RecoverMiddleware()()

			c, cancel := ctx.Context()
			defer cancel()

			res, err := manager.Finish(c, guildID, userID)
			switch {
			case errors.Is(err, setup.ErrNoSession):
				ctx.ReplyEphemeral(notYours)
			case err != nil:
				logger.Error("Error guardando el setup de "+guildID+": "+err.Error(), "Setup")
				ctx.ReplyEphemeral(discord.FailureMessage(err))
			default:
				ctx.UpdateMessage("", []*discordgo.MessageEmbed{completeEmbed(res)}, nil)
			}
		}()
		return nil
	}

	field := setup.Field(args[0])
	if !field.Valid() {
		return fmt.Errorf("campo de setup desconocido: %s", args[0])
	}
	if err := manager.Select(guildID, userID, field); err != nil {
		if errors.Is(err, setup.ErrNoSession) || errors.Is(err, setup.ErrClosed) {
			return ctx.ReplyEphemeral(notYours)
		}
		return ctx.ReplyEphemeral("❌ " + err.Error())
	}
	return ctx.ReplyEphemeral(prompt(field))
}

const notYours = "❌ This setup session is not yours or has already ended."

func completeEmbed(res setup.Result) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "✅ Setup Complete",
		Description: "Setup complete! Elura Utility is now fully configured.",
		Color:       0x2ECC71,
	}
	if len(res.Fields) == 0 {
		embed.Description = "Setup finished. No channels were changed."
		return embed
	}
	embed.Fields = savedFields(res.Fields)
	return embed
}

func savedFields(fields map[string]string) []*discordgo.MessageEmbedField {
	out := make([]*discordgo.MessageEmbedField, 0, len(fields))
	for _, f := range setup.Fields {
		if id, ok := fields[string(f)]; ok {
			out = append(out, &discordgo.MessageEmbedField{Name: f.Label(), Value: "<#" + id + ">", Inline: true})
		}
	}
	return out
}

// TimeoutNotifier tells the wizard's channel what was saved when a session expires
func TimeoutNotifier(s *discordgo.Session) func(setup.Result) {
	return func(res setup.Result) {
		defer errors.RecoverMiddleware()()

		embed := &discordgo.MessageEmbed{
			Title:       "⌛ Setup Timed Out",
			Description: fmt.Sprintf("%s, the setup wizard ran out of time.", discord.Mention(res.UserID)),
			Color:       0xE67E22,
		}
		switch {
		case res.Err != nil:
			embed.Description += "\n" + discord.PersistenceFailureMessage
		case len(res.Fields) == 0:
			embed.Description += " Nothing was saved."
		default:
			embed.Description += " The channels below were saved."
			embed.Fields = savedFields(res.Fields)
		}

		if _, err := s.ChannelMessageSendEmbed(res.ChannelID, embed); err != nil {
			logger.Warn("No se pudo avisar del fin del setup: "+err.Error(), "Setup")
		}
	}
}

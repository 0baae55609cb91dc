package utils

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
)

const (
	helpPrefix     = "help"
	helpFooter     = "Elura Utility • Commands professional, clear, and up-to-date"
	countingTopic  = "Counting"
	helpColor      = 0x5865F2
	maxMenuOptions = 25
)

// createHelpCommand creates the /help command
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Display the help menu with all commands.",
		category,
		helpHandler,
	)
}

// helpHandler replies with the category dropdown
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		embed := &discordgo.MessageEmbed{
			Title:       "📖 Elura Utility • Help Menu",
			Description: "Select a category from the dropdown below to see detailed commands.\n🔒 = Restricted command",
			Color:       helpColor,
			Footer:      &discordgo.MessageEmbedFooter{Text: helpFooter},
		}
		ctx.ReplyEmbedWithComponents(embed, helpMenu(ctx.Client.Commands.ByCategory()), false)
	}()
	return nil
}

// helpMenu builds the category dropdown. Counting has no command of its own but
// still gets an entry.
func helpMenu(groups map[string][]*discord.Command) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(groups)+1)
	for _, name := range sortedCategories(groups) {
		if len(options) == maxMenuOptions {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       name,
			Value:       name,
			Description: fmt.Sprintf("View %d commands", len(groups[name])),
		})
	}
	if _, ok := groups[countingTopic]; !ok && len(options) < maxMenuOptions {
		options = append(options, discordgo.SelectMenuOption{
			Label:       countingTopic,
			Value:       countingTopic,
			Description: "How the counting game works",
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    helpPrefix,
				Placeholder: "Select a command category...",
				Options:     options,
			},
		}},
	}
}

// categoryEmbed lists the commands of one category
func categoryEmbed(name string, cmds []*discord.Command) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("📖 %s Commands", name),
		Color:  helpColor,
		Footer: &discordgo.MessageEmbedFooter{Text: helpFooter},
	}

	if name == countingTopic && len(cmds) == 0 {
		embed.Description = "Showing 1 command(s) in this category."
		embed.Fields = []*discordgo.MessageEmbedField{{
			Name:  "Counting Channel",
			Value: "Send numbers in sequence. Bot reacts ✅/❌ and tracks progress.",
		}}
		return embed
	}

	embed.Description = fmt.Sprintf("Showing %d command(s) in this category.", len(cmds))
	for _, cmd := range cmds {
		title := "/" + cmd.Name
		if cmd.IsRestricted || cmd.IsFounderOnly {
			title += " 🔒"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: title, Value: cmd.Description})
	}
	return embed
}

// helpComponentHandler swaps the menu embed for the chosen category
func helpComponentHandler(ctx *discord.CommandContext, _ []string) error {
	values := ctx.SelectedValues()
	if len(values) == 0 {
		return nil
	}
	groups := ctx.Client.Commands.ByCategory()
	return ctx.UpdateMessage("", []*discordgo.MessageEmbed{categoryEmbed(values[0], groups[values[0]])}, helpMenu(groups))
}

func sortedCategories(groups map[string][]*discord.Command) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

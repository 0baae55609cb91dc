// Package mod provides the moderation commands. Each command is in its own file and
// every action is recorded as a case in the case ledger.
package mod

import (
	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
)

// RegisterModCommands registers all moderation commands as top-level commands
func RegisterModCommands(client *discord.ExtendedClient) {
	for _, cmd := range []*discord.Command{
		createWarnCommand(),
		createWarningsCommand(),
		createUnwarnCommand(),
		createMuteCommand(),
		createKickCommand(),
		createBanCommand(),
		createUnbanCommand(),
	} {
		client.CommandHandler.RegisterCommand(cmd)
	}

	client.RegisterComponent(unwarnPrefix, unwarnComponentHandler)
}

func memberOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "member",
		Description: description,
		Required:    true,
	}
}

func reasonOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: description,
		Required:    true,
		MaxLength:   512,
	}
}

// Package utils provides the informational commands: help, ping, status, stats and
// count.
package utils

import (
	"github.com/r-4-e/Elura-Utility/pkg/discord"
)

const category = "Utilities"

// RegisterUtilsCommands registers all utility commands and the help dropdown
func RegisterUtilsCommands(client *discord.ExtendedClient) {
	for _, cmd := range []*discord.Command{
		createPingCommand(),
		createStatusCommand(),
		createHelpCommand(),
		createStatsCommand(),
		createCountCommand(),
	} {
		client.CommandHandler.RegisterCommand(cmd)
	}

	client.RegisterComponent(helpPrefix, helpComponentHandler)
}

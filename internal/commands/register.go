// Package commands wires every command category into the Discord client.
// Commands are organized in subdirectories by category.
package commands

import (
	"github.com/r-4-e/Elura-Utility/internal/commands/economy"
	"github.com/r-4-e/Elura-Utility/internal/commands/mod"
	"github.com/r-4-e/Elura-Utility/internal/commands/utils"
	"github.com/r-4-e/Elura-Utility/internal/commands/wizard"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/setup"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, wizards *setup.Manager) {
	// Utility commands (/help, /ping, /status, /stats, /count)
	utils.RegisterUtilsCommands(client)

	// Moderation commands (/warn, /warnings, /unwarn, /mute, /kick, /ban, /unban)
	mod.RegisterModCommands(client)

	// Economy commands (/balance, /work, /rob, /deposit, /withdraw, /gamble, /leaderboard, /shop)
	economy.RegisterEconomyCommands(client)

	// Setup wizard (/setup)
	wizard.RegisterSetupCommands(client, wizards)
}

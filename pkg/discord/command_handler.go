// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/config"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
)

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client           *ExtendedClient
	slashCommands    []*discordgo.ApplicationCommand
	slashCommandsDev []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:           client,
		slashCommands:    make([]*discordgo.ApplicationCommand, 0),
		slashCommandsDev: make([]*discordgo.ApplicationCommand, 0),
	}
}

// LoadCommands reports what was registered programmatically with RegisterCommand
func (ch *CommandHandler) LoadCommands() error {
	logger.System("Iniciando carga de comandos...", "CommandHandler")
	if ch.client.Commands.Size() == 0 {
		return fmt.Errorf("no commands registered")
	}
	logger.System(fmt.Sprintf("Carga finalizada: %d comandos globales, %d de desarrollo.", len(ch.slashCommands), len(ch.slashCommandsDev)), "CommandHandler")
	return nil
}

// RegisterCommand adds a command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)

	appCmd := cmd.ToApplicationCommand()

	if cmd.IsDev {
		ch.slashCommandsDev = append(ch.slashCommandsDev, appCmd)
	} else {
		ch.slashCommands = append(ch.slashCommands, appCmd)
	}

	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// GlobalCommands returns the application commands destined for global registration
func (ch *CommandHandler) GlobalCommands() []*discordgo.ApplicationCommand {
	return ch.slashCommands
}

func (ch *CommandHandler) appID() string {
	return ch.client.Session.State.User.ID
}

// RegisterCommands registers all slash commands with Discord
func (ch *CommandHandler) RegisterCommands() {
	cfg := config.Get()

	logger.Info("🔄 Registrando comandos globales...", "CommandHandler")

	if _, err := ch.client.Session.ApplicationCommandBulkOverwrite(ch.appID(), "", ch.slashCommands); err != nil {
		logger.Error("Error registrando comandos globales: "+err.Error(), "CommandHandler")
	} else {
		logger.Success("✅ Comandos globales registrados.", "CommandHandler")
	}

	if cfg.DevGuildID != "" && len(ch.slashCommandsDev) > 0 {
		logger.Info("🔄 Registrando comandos de desarrollo en el servidor "+cfg.DevGuildID+"...", "CommandHandler")

		if _, err := ch.client.Session.ApplicationCommandBulkOverwrite(ch.appID(), cfg.DevGuildID, ch.slashCommandsDev); err != nil {
			logger.Error("Error registrando comandos de desarrollo: "+err.Error(), "CommandHandler")
			return
		}

		logger.Success("✅ Comandos de desarrollo registrados.", "CommandHandler")
	}
}

// ListGlobalCommands returns the global commands Discord currently has
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), "")
}

// ListGuildCommands returns the commands Discord has registered in one guild
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), guildID)
}

// SyncCommands replaces the global commands with the ones registered locally,
// dropping any stale ones
func (ch *CommandHandler) SyncCommands() error {
	existing, err := ch.ListGlobalCommands()
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(ch.slashCommands))
	for _, cmd := range ch.slashCommands {
		wanted[cmd.Name] = true
	}
	for _, cmd := range existing {
		if !wanted[cmd.Name] {
			logger.Info("Comando obsoleto eliminado: "+cmd.Name, "CommandHandler")
		}
	}

	_, err = ch.client.Session.ApplicationCommandBulkOverwrite(ch.appID(), "", ch.slashCommands)
	return err
}

// UnregisterCommands removes all registered commands from Discord
func (ch *CommandHandler) UnregisterCommands() error {
	return ch.unregister("")
}

// UnregisterGuildCommands removes every command registered in one guild
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	return ch.unregister(guildID)
}

func (ch *CommandHandler) unregister(guildID string) error {
	commands, err := ch.client.Session.ApplicationCommands(ch.appID(), guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		err := ch.client.Session.ApplicationCommandDelete(ch.appID(), guildID, cmd.ID)
		if err != nil {
			logger.Error("Error eliminando comando "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}

	if guildID == "" {
		logger.Success("Comandos globales eliminados.", "CommandHandler")
	} else {
		logger.Success("Comandos del servidor "+guildID+" eliminados.", "CommandHandler")
	}
	return nil
}

// SyncGuildCommands overwrites one guild's commands with every locally registered
// command, dev ones included. Guild commands update instantly, so this is how new
// commands get tried before a global sync.
func (ch *CommandHandler) SyncGuildCommands(guildID string) (int, error) {
	all := make([]*discordgo.ApplicationCommand, 0, len(ch.slashCommands)+len(ch.slashCommandsDev))
	all = append(all, ch.slashCommands...)
	all = append(all, ch.slashCommandsDev...)

	if _, err := ch.client.Session.ApplicationCommandBulkOverwrite(ch.appID(), guildID, all); err != nil {
		return 0, err
	}
	return len(all), nil
}

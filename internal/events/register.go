// Package events provides a registry for organizing bot events.
// Events are organized by category (ready, guild, member, message, shard)
package events

import (
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/setup"
)

// RegisterAll registers all events with the Discord client. wizards may be nil,
// in which case messages are only checked for counting.
func RegisterAll(client *discord.ExtendedClient, wizards *setup.Manager) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (welcome/leave)
	RegisterMemberEvents(client)

	// Message events (setup answers and counting)
	RegisterMessageEvents(client, wizards)

	// Shard events (disconnect/resume)
	RegisterShardEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}

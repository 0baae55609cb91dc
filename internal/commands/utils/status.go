package utils

import (
	"fmt"
	"strings"

	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
)

// createStatusCommand creates the /status command
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Show the bot status.",
		category,
		statusHandler,
	)
}

// statusHandler handles the /status command
func statusHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		store := "🔴 Offline"
		if db := database.Get(); db != nil {
			st := db.Status()
			store = fmt.Sprintf("🟢 %s (%s)", st.Backend, strings.Join(st.Documents, ", "))
			if st.Connection != "" {
				store = fmt.Sprintf("%s %s", st.Connection, st.Backend)
			}
		}

		ctx.Reply(fmt.Sprintf(
			"📊 **Bot Status**\n"+
				"• Bot: 🟢 Online\n"+
				"• Storage: %s\n"+
				"• Servers: %d\n"+
				"• Uptime: %s",
			store,
			ctx.Client.GuildCount(),
			formatDuration(uptime(ctx.Client)),
		))
	}()
	return nil
}

package discord

import (
	"fmt"

	"github.com/r-4-e/Elura-Utility/pkg/config"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
)

// TierMiddleware checks restricted and founder-only commands against the role-tier
// table and answers the user when they are denied. It reports whether cmd may run.
func (c *ExtendedClient) TierMiddleware(ctx *CommandContext, cmd *Command) bool {
	if !cmd.IsRestricted && !cmd.IsFounderOnly {
		return true
	}

	if ctx.Interaction.GuildID == "" {
		ctx.ReplyEphemeral("❌ This command can only be used in a server.")
		return false
	}

	if CanRun(c.Tiers, ctx.MemberRoles(), cmd) {
		return true
	}

	logger.Debug(fmt.Sprintf("Permiso denegado para /%s a %s", cmd.Name, ctx.User().ID), "TierMiddleware")
	if cmd.IsFounderOnly {
		ctx.ReplyEphemeral(fmt.Sprintf("Only founders can run /%s.", cmd.Name))
	} else {
		ctx.ReplyEphemeral(fmt.Sprintf("❌ You lack permission to %s.", cmd.Name))
	}
	return false
}

// CanRun reports whether a member holding roles may run cmd. A nil table allows only
// unrestricted commands.
func CanRun(tiers *config.TierTable, roles []string, cmd *Command) bool {
	switch {
	case cmd.IsFounderOnly:
		return tiers != nil && tiers.IsFounder(roles)
	case cmd.IsRestricted:
		return tiers != nil && tiers.Allows(roles, cmd.Name)
	}
	return true
}

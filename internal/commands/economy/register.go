// Package economy provides the wallet and bank game commands.
package economy

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
)

const category = "Economy"

// RegisterEconomyCommands registers all economy commands
func RegisterEconomyCommands(client *discord.ExtendedClient) {
	for _, cmd := range []*discord.Command{
		createBalanceCommand(),
		createWorkCommand(),
		createRobCommand(),
		createDepositCommand(),
		createWithdrawCommand(),
		createGambleCommand(),
		createLeaderboardCommand(),
		createShopCommand(),
	} {
		client.CommandHandler.RegisterCommand(cmd)
	}
}

// replyError answers economy failures. insufficient is the text for ErrInsufficientFunds.
func replyError(ctx *discord.CommandContext, err error, insufficient string) {
	var cd *cooldownError
	switch {
	case errors.As(err, &cd):
		ctx.ReplyEphemeral(fmt.Sprintf("⏳ You're on cooldown. Try again in **%s**.", formatWait(cd.wait)))
	case errors.Is(err, ledger.ErrInsufficientFunds):
		ctx.ReplyEphemeral(insufficient)
	case errors.Is(err, errTargetTooPoor):
		ctx.ReplyEphemeral("❌ Target does not have enough money to rob.")
	case errors.Is(err, errItemNotFound):
		ctx.ReplyEphemeral("❌ Item not found.")
	default:
		ctx.ReplyFailure(err)
	}
}

// formatWait renders a wait as "1h 5m 3s"
func formatWait(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Second {
		return "0s"
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

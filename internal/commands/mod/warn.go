package mod

import (
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// createWarnCommand creates the /warn command
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Warn a member.",
		"Moderation",
		warnHandler,
	).WithOptions(
		memberOption("Member to warn"),
		reasonOption("Reason for warning"),
	).Restricted()
}

// warnHandler handles the /warn command
func warnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("member")
		if user == nil {
			ctx.ReplyEphemeral("❌ You must specify a member.")
			return
		}
		if user.ID == ctx.User().ID {
			ctx.ReplyEphemeral("❌ You cannot warn yourself.")
			return
		}

		c, err := record(ctx, models.CaseWarn, user.ID, ctx.GetStringOption("reason"), nil)
		if err != nil {
			ctx.ReplyFailure(err)
			return
		}
		finish(ctx, c, user.Mention())
	}()
	return nil
}

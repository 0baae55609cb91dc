package economy

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// createShopCommand creates the /shop command
func createShopCommand() *discord.Command {
	return discord.NewCommand(
		"shop",
		"View or buy items from the shop.",
		category,
		shopHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "item",
			Description:  "Item to buy (optional)",
			Required:     false,
			Autocomplete: true,
		},
	).WithAutoComplete(shopAutoComplete)
}

// shopHandler lists the shop, or buys the named item
func shopHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		c, cancel := ctx.Context()
		defer cancel()

		name := strings.TrimSpace(ctx.GetStringOption("item"))
		if name == "" {
			settings, err := ledger.Balances.Settings(c)
			if err != nil {
				ctx.ReplyFailure(err)
				return
			}
			ctx.ReplyEmbed(shopEmbed(settings.Shop))
			return
		}

		item, err := buy(c, ledger.Balances, ctx.Interaction.GuildID, ctx.User().ID, name)
		if err != nil {
			replyError(ctx, err, "❌ You don't have enough money.")
			return
		}
		ctx.Reply(fmt.Sprintf("✅ You bought **%s** for **$%d**!", item.Name, item.Price))
	}()
	return nil
}

func shopEmbed(items []models.ShopItem) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: "🛒 Shop", Color: 0x3498DB}
	if len(items) == 0 {
		embed.Description = "The shop is empty."
	}
	for _, item := range items {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  item.Name,
			Value: fmt.Sprintf("$%d", item.Price),
		})
	}
	return embed
}

// shopAutoComplete suggests items matching what was typed so far
func shopAutoComplete(ctx *discord.CommandContext) {
	c, cancel := ctx.Context()
	defer cancel()

	settings, err := ledger.Balances.Settings(c)
	if err != nil {
		logger.Warn("Autocompletado de tienda sin datos: "+err.Error(), "Shop")
		return
	}

	typed := strings.ToLower(ctx.GetStringOption("item"))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(settings.Shop))
	for _, item := range settings.Shop {
		if strings.Contains(strings.ToLower(item.Name), typed) && len(choices) < 25 {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  fmt.Sprintf("%s ($%d)", item.Name, item.Price),
				Value: item.Name,
			})
		}
	}

	ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

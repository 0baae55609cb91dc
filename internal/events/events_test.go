package events

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuinedMessage(t *testing.T) {
	assert.Equal(t,
		"<@1> RUINED IT AT **5**!! Next number is **1**. **Wrong number.**",
		ruinedMessage("<@1>", 5, ledger.WrongNumber))
	assert.Equal(t,
		"<@1> RUINED IT AT **2**!! Next number is **1**. **Same user twice.**",
		ruinedMessage("<@1>", 2, ledger.SameUserTwice))
}

func TestWelcomeEmbedUsesDefaults(t *testing.T) {
	user := &discordgo.User{ID: "7", Username: "ana"}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	embed := welcomeEmbed(models.GuildSettings{}, "Elura", 42, user, now)
	assert.Equal(t, "Welcome to Elura!", embed.Title)
	assert.Contains(t, embed.Description, "**<@7>**")
	assert.Contains(t, embed.Description, "**Elura**")
	assert.Equal(t, 0x1E466F, embed.Color)
	assert.Equal(t, "Member #42", embed.Footer.Text)
	assert.Equal(t, "2024-05-01T12:00:00Z", embed.Timestamp)
}

func TestWelcomeEmbedCustomTemplate(t *testing.T) {
	user := &discordgo.User{ID: "7"}
	settings := models.GuildSettings{WelcomeMessage: "hi {usermention} from {guildname}", WelcomeColor: "#00ff00"}

	embed := welcomeEmbed(settings, "G", 1, user, time.Now())
	assert.Equal(t, "hi <@7> from G", embed.Description)
	assert.Equal(t, 0x00FF00, embed.Color)
}

func TestLeaveEmbed(t *testing.T) {
	user := &discordgo.User{ID: "7"}
	settings := models.GuildSettings{LeaveColor: "bogus"}

	embed := leaveEmbed(settings, "Elura", user, time.Now())
	assert.Equal(t, "Member Left", embed.Title)
	assert.Contains(t, embed.Description, "<@7>")
	assert.Equal(t, leaveFallback, embed.Color)
	assert.Nil(t, embed.Footer)
}

func TestReadyEmbed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	embed := readyEmbed("Elura Utility", 3, now)

	assert.Equal(t, "🤖 Elura Utility • Bot Online", embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "3", embed.Fields[0].Value)
	assert.Equal(t, "2024-05-01 12:00:00 UTC", embed.Fields[1].Value)
}

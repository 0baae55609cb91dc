package wizard

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/pkg/setup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompts(t *testing.T) {
	assert.Equal(t, "Mention the welcome channel:", prompt(setup.WelcomeChannel))
	assert.Equal(t, "Mention the counting channel:", prompt(setup.CountChannel))
	assert.Equal(t, "Mention the logs channel:", prompt(setup.LogChannel))
}

func TestConfirmation(t *testing.T) {
	assert.Equal(t, "Welcome channel set to <#123>", Confirmation(setup.WelcomeChannel, "123"))
	assert.Equal(t, "Logs channel set to <#9>", Confirmation(setup.LogChannel, "9"))
}

func TestWizardButtons(t *testing.T) {
	rows := wizardButtons()
	require.Len(t, rows, 2)

	fields := rows[0].(discordgo.ActionsRow).Components
	require.Len(t, fields, len(setup.Fields))
	assert.Equal(t, "Set Welcome Channel", fields[0].(discordgo.Button).Label)
	assert.Equal(t, "setup:welcome_channel", fields[0].(discordgo.Button).CustomID)

	finish := rows[1].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	assert.Equal(t, "Finish Setup", finish.Label)
	assert.Equal(t, "setup:finish", finish.CustomID)
}

func TestCompleteEmbed(t *testing.T) {
	embed := completeEmbed(setup.Result{Fields: map[string]string{
		"log_channel":     "2",
		"welcome_channel": "1",
	}})
	assert.Equal(t, "Setup complete! Elura Utility is now fully configured.", embed.Description)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Welcome Channel", embed.Fields[0].Name)
	assert.Equal(t, "<#2>", embed.Fields[1].Value)

	assert.Equal(t, "Setup finished. No channels were changed.", completeEmbed(setup.Result{}).Description)
}

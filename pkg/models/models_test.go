package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate(DefaultGuildSettings().WelcomeMessage, "<@1>", "Elura")
	assert.Equal(t, "Welcome **<@1>**! You’ve successfully joined **Elura**. We hope you enjoy your stay.", got)
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, 0x1e466f, ParseColor("#1e466f", 0))
	assert.Equal(t, 0xff3b3b, ParseColor("ff3b3b", 0))
	assert.Equal(t, 7, ParseColor("#zzzzzz", 7))
	assert.Equal(t, 7, ParseColor("#fff", 7))
}

func TestSetChannel(t *testing.T) {
	var g GuildSettings
	assert.True(t, g.SetChannel(FieldLeaveChannel, "5"))
	assert.Equal(t, "5", g.LeaveChannel)
	assert.False(t, g.SetChannel("nope", "5"))
}

func TestFindItemIgnoresCase(t *testing.T) {
	item, ok := DefaultEconomySettings().FindItem("  special role ")
	assert.True(t, ok)
	assert.Equal(t, int64(300), item.Price)

	_, ok = DefaultEconomySettings().FindItem("Yacht")
	assert.False(t, ok)
}

func TestCaseTypeLabels(t *testing.T) {
	for _, ct := range CaseTypes {
		assert.True(t, ct.Valid())
		assert.NotEqual(t, "Action Log", ct.Title())
	}
	assert.False(t, CaseType("slap").Valid())
}

func TestNormalizeCaseID(t *testing.T) {
	assert.Equal(t, "AB12CD34", NormalizeCaseID(" ab12cd34\n"))
}

package models

import (
	"strconv"
	"strings"
)

// Claves de los canales configurables con /setup
const (
	FieldWelcomeChannel = "welcome_channel"
	FieldLeaveChannel   = "leave_channel"
	FieldCountChannel   = "count_channel"
	FieldLogChannel     = "log_channel"
	FieldEconomyChannel = "economy_channel"
)

// GuildSettings es la configuración de un servidor
type GuildSettings struct {
	WelcomeChannel string `json:"welcome_channel,omitempty"`
	LeaveChannel   string `json:"leave_channel,omitempty"`
	CountChannel   string `json:"count_channel,omitempty"`
	LogChannel     string `json:"log_channel,omitempty"`
	EconomyChannel string `json:"economy_channel,omitempty"`

	WelcomeMessage string `json:"welcome_message,omitempty"`
	LeaveMessage   string `json:"leave_message,omitempty"`
	WelcomeColor   string `json:"welcome_color,omitempty"`
	LeaveColor     string `json:"leave_color,omitempty"`
}

// DefaultGuildSettings devuelve los textos y colores de bienvenida por defecto
func DefaultGuildSettings() GuildSettings {
	return GuildSettings{
		WelcomeMessage: "Welcome **{usermention}**! You’ve successfully joined **{guildname}**. We hope you enjoy your stay.",
		LeaveMessage:   "**{usermention}** has left **{guildname}**. We hope to see them again in the future.",
		WelcomeColor:   "#1e466f",
		LeaveColor:     "#ff3b3b",
	}
}

// WithDefaults rellena los campos vacíos con los valores por defecto
func (g GuildSettings) WithDefaults() GuildSettings {
	d := DefaultGuildSettings()
	if g.WelcomeMessage == "" {
		g.WelcomeMessage = d.WelcomeMessage
	}
	if g.LeaveMessage == "" {
		g.LeaveMessage = d.LeaveMessage
	}
	if g.WelcomeColor == "" {
		g.WelcomeColor = d.WelcomeColor
	}
	if g.LeaveColor == "" {
		g.LeaveColor = d.LeaveColor
	}
	return g
}

// SetChannel asigna un canal por su clave. Devuelve false si la clave no existe.
func (g *GuildSettings) SetChannel(field, channelID string) bool {
	switch field {
	case FieldWelcomeChannel:
		g.WelcomeChannel = channelID
	case FieldLeaveChannel:
		g.LeaveChannel = channelID
	case FieldCountChannel:
		g.CountChannel = channelID
	case FieldLogChannel:
		g.LogChannel = channelID
	case FieldEconomyChannel:
		g.EconomyChannel = channelID
	default:
		return false
	}
	return true
}

// RenderTemplate reemplaza {usermention} y {guildname}
func RenderTemplate(tmpl, mention, guildName string) string {
	return strings.NewReplacer("{usermention}", mention, "{guildname}", guildName).Replace(tmpl)
}

// ParseColor convierte "#rrggbb" a entero, usando fallback si no es válido
func ParseColor(hex string, fallback int) int {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return fallback
	}
	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return int(v)
}

// SettingsDocument es el documento "settings"
type SettingsDocument struct {
	Guilds map[string]GuildSettings `json:"guilds"`
}

// DefaultSettings devuelve la forma por defecto del documento
func DefaultSettings() SettingsDocument {
	return SettingsDocument{Guilds: map[string]GuildSettings{}}
}

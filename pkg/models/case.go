package models

import "strings"

// CaseTimeFormat es el formato fijo con el que se guarda la fecha de cada caso
const CaseTimeFormat = "2006-01-02 • 15:04 UTC"

// CaseType es el tipo de acción de moderación registrada
type CaseType string

const (
	CaseWarn  CaseType = "warn"
	CaseMute  CaseType = "mute"
	CaseKick  CaseType = "kick"
	CaseBan   CaseType = "ban"
	CaseUnban CaseType = "unban"
)

// CaseTypes lista los tipos en el orden en que se muestran
var CaseTypes = []CaseType{CaseWarn, CaseMute, CaseKick, CaseBan, CaseUnban}

// Valid indica si el tipo es uno de los conocidos
func (t CaseType) Valid() bool {
	switch t {
	case CaseWarn, CaseMute, CaseKick, CaseBan, CaseUnban:
		return true
	}
	return false
}

// Label devuelve el tipo capitalizado para embeds
func (t CaseType) Label() string {
	switch t {
	case CaseWarn:
		return "Warn"
	case CaseMute:
		return "Mute"
	case CaseKick:
		return "Kick"
	case CaseBan:
		return "Ban"
	case CaseUnban:
		return "Unban"
	}
	return string(t)
}

// Title devuelve el título del embed de log para el tipo
func (t CaseType) Title() string {
	switch t {
	case CaseWarn:
		return "⚠️ Warning Issued"
	case CaseMute:
		return "🔇 User Muted"
	case CaseKick:
		return "👢 User Kicked"
	case CaseBan:
		return "⛔ User Banned"
	case CaseUnban:
		return "✅ User Unbanned"
	}
	return "Action Log"
}

// Color devuelve el color del embed de log para el tipo
func (t CaseType) Color() int {
	switch t {
	case CaseWarn:
		return 0xF1C40F
	case CaseMute:
		return 0xE67E22
	case CaseKick:
		return 0xE74C3C
	case CaseBan:
		return 0x992D22
	case CaseUnban:
		return 0x2ECC71
	}
	return 0x5865F2
}

// Case representa una acción de moderación. Es inmutable una vez creada.
type Case struct {
	CaseID      string   `json:"case_id"`
	GuildID     string   `json:"guild_id"`
	Type        CaseType `json:"type"`
	UserID      string   `json:"user_id"`
	ModeratorID string   `json:"moderator_id"`
	Reason      string   `json:"reason"`
	Timestamp   string   `json:"timestamp"`
	// Duration en minutos, solo para mute
	Duration *int `json:"duration,omitempty"`
}

// NormalizeCaseID limpia un ID escrito por un usuario. Los IDs son siempre mayúsculas.
func NormalizeCaseID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// PunishmentsDocument es el documento "punishments": casos por servidor, los IDs retirados
// y el total de casos emitidos, que no baja al eliminar casos
type PunishmentsDocument struct {
	Cases          map[string][]Case `json:"cases"`
	RetiredCaseIDs []string          `json:"retired_case_ids"`
	IssuedCases    int               `json:"last_case_id"`
}

// DefaultPunishments devuelve la forma por defecto del documento
func DefaultPunishments() PunishmentsDocument {
	return PunishmentsDocument{
		Cases:          map[string][]Case{},
		RetiredCaseIDs: []string{},
	}
}

package models

// CountingState es el progreso del juego de contar en un servidor
type CountingState struct {
	Current    int64  `json:"current"`
	LastUserID string `json:"last_user_id"`
}

// CountingDocument es el documento "counting"
type CountingDocument struct {
	Guilds map[string]CountingState `json:"guilds"`
}

// DefaultCounting devuelve la forma por defecto del documento
func DefaultCounting() CountingDocument {
	return CountingDocument{Guilds: map[string]CountingState{}}
}

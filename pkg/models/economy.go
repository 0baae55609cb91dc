package models

import "strings"

// Balance es la cuenta de un usuario en un servidor
type Balance struct {
	Wallet int64    `json:"wallet"`
	Bank   int64    `json:"bank"`
	Items  []string `json:"items,omitempty"`
}

// ShopItem es un artículo de la tienda
type ShopItem struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Cooldowns en segundos por acción
type Cooldowns struct {
	Work int64 `json:"work"`
	Rob  int64 `json:"rob"`
}

// EconomySettings son los parámetros ajustables de la economía
type EconomySettings struct {
	StartingBalance int64      `json:"starting_balance"`
	WorkMin         int64      `json:"work_min"`
	WorkMax         int64      `json:"work_max"`
	RobMin          int64      `json:"rob_min"`
	RobMax          int64      `json:"rob_max"`
	RobThreshold    int64      `json:"rob_threshold"`
	RobPenaltyMin   int64      `json:"rob_penalty_min"`
	RobPenaltyMax   int64      `json:"rob_penalty_max"`
	Cooldowns       Cooldowns  `json:"cooldowns"`
	Shop            []ShopItem `json:"shop"`
}

// DefaultEconomySettings devuelve los valores con los que siempre ha funcionado el bot
func DefaultEconomySettings() EconomySettings {
	return EconomySettings{
		StartingBalance: 0,
		WorkMin:         50,
		WorkMax:         300,
		RobMin:          50,
		RobMax:          200,
		RobThreshold:    100,
		RobPenaltyMin:   20,
		RobPenaltyMax:   100,
		Cooldowns:       Cooldowns{Work: 3600, Rob: 7200},
		Shop: []ShopItem{
			{Name: "VIP", Price: 500},
			{Name: "Special Role", Price: 300},
			{Name: "Custom Title", Price: 200},
		},
	}
}

// FindItem busca un artículo sin distinguir mayúsculas
func (s EconomySettings) FindItem(name string) (ShopItem, bool) {
	name = strings.TrimSpace(name)
	for _, item := range s.Shop {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return ShopItem{}, false
}

// EconomyDocument es el documento "economy"
type EconomyDocument struct {
	Settings  EconomySettings                        `json:"settings"`
	Balances  map[string]map[string]*Balance         `json:"balances"`
	Cooldowns map[string]map[string]map[string]int64 `json:"cooldowns"`
}

// DefaultEconomy devuelve la forma por defecto del documento
func DefaultEconomy() EconomyDocument {
	return EconomyDocument{
		Settings:  DefaultEconomySettings(),
		Balances:  map[string]map[string]*Balance{},
		Cooldowns: map[string]map[string]map[string]int64{},
	}
}

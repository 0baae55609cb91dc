package ledger

import (
	"context"

	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// SettingsStore keeps per-guild configuration in the settings document
type SettingsStore struct {
	dm *database.DataManager[models.SettingsDocument]
}

// NewSettingsStore registers the settings document on store
func NewSettingsStore(store *database.Store) (*SettingsStore, error) {
	defaults := models.DefaultSettings()
	dm, err := database.NewDataManager(store, DocSettings, &defaults)
	if err != nil {
		return nil, err
	}
	return &SettingsStore{dm: dm}, nil
}

// Get returns a guild's settings with template and color defaults filled in
func (s *SettingsStore) Get(ctx context.Context, guildID string) (models.GuildSettings, error) {
	doc, err := s.dm.Get(ctx)
	if err != nil {
		return models.GuildSettings{}, err
	}
	return doc.Guilds[guildID].WithDefaults(), nil
}

// Apply sets the given channel fields in one write. An unknown field rejects the
// whole batch.
func (s *SettingsStore) Apply(ctx context.Context, guildID string, channels map[string]string) error {
	if guildID == "" {
		return validationf("guild is required")
	}
	return s.Update(ctx, guildID, func(g *models.GuildSettings) error {
		for field, channelID := range channels {
			if !g.SetChannel(field, channelID) {
				return validationf("unknown settings field %q", field)
			}
		}
		return nil
	})
}

// Update runs fn on a guild's stored settings and saves them
func (s *SettingsStore) Update(ctx context.Context, guildID string, fn func(*models.GuildSettings) error) error {
	return s.dm.Update(ctx, func(doc *models.SettingsDocument) error {
		if doc.Guilds == nil {
			doc.Guilds = map[string]models.GuildSettings{}
		}
		g := doc.Guilds[guildID]
		if err := fn(&g); err != nil {
			return err
		}
		doc.Guilds[guildID] = g
		return nil
	})
}

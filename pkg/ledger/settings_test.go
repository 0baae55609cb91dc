package ledger

import (
	"context"
	"testing"

	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaults(t *testing.T) {
	t.Parallel()
	s, err := NewSettingsStore(newStore(t))
	require.NoError(t, err)

	g, err := s.Get(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGuildSettings(), g)
}

func TestApplyChannels(t *testing.T) {
	t.Parallel()
	s, err := NewSettingsStore(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, "g1", map[string]string{
		models.FieldWelcomeChannel: "100",
		models.FieldCountChannel:   "200",
	}))
	require.NoError(t, s.Apply(ctx, "g1", map[string]string{
		models.FieldLogChannel: "300",
	}))

	g, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "100", g.WelcomeChannel)
	assert.Equal(t, "200", g.CountChannel)
	assert.Equal(t, "300", g.LogChannel)
	assert.Empty(t, g.LeaveChannel)
}

func TestApplyRejectsUnknownField(t *testing.T) {
	t.Parallel()
	s, err := NewSettingsStore(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	err = s.Apply(ctx, "g1", map[string]string{
		models.FieldWelcomeChannel: "100",
		"prefix":                   "!",
	})
	assert.ErrorIs(t, err, ErrValidation)

	g, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, g.WelcomeChannel)
}

func TestInitGlobalRegistersDocuments(t *testing.T) {
	store := newStore(t)
	require.NoError(t, InitGlobal(store))

	assert.Equal(t, []string{DocCounting, DocEconomy, DocPunishments, DocSettings}, store.Documents())
	assert.NotNil(t, Cases)
	assert.NotNil(t, Balances)
	assert.NotNil(t, Counting)
	assert.NotNil(t, Guilds)
	assert.Equal(t, database.StoreStatus{Backend: "file", Documents: store.Documents()}, store.Status())
}

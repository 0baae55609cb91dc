package ledger

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/models"
	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *database.Store {
	t.Helper()
	backend, err := database.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return database.NewStore(backend)
}

func newCases(t *testing.T) *CaseLedger {
	t.Helper()
	l, err := NewCaseLedger(newStore(t))
	require.NoError(t, err)
	l.SetClock(func() time.Time { return time.Date(2024, 5, 1, 13, 7, 0, 0, time.UTC) })
	return l
}

// sequence hands out ids in order, for collision tests
func sequence(ids ...string) func() string {
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[0]
		if len(ids) > 1 {
			ids = ids[1:]
		}
		return id
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	added   []models.Case
	removed []models.Case
}

func (r *recordingNotifier) CaseAdded(c models.Case) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, c)
}

func (r *recordingNotifier) CaseRemoved(c models.Case) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, c)
}

func minutes(n int) *int { return &n }

func TestNewCaseIDShape(t *testing.T) {
	t.Parallel()
	re := regexp.MustCompile(`^[0-9A-Z]{8}$`)
	for i := 0; i < 200; i++ {
		assert.Regexp(t, re, newCaseID())
	}
}

func TestAddCase(t *testing.T) {
	t.Parallel()
	l := newCases(t)
	ctx := context.Background()

	c, err := l.AddCase(ctx, "g1", models.CaseWarn, "u1", "m1", "spam", nil)
	require.NoError(t, err)

	assert.Len(t, c.CaseID, 8)
	assert.Equal(t, "g1", c.GuildID)
	assert.Equal(t, models.CaseWarn, c.Type)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "m1", c.ModeratorID)
	assert.Equal(t, "spam", c.Reason)
	assert.Equal(t, "2024-05-01 • 13:07 UTC", c.Timestamp)
	assert.Nil(t, c.Duration)

	listed, err := l.ListCases(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.Case{c}, listed)
}

func TestAddCaseValidation(t *testing.T) {
	t.Parallel()
	l := newCases(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		guild    string
		caseType models.CaseType
		user     string
		duration *int
	}{
		{"missing guild", "", models.CaseWarn, "u1", nil},
		{"missing user", "g1", models.CaseWarn, "", nil},
		{"unknown type", "g1", models.CaseType("slap"), "u1", nil},
		{"mute without duration", "g1", models.CaseMute, "u1", nil},
		{"mute with zero minutes", "g1", models.CaseMute, "u1", minutes(0)},
		{"duration on a ban", "g1", models.CaseBan, "u1", minutes(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.AddCase(ctx, tt.guild, tt.caseType, tt.user, "m1", "r", tt.duration)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	all, err := l.ListCases(ctx, "g1", "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddMuteKeepsDuration(t *testing.T) {
	t.Parallel()
	l := newCases(t)

	c, err := l.AddCase(context.Background(), "g1", models.CaseMute, "u1", "m1", "loud", minutes(30))
	require.NoError(t, err)
	require.NotNil(t, c.Duration)
	assert.Equal(t, 30, *c.Duration)
}

func TestListCasesFiltersAndKeepsOrder(t *testing.T) {
	t.Parallel()
	l := newCases(t)
	ctx := context.Background()

	a, _ := l.AddCase(ctx, "g1", models.CaseWarn, "u1", "m1", "one", nil)
	_, _ = l.AddCase(ctx, "g1", models.CaseKick, "u2", "m1", "two", nil)
	c, _ := l.AddCase(ctx, "g1", models.CaseBan, "u1", "m1", "three", nil)
	_, _ = l.AddCase(ctx, "g2", models.CaseWarn, "u1", "m1", "other guild", nil)

	mine, err := l.ListCases(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.Case{a, c}, mine)

	all, err := l.ListCases(ctx, "g1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := l.ListCases(ctx, "g3", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRemoveCaseRetiresID(t *testing.T) {
	t.Parallel()
	l := newCases(t)
	l.newID = sequence("AAAAAAAA", "AAAAAAAA", "BBBBBBBB")
	ctx := context.Background()

	first, err := l.AddCase(ctx, "g1", models.CaseWarn, "u1", "m1", "r", nil)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAA", first.CaseID)

	removed, err := l.RemoveCase(ctx, "g1", "AAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, first, removed)

	// The generator offers the retired id again and must be skipped
	second, err := l.AddCase(ctx, "g1", models.CaseWarn, "u1", "m1", "r", nil)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBB", second.CaseID)

	_, err = l.RemoveCase(ctx, "g1", "AAAAAAAA")
	assert.ErrorIs(t, err, ErrCaseNotFound)

	// Removal does not lower the issued total
	issued, err := l.IssuedCases(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, issued)
}

func TestCaseIDsAreUniqueAcrossGuilds(t *testing.T) {
	t.Parallel()
	l := newCases(t)
	l.newID = sequence("AAAAAAAA", "AAAAAAAA", "CCCCCCCC")
	ctx := context.Background()

	a, err := l.AddCase(ctx, "g1", models.CaseWarn, "u1", "m1", "r", nil)
	require.NoError(t, err)
	b, err := l.AddCase(ctx, "g2", models.CaseWarn, "u1", "m1", "r", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.CaseID, b.CaseID)
}

func TestRemoveCaseIsGuildScoped(t *testing.T) {
	t.Parallel()
	l := newCases(t)
	ctx := context.Background()

	c, err := l.AddCase(ctx, "g1", models.CaseWarn, "u1", "m1", "r", nil)
	require.NoError(t, err)

	_, err = l.RemoveCase(ctx, "g2", c.CaseID)
	assert.ErrorIs(t, err, ErrCaseNotFound)

	found, err := l.FindCase(ctx, "g1", c.CaseID)
	require.NoError(t, err)
	assert.Equal(t, c, found)
}

func TestConcurrentRemovalsOnlyOneWins(t *testing.T) {
	t.Parallel()
	l := newCases(t)
	ctx := context.Background()

	c, err := l.AddCase(ctx, "g1", models.CaseWarn, "u1", "m1", "r", nil)
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		wins     int
		notFound int
	)
	p := pool.New().WithErrors()
	for i := 0; i < 8; i++ {
		p.Go(func() error {
			_, err := l.RemoveCase(ctx, "g1", c.CaseID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrCaseNotFound):
				notFound++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, p.Wait())
	assert.Equal(t, 1, wins)
	assert.Equal(t, 7, notFound)
}

func TestConcurrentAddsKeepEveryCase(t *testing.T) {
	t.Parallel()
	l := newCases(t)
	ctx := context.Background()

	p := pool.New().WithErrors()
	for i := 0; i < 32; i++ {
		p.Go(func() error {
			_, err := l.AddCase(ctx, "g1", models.CaseWarn, "u1", "m1", "r", nil)
			return err
		})
	}
	require.NoError(t, p.Wait())

	all, err := l.ListCases(ctx, "g1", "")
	require.NoError(t, err)
	require.Len(t, all, 32)

	seen := map[string]bool{}
	for _, c := range all {
		assert.False(t, seen[c.CaseID], "duplicate id %s", c.CaseID)
		seen[c.CaseID] = true
	}
}

func TestNotifierSeesPersistedCases(t *testing.T) {
	t.Parallel()
	l := newCases(t)
	n := &recordingNotifier{}
	l.SetNotifier(n)
	ctx := context.Background()

	c, err := l.AddCase(ctx, "g1", models.CaseKick, "u1", "m1", "r", nil)
	require.NoError(t, err)
	_, err = l.AddCase(ctx, "g1", models.CaseMute, "u1", "m1", "r", nil)
	require.Error(t, err)
	_, err = l.RemoveCase(ctx, "g1", c.CaseID)
	require.NoError(t, err)

	assert.Equal(t, []models.Case{c}, n.added)
	assert.Equal(t, []models.Case{c}, n.removed)
}

func TestCountByType(t *testing.T) {
	t.Parallel()
	counts := CountByType([]models.Case{
		{Type: models.CaseWarn},
		{Type: models.CaseWarn},
		{Type: models.CaseBan},
	})
	assert.Equal(t, 2, counts[models.CaseWarn])
	assert.Equal(t, 1, counts[models.CaseBan])
	assert.Zero(t, counts[models.CaseKick])
}

package ledger

import (
	"context"
	"strconv"
	"strings"

	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// Outcome is the result of one counting submission
type Outcome int

const (
	Accepted Outcome = iota
	WrongNumber
	SameUserTwice
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case WrongNumber:
		return "wrong_number"
	case SameUserTwice:
		return "same_user_twice"
	default:
		return "unknown"
	}
}

// ParseResult is what ParseCount found in a message
type ParseResult struct {
	Value int64
	OK    bool
}

// ParseCount reads a whole message as a base 10 integer, ignoring surrounding space.
// Anything else is not a count and the game ignores it.
func ParseCount(content string) ParseResult {
	s := strings.TrimSpace(content)
	if s == "" {
		return ParseResult{}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ParseResult{}
	}
	return ParseResult{Value: v, OK: true}
}

// CountingManager runs the counting game in the counting document
type CountingManager struct {
	dm *database.DataManager[models.CountingDocument]
}

// NewCountingManager registers the counting document on store
func NewCountingManager(store *database.Store) (*CountingManager, error) {
	defaults := models.DefaultCounting()
	dm, err := database.NewDataManager(store, DocCounting, &defaults)
	if err != nil {
		return nil, err
	}
	return &CountingManager{dm: dm}, nil
}

// State returns a guild's progress
func (m *CountingManager) State(ctx context.Context, guildID string) (models.CountingState, error) {
	doc, err := m.dm.Get(ctx)
	if err != nil {
		return models.CountingState{}, err
	}
	return doc.Guilds[guildID], nil
}

// Submit applies value from userID. The same user twice in a row loses regardless of
// the number; otherwise only current+1 is accepted. Both failures reset the count to 0.
// The returned state is the one before a reset, so callers can report where it broke.
func (m *CountingManager) Submit(ctx context.Context, guildID, userID string, value int64) (Outcome, models.CountingState, error) {
	if guildID == "" || userID == "" {
		return WrongNumber, models.CountingState{}, validationf("guild and user are required")
	}

	var (
		outcome Outcome
		before  models.CountingState
	)
	err := m.dm.Update(ctx, func(doc *models.CountingDocument) error {
		if doc.Guilds == nil {
			doc.Guilds = map[string]models.CountingState{}
		}
		before = doc.Guilds[guildID]

		switch {
		case before.LastUserID == userID:
			outcome = SameUserTwice
			doc.Guilds[guildID] = models.CountingState{}
		case value == before.Current+1:
			outcome = Accepted
			doc.Guilds[guildID] = models.CountingState{Current: value, LastUserID: userID}
		default:
			outcome = WrongNumber
			doc.Guilds[guildID] = models.CountingState{}
		}
		return nil
	})
	if err != nil {
		return WrongNumber, models.CountingState{}, err
	}
	return outcome, before, nil
}

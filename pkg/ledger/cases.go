package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

const (
	caseIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	caseIDAttempts = 16
)

// uuidCaseBytes skips byte 6 (version) and byte 8 (variant), which are not random.
var uuidCaseBytes = [8]int{0, 1, 2, 3, 4, 5, 9, 10}

// newCaseID returns an 8 character token over [0-9A-Z].
func newCaseID() string {
	u := uuid.New()
	var id [8]byte
	for i, idx := range uuidCaseBytes {
		id[i] = caseIDAlphabet[int(u[idx])%len(caseIDAlphabet)]
	}
	return string(id[:])
}

// CaseNotifier is told about cases after they have been persisted
type CaseNotifier interface {
	CaseAdded(c models.Case)
	CaseRemoved(c models.Case)
}

// CaseLedger records moderation cases in the punishments document
type CaseLedger struct {
	dm       *database.DataManager[models.PunishmentsDocument]
	now      Clock
	newID    func() string
	notifier CaseNotifier
}

// NewCaseLedger registers the punishments document on store
func NewCaseLedger(store *database.Store) (*CaseLedger, error) {
	defaults := models.DefaultPunishments()
	dm, err := database.NewDataManager(store, DocPunishments, &defaults)
	if err != nil {
		return nil, err
	}
	return &CaseLedger{dm: dm, now: utcNow, newID: newCaseID}, nil
}

// SetNotifier installs a listener for added and removed cases
func (l *CaseLedger) SetNotifier(n CaseNotifier) {
	l.notifier = n
}

// SetClock replaces the time source
func (l *CaseLedger) SetClock(c Clock) {
	l.now = c
}

// AddCase appends a new case and returns it with its freshly assigned ID. Duration is
// required for mutes and rejected for everything else.
func (l *CaseLedger) AddCase(ctx context.Context, guildID string, caseType models.CaseType, userID, moderatorID, reason string, duration *int) (models.Case, error) {
	switch {
	case guildID == "" || userID == "" || moderatorID == "":
		return models.Case{}, validationf("guild, user and moderator are required")
	case !caseType.Valid():
		return models.Case{}, validationf("unknown case type %q", caseType)
	case caseType == models.CaseMute && (duration == nil || *duration < 1):
		return models.Case{}, validationf("mute needs a duration of at least one minute")
	case caseType != models.CaseMute && duration != nil:
		return models.Case{}, validationf("only mutes carry a duration")
	}

	var created models.Case
	err := l.dm.Update(ctx, func(doc *models.PunishmentsDocument) error {
		if doc.Cases == nil {
			doc.Cases = map[string][]models.Case{}
		}

		id, err := l.uniqueID(doc)
		if err != nil {
			return err
		}

		created = models.Case{
			CaseID:      id,
			GuildID:     guildID,
			Type:        caseType,
			UserID:      userID,
			ModeratorID: moderatorID,
			Reason:      reason,
			Timestamp:   l.now().UTC().Format(models.CaseTimeFormat),
		}
		if duration != nil {
			d := *duration
			created.Duration = &d
		}

		doc.Cases[guildID] = append(doc.Cases[guildID], created)
		doc.IssuedCases++
		return nil
	})
	if err != nil {
		return models.Case{}, err
	}

	if l.notifier != nil {
		l.notifier.CaseAdded(created)
	}
	return created, nil
}

// uniqueID draws IDs until one is neither live in any guild nor retired
func (l *CaseLedger) uniqueID(doc *models.PunishmentsDocument) (string, error) {
	taken := make(map[string]struct{}, len(doc.RetiredCaseIDs))
	for _, id := range doc.RetiredCaseIDs {
		taken[id] = struct{}{}
	}
	for _, cases := range doc.Cases {
		for _, c := range cases {
			taken[c.CaseID] = struct{}{}
		}
	}

	for i := 0; i < caseIDAttempts; i++ {
		id := l.newID()
		if _, dup := taken[id]; !dup {
			return id, nil
		}
		logger.Debug("Colisión de ID de caso, generando otro", "Cases")
	}
	return "", errors.New("could not allocate a unique case id")
}

// ListCases returns a guild's cases oldest first, optionally only those targeting userID
func (l *CaseLedger) ListCases(ctx context.Context, guildID, userID string) ([]models.Case, error) {
	doc, err := l.dm.Get(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Case, 0, len(doc.Cases[guildID]))
	for _, c := range doc.Cases[guildID] {
		if userID == "" || c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// FindCase returns a single case without removing it
func (l *CaseLedger) FindCase(ctx context.Context, guildID, caseID string) (models.Case, error) {
	doc, err := l.dm.Get(ctx)
	if err != nil {
		return models.Case{}, err
	}
	for _, c := range doc.Cases[guildID] {
		if c.CaseID == caseID {
			return c, nil
		}
	}
	return models.Case{}, ErrCaseNotFound
}

// RemoveCase deletes a case and retires its ID. Authorization is the caller's job.
// When two removals of the same ID race, one gets the case and the other ErrCaseNotFound.
func (l *CaseLedger) RemoveCase(ctx context.Context, guildID, caseID string) (models.Case, error) {
	var removed models.Case
	err := l.dm.Update(ctx, func(doc *models.PunishmentsDocument) error {
		cases := doc.Cases[guildID]
		for i, c := range cases {
			if c.CaseID != caseID {
				continue
			}
			removed = c
			doc.Cases[guildID] = append(cases[:i:i], cases[i+1:]...)
			doc.RetiredCaseIDs = append(doc.RetiredCaseIDs, caseID)
			return nil
		}
		return ErrCaseNotFound
	})
	if err != nil {
		return models.Case{}, err
	}

	if l.notifier != nil {
		l.notifier.CaseRemoved(removed)
	}
	return removed, nil
}

// IssuedCases returns how many cases were ever added, removed ones included
func (l *CaseLedger) IssuedCases(ctx context.Context) (int, error) {
	doc, err := l.dm.Get(ctx)
	if err != nil {
		return 0, err
	}
	return doc.IssuedCases, nil
}

// CountByType tallies cases per type
func CountByType(cases []models.Case) map[models.CaseType]int {
	counts := make(map[models.CaseType]int, len(models.CaseTypes))
	for _, c := range cases {
		counts[c.Type]++
	}
	return counts
}

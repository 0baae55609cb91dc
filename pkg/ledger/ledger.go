// Package ledger provides the transactional record keepers built on the document
// store: moderation cases, economy balances, the counting game and guild settings.
// Every operation is one locked read-modify-write of its document.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/r-4-e/Elura-Utility/pkg/database"
)

// Document names
const (
	DocPunishments = "punishments"
	DocEconomy     = "economy"
	DocCounting    = "counting"
	DocSettings    = "settings"
)

var (
	// ErrValidation is returned for malformed input. Never worth retrying.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAmount is a negative or overflowing amount. It matches ErrValidation.
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)

	// ErrInsufficientFunds is returned when a debit would cross the floor. Nothing changed.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCaseNotFound is returned when a guild has no case with the given ID.
	ErrCaseNotFound = errors.New("case not found")
)

// global ledgers shared by command handlers
var (
	Cases    *CaseLedger
	Balances *BalanceLedger
	Counting *CountingManager
	Guilds   *SettingsStore
)

// InitGlobal registers every document on store and builds the shared ledgers
func InitGlobal(store *database.Store) error {
	var err error
	if Cases, err = NewCaseLedger(store); err != nil {
		return err
	}
	if Balances, err = NewBalanceLedger(store); err != nil {
		return err
	}
	if Counting, err = NewCountingManager(store); err != nil {
		return err
	}
	if Guilds, err = NewSettingsStore(store); err != nil {
		return err
	}
	return nil
}

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

package ledger

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// Cooldown action keys
const (
	ActionWork = "work"
	ActionRob  = "rob"
)

// BalanceLedger keeps wallets, banks, inventories and cooldowns in the economy document
type BalanceLedger struct {
	dm  *database.DataManager[models.EconomyDocument]
	now Clock
}

// Standing is one leaderboard row
type Standing struct {
	Rank    int
	UserID  string
	Balance models.Balance
}

// DebitOption tweaks a single debit
type DebitOption func(*debitOptions)

type debitOptions struct {
	allowOverdraft bool
}

// AllowOverdraft lets a debit drive the wallet below zero
func AllowOverdraft() DebitOption {
	return func(o *debitOptions) { o.allowOverdraft = true }
}

// NewBalanceLedger registers the economy document on store
func NewBalanceLedger(store *database.Store) (*BalanceLedger, error) {
	defaults := models.DefaultEconomy()
	dm, err := database.NewDataManager(store, DocEconomy, &defaults)
	if err != nil {
		return nil, err
	}
	return &BalanceLedger{dm: dm, now: utcNow}, nil
}

// SetClock replaces the time source used for cooldowns
func (l *BalanceLedger) SetClock(c Clock) {
	l.now = c
}

// Transact runs fn against one guild's accounts. Every change fn makes is persisted
// together, or not at all when fn returns an error.
func (l *BalanceLedger) Transact(ctx context.Context, guildID string, fn func(tx *Tx) error) error {
	if guildID == "" {
		return validationf("guild is required")
	}
	return l.dm.Update(ctx, func(doc *models.EconomyDocument) error {
		return fn(&Tx{guildID: guildID, doc: doc, now: l.now()})
	})
}

// Settings returns the economy parameters
func (l *BalanceLedger) Settings(ctx context.Context) (models.EconomySettings, error) {
	doc, err := l.dm.Get(ctx)
	if err != nil {
		return models.EconomySettings{}, err
	}
	return doc.Settings, nil
}

// GetBalance returns a user's account, creating it with the starting balance on first use
func (l *BalanceLedger) GetBalance(ctx context.Context, guildID, userID string) (models.Balance, error) {
	var b models.Balance
	err := l.Transact(ctx, guildID, func(tx *Tx) error {
		var err error
		b, err = tx.Get(userID)
		return err
	})
	return b, err
}

// CreditWallet adds amount to the wallet and returns the new balance
func (l *BalanceLedger) CreditWallet(ctx context.Context, guildID, userID string, amount int64) (models.Balance, error) {
	return l.single(ctx, guildID, userID, func(tx *Tx) error {
		return tx.Credit(userID, amount)
	})
}

// DebitWallet removes amount from the wallet. Without AllowOverdraft an amount above
// the wallet fails with ErrInsufficientFunds and nothing changes.
func (l *BalanceLedger) DebitWallet(ctx context.Context, guildID, userID string, amount int64, opts ...DebitOption) (models.Balance, error) {
	return l.single(ctx, guildID, userID, func(tx *Tx) error {
		return tx.Debit(userID, amount, opts...)
	})
}

// TransferWallet moves amount between two wallets within the guild
func (l *BalanceLedger) TransferWallet(ctx context.Context, guildID, fromID, toID string, amount int64, opts ...DebitOption) error {
	return l.Transact(ctx, guildID, func(tx *Tx) error {
		return tx.Transfer(fromID, toID, amount, opts...)
	})
}

// MoveToBank deposits amount from wallet into bank
func (l *BalanceLedger) MoveToBank(ctx context.Context, guildID, userID string, amount int64) (models.Balance, error) {
	return l.single(ctx, guildID, userID, func(tx *Tx) error {
		return tx.ToBank(userID, amount)
	})
}

// MoveToWallet withdraws amount from bank into wallet
func (l *BalanceLedger) MoveToWallet(ctx context.Context, guildID, userID string, amount int64) (models.Balance, error) {
	return l.single(ctx, guildID, userID, func(tx *Tx) error {
		return tx.ToWallet(userID, amount)
	})
}

// Leaderboard ranks a guild's accounts by wallet, highest first. Ties go to the
// lower user ID so the order is stable.
func (l *BalanceLedger) Leaderboard(ctx context.Context, guildID string, limit int) ([]Standing, error) {
	doc, err := l.dm.Get(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Standing, 0, len(doc.Balances[guildID]))
	for userID, b := range doc.Balances[guildID] {
		if b == nil {
			continue
		}
		rows = append(rows, Standing{UserID: userID, Balance: *b})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Balance.Wallet != rows[j].Balance.Wallet {
			return rows[i].Balance.Wallet > rows[j].Balance.Wallet
		}
		return rows[i].UserID < rows[j].UserID
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (l *BalanceLedger) single(ctx context.Context, guildID, userID string, fn func(tx *Tx) error) (models.Balance, error) {
	var b models.Balance
	err := l.Transact(ctx, guildID, func(tx *Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		var err error
		b, err = tx.Get(userID)
		return err
	})
	if err != nil {
		return models.Balance{}, err
	}
	return b, nil
}

// Tx is a view of one guild's accounts inside a Transact call. It must not be kept
// after fn returns.
type Tx struct {
	guildID string
	doc     *models.EconomyDocument
	now     time.Time
}

// Settings returns the economy parameters as stored
func (tx *Tx) Settings() models.EconomySettings {
	return tx.doc.Settings
}

// Now returns the time the transaction started
func (tx *Tx) Now() time.Time {
	return tx.now
}

func (tx *Tx) account(userID string) (*models.Balance, error) {
	if userID == "" {
		return nil, validationf("user is required")
	}
	if tx.doc.Balances == nil {
		tx.doc.Balances = map[string]map[string]*models.Balance{}
	}
	guild := tx.doc.Balances[tx.guildID]
	if guild == nil {
		guild = map[string]*models.Balance{}
		tx.doc.Balances[tx.guildID] = guild
	}
	b := guild[userID]
	if b == nil {
		b = &models.Balance{Wallet: tx.doc.Settings.StartingBalance}
		guild[userID] = b
	}
	return b, nil
}

// Get returns a copy of the user's account
func (tx *Tx) Get(userID string) (models.Balance, error) {
	b, err := tx.account(userID)
	if err != nil {
		return models.Balance{}, err
	}
	out := *b
	out.Items = append([]string(nil), b.Items...)
	return out, nil
}

// Credit adds amount to the wallet
func (tx *Tx) Credit(userID string, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	b, err := tx.account(userID)
	if err != nil {
		return err
	}
	if b.Wallet > math.MaxInt64-amount {
		return ErrInvalidAmount
	}
	b.Wallet += amount
	return nil
}

// Debit removes amount from the wallet
func (tx *Tx) Debit(userID string, amount int64, opts ...DebitOption) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	var o debitOptions
	for _, opt := range opts {
		opt(&o)
	}
	b, err := tx.account(userID)
	if err != nil {
		return err
	}
	if !o.allowOverdraft && amount > b.Wallet {
		return ErrInsufficientFunds
	}
	if b.Wallet < math.MinInt64+amount {
		return ErrInvalidAmount
	}
	b.Wallet -= amount
	return nil
}

// Transfer debits from and credits to in one step
func (tx *Tx) Transfer(fromID, toID string, amount int64, opts ...DebitOption) error {
	if fromID == toID {
		return validationf("cannot transfer to the same account")
	}
	if err := tx.Debit(fromID, amount, opts...); err != nil {
		return err
	}
	return tx.Credit(toID, amount)
}

// ToBank moves amount from wallet to bank
func (tx *Tx) ToBank(userID string, amount int64) error {
	b, err := tx.account(userID)
	if err != nil {
		return err
	}
	if amount < 0 || b.Bank > math.MaxInt64-amount {
		return ErrInvalidAmount
	}
	if amount > b.Wallet {
		return ErrInsufficientFunds
	}
	b.Wallet -= amount
	b.Bank += amount
	return nil
}

// ToWallet moves amount from bank to wallet
func (tx *Tx) ToWallet(userID string, amount int64) error {
	b, err := tx.account(userID)
	if err != nil {
		return err
	}
	if amount < 0 || b.Wallet > math.MaxInt64-amount {
		return ErrInvalidAmount
	}
	if amount > b.Bank {
		return ErrInsufficientFunds
	}
	b.Bank -= amount
	b.Wallet += amount
	return nil
}

// Buy debits the item's price and adds it to the inventory
func (tx *Tx) Buy(userID string, item models.ShopItem) error {
	if err := tx.Debit(userID, item.Price); err != nil {
		return err
	}
	b, _ := tx.account(userID)
	b.Items = append(b.Items, item.Name)
	return nil
}

// Cooldown arms action for userID when it is ready and reports whether it was.
// When it is not ready the remaining wait is returned and nothing changes.
func (tx *Tx) Cooldown(userID, action string, period time.Duration) (bool, time.Duration) {
	if tx.doc.Cooldowns == nil {
		tx.doc.Cooldowns = map[string]map[string]map[string]int64{}
	}
	guild := tx.doc.Cooldowns[tx.guildID]
	if guild == nil {
		guild = map[string]map[string]int64{}
		tx.doc.Cooldowns[tx.guildID] = guild
	}
	user := guild[userID]
	if user == nil {
		user = map[string]int64{}
		guild[userID] = user
	}

	if last, ok := user[action]; ok {
		ready := time.Unix(last, 0).Add(period)
		if tx.now.Before(ready) {
			return false, ready.Sub(tx.now).Round(time.Second)
		}
	}
	user[action] = tx.now.Unix()
	return true, 0
}

package economy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
)

var (
	errTargetTooPoor = errors.New("target wallet below rob threshold")
	errItemNotFound  = errors.New("shop item not found")
)

// cooldownError is returned while an action is still cooling down
type cooldownError struct {
	wait time.Duration
}

func (e *cooldownError) Error() string {
	return fmt.Sprintf("on cooldown for %s", e.wait)
}

// Dice is the randomness the games draw from
type Dice interface {
	// Between returns a uniform value in [lo, hi]
	Between(lo, hi int64) int64
	// Coin is a fair coin flip
	Coin() bool
	// Multiplier returns a uniform value in [1.2, 2.0)
	Multiplier() float64
}

type randomDice struct{}

func (randomDice) Between(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rand.Int64N(hi-lo+1)
}

func (randomDice) Coin() bool { return rand.IntN(2) == 0 }

func (randomDice) Multiplier() float64 { return 1.2 + rand.Float64()*0.8 }

var dice Dice = randomDice{}

// parseAmount reads a positive amount, or "all" for everything available
func parseAmount(input string, available int64) (int64, error) {
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "all") {
		if available <= 0 {
			return 0, ledger.ErrInsufficientFunds
		}
		return available, nil
	}
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil || n <= 0 {
		return 0, ledger.ErrInvalidAmount
	}
	return n, nil
}

func work(ctx context.Context, l *ledger.BalanceLedger, guildID, userID string, d Dice) (int64, error) {
	var earned int64
	err := l.Transact(ctx, guildID, func(tx *ledger.Tx) error {
		s := tx.Settings()
		if ready, wait := tx.Cooldown(userID, ledger.ActionWork, seconds(s.Cooldowns.Work)); !ready {
			return &cooldownError{wait: wait}
		}
		earned = d.Between(s.WorkMin, s.WorkMax)
		return tx.Credit(userID, earned)
	})
	return earned, err
}

type robResult struct {
	Success bool
	Amount  int64
}

// rob moves money between robber and target in one transaction. On failure the
// robber pays a penalty unless their wallet is below the minimum penalty.
func rob(ctx context.Context, l *ledger.BalanceLedger, guildID, robberID, targetID string, d Dice) (robResult, error) {
	var res robResult
	err := l.Transact(ctx, guildID, func(tx *ledger.Tx) error {
		s := tx.Settings()
		target, err := tx.Get(targetID)
		if err != nil {
			return err
		}
		if target.Wallet < s.RobThreshold {
			return errTargetTooPoor
		}
		if ready, wait := tx.Cooldown(robberID, ledger.ActionRob, seconds(s.Cooldowns.Rob)); !ready {
			return &cooldownError{wait: wait}
		}

		if d.Coin() {
			hi := min(s.RobMax, target.Wallet)
			res = robResult{Success: true, Amount: d.Between(min(s.RobMin, hi), hi)}
			return tx.Transfer(targetID, robberID, res.Amount)
		}

		robber, err := tx.Get(robberID)
		if err != nil {
			return err
		}
		if robber.Wallet < s.RobPenaltyMin {
			return nil
		}
		res.Amount = d.Between(s.RobPenaltyMin, min(s.RobPenaltyMax, robber.Wallet))
		return tx.Transfer(robberID, targetID, res.Amount)
	})
	if err != nil {
		return robResult{}, err
	}
	return res, nil
}

type gambleResult struct {
	Won    bool
	Amount int64
}

func gamble(ctx context.Context, l *ledger.BalanceLedger, guildID, userID string, amount int64, d Dice) (gambleResult, error) {
	if amount <= 0 {
		return gambleResult{}, ledger.ErrInvalidAmount
	}
	var res gambleResult
	err := l.Transact(ctx, guildID, func(tx *ledger.Tx) error {
		b, err := tx.Get(userID)
		if err != nil {
			return err
		}
		if b.Wallet < amount {
			return ledger.ErrInsufficientFunds
		}
		if d.Coin() {
			res = gambleResult{Won: true, Amount: int64(math.Floor(float64(amount) * d.Multiplier()))}
			return tx.Credit(userID, res.Amount)
		}
		res = gambleResult{Amount: amount}
		return tx.Debit(userID, amount)
	})
	if err != nil {
		return gambleResult{}, err
	}
	return res, nil
}

// move deposits into the bank, or withdraws from it when toBank is false
func move(ctx context.Context, l *ledger.BalanceLedger, guildID, userID, input string, toBank bool) (int64, error) {
	var moved int64
	err := l.Transact(ctx, guildID, func(tx *ledger.Tx) error {
		b, err := tx.Get(userID)
		if err != nil {
			return err
		}
		available := b.Bank
		if toBank {
			available = b.Wallet
		}
		if moved, err = parseAmount(input, available); err != nil {
			return err
		}
		if toBank {
			return tx.ToBank(userID, moved)
		}
		return tx.ToWallet(userID, moved)
	})
	return moved, err
}

func buy(ctx context.Context, l *ledger.BalanceLedger, guildID, userID, name string) (models.ShopItem, error) {
	var item models.ShopItem
	err := l.Transact(ctx, guildID, func(tx *ledger.Tx) error {
		var ok bool
		if item, ok = tx.Settings().FindItem(name); !ok {
			return errItemNotFound
		}
		return tx.Buy(userID, item)
	})
	return item, err
}

func seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}

package economy

import (
	"context"
	"testing"
	"time"

	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedDice always lands the same way. Between returns lo, or hi when high is set.
type fixedDice struct {
	heads bool
	high  bool
	mult  float64
}

func (d fixedDice) Between(lo, hi int64) int64 {
	if d.high {
		return hi
	}
	return lo
}

func (d fixedDice) Coin() bool          { return d.heads }
func (d fixedDice) Multiplier() float64 { return d.mult }

const guild = "g1"

func newBalances(t *testing.T, now *time.Time) *ledger.BalanceLedger {
	t.Helper()
	backend, err := database.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	l, err := ledger.NewBalanceLedger(database.NewStore(backend))
	require.NoError(t, err)
	l.SetClock(func() time.Time { return *now })
	return l
}

func wallet(t *testing.T, l *ledger.BalanceLedger, userID string) int64 {
	t.Helper()
	b, err := l.GetBalance(context.Background(), guild, userID)
	require.NoError(t, err)
	return b.Wallet
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input     string
		available int64
		want      int64
		wantErr   error
	}{
		{"100", 500, 100, nil},
		{" 42 ", 0, 42, nil},
		{"all", 250, 250, nil},
		{"ALL", 7, 7, nil},
		{"all", 0, 0, ledger.ErrInsufficientFunds},
		{"0", 10, 0, ledger.ErrInvalidAmount},
		{"-5", 10, 0, ledger.ErrInvalidAmount},
		{"ten", 10, 0, ledger.ErrInvalidAmount},
		{"", 10, 0, ledger.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input, tt.available)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkCreditsAndCoolsDown(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newBalances(t, &now)
	ctx := context.Background()

	earned, err := work(ctx, l, guild, "u1", fixedDice{high: true})
	require.NoError(t, err)
	assert.Equal(t, int64(300), earned)
	assert.Equal(t, int64(300), wallet(t, l, "u1"))

	now = now.Add(30 * time.Minute)
	_, err = work(ctx, l, guild, "u1", fixedDice{})
	var cd *cooldownError
	require.ErrorAs(t, err, &cd)
	assert.Equal(t, 30*time.Minute, cd.wait)
	assert.Equal(t, int64(300), wallet(t, l, "u1"))

	now = now.Add(31 * time.Minute)
	earned, err = work(ctx, l, guild, "u1", fixedDice{})
	require.NoError(t, err)
	assert.Equal(t, int64(50), earned)
}

func TestRobSuccessMovesMoney(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newBalances(t, &now)
	ctx := context.Background()
	_, err := l.CreditWallet(ctx, guild, "victim", 150)
	require.NoError(t, err)

	res, err := rob(ctx, l, guild, "thief", "victim", fixedDice{heads: true, high: true})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(150), res.Amount, "capped by the target's wallet")
	assert.Equal(t, int64(150), wallet(t, l, "thief"))
	assert.Equal(t, int64(0), wallet(t, l, "victim"))
}

func TestRobRequiresThreshold(t *testing.T) {
	now := time.Now()
	l := newBalances(t, &now)
	ctx := context.Background()
	_, err := l.CreditWallet(ctx, guild, "victim", 99)
	require.NoError(t, err)

	_, err = rob(ctx, l, guild, "thief", "victim", fixedDice{heads: true})
	assert.ErrorIs(t, err, errTargetTooPoor)

	// a refused attempt does not start the cooldown
	_, err = l.CreditWallet(ctx, guild, "victim", 1)
	require.NoError(t, err)
	_, err = rob(ctx, l, guild, "thief", "victim", fixedDice{heads: true})
	assert.NoError(t, err)
}

func TestRobFailurePaysPenalty(t *testing.T) {
	now := time.Now()
	l := newBalances(t, &now)
	ctx := context.Background()
	_, err := l.CreditWallet(ctx, guild, "victim", 500)
	require.NoError(t, err)
	_, err = l.CreditWallet(ctx, guild, "thief", 60)
	require.NoError(t, err)

	res, err := rob(ctx, l, guild, "thief", "victim", fixedDice{high: true})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, int64(60), res.Amount, "capped by the robber's wallet")
	assert.Equal(t, int64(0), wallet(t, l, "thief"))
	assert.Equal(t, int64(560), wallet(t, l, "victim"))
}

func TestRobFailureWithEmptyWalletCostsNothing(t *testing.T) {
	now := time.Now()
	l := newBalances(t, &now)
	ctx := context.Background()
	_, err := l.CreditWallet(ctx, guild, "victim", 500)
	require.NoError(t, err)
	_, err = l.CreditWallet(ctx, guild, "thief", 10)
	require.NoError(t, err)

	res, err := rob(ctx, l, guild, "thief", "victim", fixedDice{})
	require.NoError(t, err)
	assert.Equal(t, robResult{}, res)
	assert.Equal(t, int64(10), wallet(t, l, "thief"))

	_, err = rob(ctx, l, guild, "thief", "victim", fixedDice{})
	var cd *cooldownError
	assert.ErrorAs(t, err, &cd)
}

func TestGamble(t *testing.T) {
	now := time.Now()
	l := newBalances(t, &now)
	ctx := context.Background()
	_, err := l.CreditWallet(ctx, guild, "u1", 100)
	require.NoError(t, err)

	res, err := gamble(ctx, l, guild, "u1", 100, fixedDice{heads: true, mult: 1.55})
	require.NoError(t, err)
	assert.Equal(t, gambleResult{Won: true, Amount: 155}, res)
	assert.Equal(t, int64(255), wallet(t, l, "u1"))

	res, err = gamble(ctx, l, guild, "u1", 55, fixedDice{})
	require.NoError(t, err)
	assert.Equal(t, gambleResult{Amount: 55}, res)
	assert.Equal(t, int64(200), wallet(t, l, "u1"))

	_, err = gamble(ctx, l, guild, "u1", 201, fixedDice{heads: true, mult: 2})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	_, err = gamble(ctx, l, guild, "u1", 0, fixedDice{})
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	assert.Equal(t, int64(200), wallet(t, l, "u1"))
}

func TestMoveAll(t *testing.T) {
	now := time.Now()
	l := newBalances(t, &now)
	ctx := context.Background()
	_, err := l.CreditWallet(ctx, guild, "u1", 80)
	require.NoError(t, err)

	moved, err := move(ctx, l, guild, "u1", "all", true)
	require.NoError(t, err)
	assert.Equal(t, int64(80), moved)

	_, err = move(ctx, l, guild, "u1", "81", false)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	moved, err = move(ctx, l, guild, "u1", "30", false)
	require.NoError(t, err)
	assert.Equal(t, int64(30), moved)

	b, err := l.GetBalance(ctx, guild, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(30), b.Wallet)
	assert.Equal(t, int64(50), b.Bank)
}

func TestBuy(t *testing.T) {
	now := time.Now()
	l := newBalances(t, &now)
	ctx := context.Background()
	_, err := l.CreditWallet(ctx, guild, "u1", 250)
	require.NoError(t, err)

	_, err = buy(ctx, l, guild, "u1", "vip")
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	item, err := buy(ctx, l, guild, "u1", "custom title")
	require.NoError(t, err)
	assert.Equal(t, "Custom Title", item.Name)

	_, err = buy(ctx, l, guild, "u1", "Yacht")
	assert.ErrorIs(t, err, errItemNotFound)

	b, err := l.GetBalance(ctx, guild, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), b.Wallet)
	assert.Equal(t, []string{"Custom Title"}, b.Items)
}

func TestFormatWait(t *testing.T) {
	assert.Equal(t, "0s", formatWait(0))
	assert.Equal(t, "45s", formatWait(45*time.Second))
	assert.Equal(t, "40m 0s", formatWait(40*time.Minute))
	assert.Equal(t, "1h 59m 59s", formatWait(2*time.Hour-time.Second))
}

func TestRandomDiceBounds(t *testing.T) {
	var d randomDice
	for i := 0; i < 200; i++ {
		v := d.Between(50, 300)
		assert.GreaterOrEqual(t, v, int64(50))
		assert.LessOrEqual(t, v, int64(300))

		m := d.Multiplier()
		assert.GreaterOrEqual(t, m, 1.2)
		assert.Less(t, m, 2.0)
	}
	assert.Equal(t, int64(7), d.Between(7, 7))
}

func TestLeaderboardEmbed(t *testing.T) {
	rows := []ledger.Standing{
		{Rank: 1, UserID: "a", Balance: models.Balance{Wallet: 900}},
		{Rank: 2, UserID: "b", Balance: models.Balance{Wallet: 40}},
	}
	embed := leaderboardEmbed(rows, []string{"Ana", "User ID b"})
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "1. Ana", embed.Fields[0].Name)
	assert.Equal(t, "$900", embed.Fields[0].Value)
	assert.Equal(t, "2. User ID b", embed.Fields[1].Name)

	assert.Empty(t, leaderboardEmbed(nil, nil).Fields)
}

func TestShopEmbedListsItems(t *testing.T) {
	embed := shopEmbed(models.DefaultEconomySettings().Shop)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "VIP", embed.Fields[0].Name)
	assert.Equal(t, "$500", embed.Fields[0].Value)
}

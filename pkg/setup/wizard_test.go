package setup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestWizard() *Wizard {
	return NewWizard("g1", "u1", "c1", t0, DefaultStepTimeout, DefaultSessionTimeout)
}

func TestWizardConfirmsSelectedField(t *testing.T) {
	w := newTestWizard()
	assert.Equal(t, Idle, w.State())

	require.NoError(t, w.Select(WelcomeChannel, t0))
	field, ends, ok := w.Awaiting()
	require.True(t, ok)
	assert.Equal(t, WelcomeChannel, field)
	assert.Equal(t, t0.Add(60*time.Second), ends)

	got, err := w.Provide("100", t0.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, WelcomeChannel, got)
	assert.Equal(t, Idle, w.State())
	assert.Equal(t, map[string]string{"welcome_channel": "100"}, w.Confirmed())
}

func TestWizardStepExpiry(t *testing.T) {
	w := newTestWizard()
	require.NoError(t, w.Select(LogChannel, t0))

	_, err := w.Provide("100", t0.Add(61*time.Second))
	assert.ErrorIs(t, err, ErrStepExpired)
	assert.Equal(t, Idle, w.State())
	assert.Empty(t, w.Confirmed())
}

func TestWizardInvalidChannelKeepsWaiting(t *testing.T) {
	w := newTestWizard()
	require.NoError(t, w.Select(CountChannel, t0))

	_, err := w.Provide("", t0.Add(time.Second))
	assert.ErrorIs(t, err, ErrInvalidChannel)
	assert.Equal(t, Awaiting, w.State())

	_, err = w.Provide("200", t0.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"count_channel": "200"}, w.Confirmed())
}

func TestWizardProvideWithoutSelect(t *testing.T) {
	w := newTestWizard()
	_, err := w.Provide("100", t0)
	assert.ErrorIs(t, err, ErrNotAwaiting)
}

func TestWizardReselectSwitchesField(t *testing.T) {
	w := newTestWizard()
	require.NoError(t, w.Select(WelcomeChannel, t0))
	require.NoError(t, w.Select(LeaveChannel, t0.Add(5*time.Second)))

	field, _ := w.Provide("9", t0.Add(6*time.Second))
	assert.Equal(t, LeaveChannel, field)
	assert.Equal(t, map[string]string{"leave_channel": "9"}, w.Confirmed())
}

func TestWizardSessionTimeout(t *testing.T) {
	w := newTestWizard()
	require.NoError(t, w.Select(WelcomeChannel, t0))
	_, err := w.Provide("1", t0.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, w.Select(LeaveChannel, t0.Add(100*time.Second)))

	assert.False(t, w.Tick(t0.Add(119*time.Second)))
	assert.True(t, w.Tick(t0.Add(120*time.Second)))
	assert.Equal(t, Done, w.State())
	assert.Equal(t, TimedOut, w.Reason())

	assert.ErrorIs(t, w.Select(CountChannel, t0.Add(121*time.Second)), ErrClosed)
	assert.False(t, w.Finish(t0.Add(121*time.Second)))
	assert.Equal(t, map[string]string{"welcome_channel": "1"}, w.Confirmed())
}

func TestWizardRejectsUnknownField(t *testing.T) {
	w := newTestWizard()
	assert.ErrorIs(t, w.Select(Field("prefix"), t0), ErrUnknownField)
}

func TestParseChannelMention(t *testing.T) {
	assert.Equal(t, "123", ParseChannelMention("<#123>"))
	assert.Equal(t, "123", ParseChannelMention("  <#123> thanks"))
	assert.Empty(t, ParseChannelMention("#general"))
	assert.Empty(t, ParseChannelMention("<@123>"))
}

type commitRecorder struct {
	mu    sync.Mutex
	calls []map[string]string
	err   error
}

func (c *commitRecorder) commit(_ context.Context, _ string, fields map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fields)
	return c.err
}

func (c *commitRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func TestManagerFinishCommitsOnce(t *testing.T) {
	rec := &commitRecorder{}
	m := NewManager(rec.commit, nil)
	ctx := context.Background()

	m.Start("g1", "u1", "c1")
	require.NoError(t, m.Select("g1", "u1", WelcomeChannel))
	field, ok := m.Waiting("g1", "u1", "c1")
	require.True(t, ok)
	assert.Equal(t, WelcomeChannel, field)

	_, channelID, err := m.Provide("g1", "u1", "<#555>")
	require.NoError(t, err)
	assert.Equal(t, "555", channelID)

	res, err := m.Finish(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, Finished, res.Reason)
	assert.Equal(t, map[string]string{"welcome_channel": "555"}, res.Fields)

	_, err = m.Finish(ctx, "g1", "u1")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, 1, rec.count())
	assert.Zero(t, m.Active())
}

func TestManagerWaitingIsChannelScoped(t *testing.T) {
	m := NewManager(nil, nil)
	m.Start("g1", "u1", "c1")
	require.NoError(t, m.Select("g1", "u1", LogChannel))

	_, ok := m.Waiting("g1", "u1", "c2")
	assert.False(t, ok)
	_, ok = m.Waiting("g1", "u2", "c1")
	assert.False(t, ok)
	m.Close()
}

func TestManagerTimeoutCommitsConfirmedOnly(t *testing.T) {
	rec := &commitRecorder{}
	results := make(chan Result, 1)
	m := NewManager(rec.commit, func(r Result) { results <- r }, WithTimeouts(time.Second, 100*time.Millisecond))

	m.Start("g1", "u1", "c1")
	require.NoError(t, m.Select("g1", "u1", CountChannel))
	_, _, err := m.Provide("g1", "u1", "<#7>")
	require.NoError(t, err)
	require.NoError(t, m.Select("g1", "u1", LogChannel))

	select {
	case res := <-results:
		assert.Equal(t, TimedOut, res.Reason)
		assert.Equal(t, map[string]string{"count_channel": "7"}, res.Fields)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout callback never ran")
	}

	_, err = m.Finish(context.Background(), "g1", "u1")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, 1, rec.count())
}

func TestManagerRestartDiscardsOldSession(t *testing.T) {
	rec := &commitRecorder{}
	var timeouts atomic.Int32
	m := NewManager(rec.commit, func(Result) { timeouts.Add(1) }, WithTimeouts(time.Second, 50*time.Millisecond))

	m.Start("g1", "u1", "c1")
	require.NoError(t, m.Select("g1", "u1", WelcomeChannel))
	_, _, err := m.Provide("g1", "u1", "<#1>")
	require.NoError(t, err)

	m.Start("g1", "u1", "c1")
	res, err := m.Finish(context.Background(), "g1", "u1")
	require.NoError(t, err)
	assert.Empty(t, res.Fields)

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, rec.count())
	assert.Zero(t, timeouts.Load())
}

func TestManagerCommitErrorIsReturned(t *testing.T) {
	rec := &commitRecorder{err: errors.New("disk full")}
	m := NewManager(rec.commit, nil)

	m.Start("g1", "u1", "c1")
	require.NoError(t, m.Select("g1", "u1", EconomyChannel))
	_, _, err := m.Provide("g1", "u1", "<#3>")
	require.NoError(t, err)

	_, err = m.Finish(context.Background(), "g1", "u1")
	assert.ErrorContains(t, err, "disk full")
}

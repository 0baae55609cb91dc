package setup

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/r-4-e/Elura-Utility/pkg/logger"
)

// ErrNoSession is returned when the user has no running wizard in the guild
var ErrNoSession = errors.New("no setup session")

// CommitFunc persists the confirmed fields of a finished wizard
type CommitFunc func(ctx context.Context, guildID string, fields map[string]string) error

// Result describes a wizard that has ended and been committed
type Result struct {
	GuildID   string
	UserID    string
	ChannelID string
	Reason    DoneReason
	Fields    map[string]string
	Err       error
}

type sessionKey struct {
	guildID string
	userID  string
}

type session struct {
	w         *Wizard
	timer     *time.Timer
	committed bool
}

// Manager holds one wizard per guild and user
type Manager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*session

	commit         CommitFunc
	onTimeout      func(Result)
	stepTimeout    time.Duration
	sessionTimeout time.Duration
	commitTimeout  time.Duration
}

// Option configures a Manager
type Option func(*Manager)

// WithTimeouts overrides the per-step and whole-session limits
func WithTimeouts(step, session time.Duration) Option {
	return func(m *Manager) {
		m.stepTimeout = step
		m.sessionTimeout = session
	}
}

// NewManager creates a Manager. onTimeout is called after a timed out wizard has been
// committed, from the timer goroutine.
func NewManager(commit CommitFunc, onTimeout func(Result), opts ...Option) *Manager {
	m := &Manager{
		sessions:       make(map[sessionKey]*session),
		commit:         commit,
		onTimeout:      onTimeout,
		stepTimeout:    DefaultStepTimeout,
		sessionTimeout: DefaultSessionTimeout,
		commitTimeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start opens a wizard for userID, replacing any running one without committing it
func (m *Manager) Start(guildID, userID, channelID string) time.Time {
	k := sessionKey{guildID, userID}
	s := &session{w: NewWizard(guildID, userID, channelID, time.Now(), m.stepTimeout, m.sessionTimeout)}

	m.mu.Lock()
	if old, ok := m.sessions[k]; ok {
		old.w.Cancel()
		old.committed = true
		old.timer.Stop()
		logger.Debug(fmt.Sprintf("Sesión de setup reemplazada en %s por %s", guildID, userID), "Setup")
	}
	m.sessions[k] = s
	s.timer = time.AfterFunc(m.sessionTimeout, func() { m.expire(k, s) })
	m.mu.Unlock()

	return s.w.Deadline()
}

// Select asks the wizard to wait for a channel for field
func (m *Manager) Select(guildID, userID string, field Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey{guildID, userID}]
	if !ok {
		return ErrNoSession
	}
	return s.w.Select(field, time.Now())
}

// Waiting reports whether userID's wizard is waiting for a channel in channelID
func (m *Manager) Waiting(guildID, userID, channelID string) (Field, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey{guildID, userID}]
	if !ok || s.w.ChannelID != channelID {
		return "", false
	}
	field, _, awaiting := s.w.Awaiting()
	return field, awaiting
}

// Provide feeds a message answering the selected field
func (m *Manager) Provide(guildID, userID, content string) (Field, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey{guildID, userID}]
	if !ok {
		return "", "", ErrNoSession
	}
	channelID := ParseChannelMention(content)
	field, err := s.w.Provide(channelID, time.Now())
	return field, channelID, err
}

// Finish ends the wizard and commits what was confirmed
func (m *Manager) Finish(ctx context.Context, guildID, userID string) (Result, error) {
	k := sessionKey{guildID, userID}

	m.mu.Lock()
	s, ok := m.sessions[k]
	if !ok {
		m.mu.Unlock()
		return Result{}, ErrNoSession
	}
	s.w.Finish(time.Now())
	claimed := m.claim(k, s)
	m.mu.Unlock()

	if !claimed {
		return Result{}, ErrNoSession
	}
	res := m.run(ctx, s.w)
	return res, res.Err
}

// Active returns the number of running wizards
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close cancels every running wizard without committing
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, s := range m.sessions {
		s.w.Cancel()
		s.committed = true
		s.timer.Stop()
		delete(m.sessions, k)
	}
}

func (m *Manager) expire(k sessionKey, s *session) {
	m.mu.Lock()
	s.w.Tick(s.w.Deadline())
	claimed := m.claim(k, s)
	m.mu.Unlock()

	if !claimed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.commitTimeout)
	defer cancel()
	res := m.run(ctx, s.w)
	logger.Info(fmt.Sprintf("Setup de %s en %s expiró con %d campos confirmados", k.userID, k.guildID, len(res.Fields)), "Setup")
	if m.onTimeout != nil {
		m.onTimeout(res)
	}
}

// claim marks s committed exactly once. Must be called with mu held.
func (m *Manager) claim(k sessionKey, s *session) bool {
	if s.committed {
		return false
	}
	s.committed = true
	s.timer.Stop()
	if m.sessions[k] == s {
		delete(m.sessions, k)
	}
	return true
}

func (m *Manager) run(ctx context.Context, w *Wizard) Result {
	res := Result{
		GuildID:   w.GuildID,
		UserID:    w.UserID,
		ChannelID: w.ChannelID,
		Reason:    w.Reason(),
		Fields:    w.Confirmed(),
	}
	if len(res.Fields) > 0 && m.commit != nil {
		if err := m.commit(ctx, w.GuildID, res.Fields); err != nil {
			res.Err = fmt.Errorf("committing setup: %w", err)
		}
	}
	return res
}

var channelMention = regexp.MustCompile(`^\s*<#(\d+)>`)

// ParseChannelMention returns the channel ID of a leading <#id> mention
func ParseChannelMention(content string) string {
	m := channelMention.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[1]
}

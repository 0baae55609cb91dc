// Package setup implements the /setup wizard. A Wizard is a pure state machine driven
// with explicit timestamps; the Manager owns live sessions, their overall timeout and
// the single commit of the confirmed fields.
package setup

import (
	"errors"
	"time"

	"github.com/r-4-e/Elura-Utility/pkg/models"
)

// Field is a configurable channel
type Field string

const (
	WelcomeChannel Field = models.FieldWelcomeChannel
	LeaveChannel   Field = models.FieldLeaveChannel
	CountChannel   Field = models.FieldCountChannel
	LogChannel     Field = models.FieldLogChannel
	EconomyChannel Field = models.FieldEconomyChannel
)

// Fields in the order the wizard offers them
var Fields = []Field{WelcomeChannel, LeaveChannel, CountChannel, LogChannel, EconomyChannel}

// Label is the human name used on buttons and prompts
func (f Field) Label() string {
	switch f {
	case WelcomeChannel:
		return "Welcome Channel"
	case LeaveChannel:
		return "Leave Channel"
	case CountChannel:
		return "Count Channel"
	case LogChannel:
		return "Logs Channel"
	case EconomyChannel:
		return "Economy Channel"
	}
	return string(f)
}

// Valid reports whether f is one of Fields
func (f Field) Valid() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

const (
	DefaultStepTimeout    = 60 * time.Second
	DefaultSessionTimeout = 120 * time.Second
)

// State of a wizard
type State int

const (
	Idle State = iota
	Awaiting
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Awaiting:
		return "awaiting"
	case Done:
		return "done"
	}
	return "unknown"
}

// DoneReason says how a wizard ended
type DoneReason int

const (
	NotDone DoneReason = iota
	Finished
	TimedOut
	Cancelled
)

func (r DoneReason) String() string {
	switch r {
	case Finished:
		return "finished"
	case TimedOut:
		return "timeout"
	case Cancelled:
		return "cancelled"
	}
	return "running"
}

var (
	ErrStepExpired    = errors.New("setup step expired")
	ErrInvalidChannel = errors.New("invalid channel")
	ErrUnknownField   = errors.New("unknown setup field")
	ErrNotAwaiting    = errors.New("no field selected")
	ErrClosed         = errors.New("setup already finished")
)

// Wizard tracks which fields have been confirmed. It is not safe for concurrent use.
type Wizard struct {
	GuildID   string
	UserID    string
	ChannelID string

	stepTimeout time.Duration
	deadline    time.Time
	state       State
	field       Field
	stepEnds    time.Time
	reason      DoneReason
	confirmed   map[Field]string
}

// NewWizard starts an idle wizard at now
func NewWizard(guildID, userID, channelID string, now time.Time, stepTimeout, sessionTimeout time.Duration) *Wizard {
	return &Wizard{
		GuildID:     guildID,
		UserID:      userID,
		ChannelID:   channelID,
		stepTimeout: stepTimeout,
		deadline:    now.Add(sessionTimeout),
		confirmed:   make(map[Field]string),
	}
}

// State returns the current state
func (w *Wizard) State() State {
	return w.state
}

// Awaiting returns the selected field and the time its step expires
func (w *Wizard) Awaiting() (Field, time.Time, bool) {
	if w.state != Awaiting {
		return "", time.Time{}, false
	}
	return w.field, w.stepEnds, true
}

// Reason returns why the wizard ended, or NotDone
func (w *Wizard) Reason() DoneReason {
	return w.reason
}

// Deadline is when the whole session times out
func (w *Wizard) Deadline() time.Time {
	return w.deadline
}

// Select starts waiting for a channel for field. Selecting while already waiting
// switches to the new field.
func (w *Wizard) Select(field Field, now time.Time) error {
	if w.Tick(now) {
		return ErrClosed
	}
	if !field.Valid() {
		return ErrUnknownField
	}
	w.state = Awaiting
	w.field = field
	w.stepEnds = now.Add(w.stepTimeout)
	return nil
}

// Provide confirms a channel for the selected field. A late answer drops back to Idle
// without confirming; an empty channel keeps waiting.
func (w *Wizard) Provide(channelID string, now time.Time) (Field, error) {
	if w.Tick(now) {
		return "", ErrClosed
	}
	if w.state != Awaiting {
		return "", ErrNotAwaiting
	}
	field := w.field
	if now.After(w.stepEnds) {
		w.state = Idle
		w.field = ""
		return field, ErrStepExpired
	}
	if channelID == "" {
		return field, ErrInvalidChannel
	}
	w.confirmed[field] = channelID
	w.state = Idle
	w.field = ""
	return field, nil
}

// Finish ends the wizard. It reports false when it had already ended.
func (w *Wizard) Finish(now time.Time) bool {
	if w.Tick(now) {
		return false
	}
	w.close(Finished)
	return true
}

// Cancel ends the wizard without a finish
func (w *Wizard) Cancel() bool {
	if w.state == Done {
		return false
	}
	w.close(Cancelled)
	return true
}

// Tick applies the session timeout and reports whether the wizard is done
func (w *Wizard) Tick(now time.Time) bool {
	if w.state == Done {
		return true
	}
	if !now.Before(w.deadline) {
		w.close(TimedOut)
		return true
	}
	return false
}

func (w *Wizard) close(reason DoneReason) {
	w.state = Done
	w.field = ""
	w.reason = reason
}

// Confirmed returns a copy of the fields that received a channel, keyed by settings name
func (w *Wizard) Confirmed() map[string]string {
	out := make(map[string]string, len(w.confirmed))
	for f, id := range w.confirmed {
		out[string(f)] = id
	}
	return out
}

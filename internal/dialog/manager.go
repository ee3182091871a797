package dialog

import (
	"sync"

	"github.com/rs/zerolog"

	"weatherbot/internal/domain"
)

// Registry is the slice of the user registry the dialogs mutate.
type Registry interface {
	Get(id int64) domain.UserProfile
	AddSchedule(id int64, t domain.TriggerTime) (bool, error)
	SetTimezone(id int64, offsetHours int) error
}

// session is transient per-user dialog state. It exists only while a
// dialog is active and is never persisted.
type session struct {
	state State
	rng   int // selected HourRanges index, meaningful in StateTimeSelect
}

// Manager owns at most one active session per user. Starting a new dialog
// while another is active supersedes it.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*session

	reg Registry
	log zerolog.Logger
}

func NewManager(reg Registry, log zerolog.Logger) *Manager {
	return &Manager{sessions: map[int64]*session{}, reg: reg, log: log}
}

// Active reports whether the user has a dialog in progress.
func (m *Manager) Active(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	return ok
}

// StartSchedule begins the schedule-setup dialog. Users without a stored
// location are bounced straight back to idle and no session is created.
func (m *Manager) StartSchedule(id int64) Outcome {
	if !m.reg.Get(id).HasLocation {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return Outcome{State: StateIdle, Effect: EffectNoLocation}
	}
	m.mu.Lock()
	m.sessions[id] = &session{state: StateRangeSelect}
	m.mu.Unlock()
	return Outcome{State: StateRangeSelect, Effect: EffectPromptRange}
}

// StartTimezone begins the timezone-setup dialog.
func (m *Manager) StartTimezone(id int64) Outcome {
	m.mu.Lock()
	m.sessions[id] = &session{state: StateTimezoneSelect}
	m.mu.Unlock()
	return Outcome{State: StateTimezoneSelect, Effect: EffectPromptTimezone}
}

// Handle feeds one event to the user's active dialog. The returned error
// is only ever a persistence write-through failure: the transition itself
// has already happened and the caller just logs it.
func (m *Manager) Handle(id int64, ev Event) (Outcome, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return Outcome{State: StateIdle, Effect: EffectNone}, nil
	}

	// A universal cancel works from every state and never mutates.
	if ev.Kind == EventCancel {
		m.drop(id)
		return Outcome{State: StateIdle, Effect: EffectCancelled}, nil
	}

	var (
		out Outcome
		err error
	)
	switch s.state {
	case StateRangeSelect, StateTimeSelect, StateContinuePrompt:
		out, err = m.stepSchedule(id, s, ev)
	case StateTimezoneSelect:
		out, err = m.stepTimezone(id, ev)
	default:
		m.drop(id)
		out = Outcome{State: StateIdle, Effect: EffectCancelled}
	}

	if out.State == StateIdle {
		m.drop(id)
	} else {
		m.mu.Lock()
		m.sessions[id] = s
		m.mu.Unlock()
	}
	return out, err
}

func (m *Manager) drop(id int64) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

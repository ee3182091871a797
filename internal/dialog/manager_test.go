package dialog

import (
	"testing"

	"github.com/rs/zerolog"

	"weatherbot/internal/domain"
)

// fakeRegistry implements Registry with canned profiles and records
// every mutation.
type fakeRegistry struct {
	profile   domain.UserProfile
	added     []domain.TriggerTime
	offsets   []int
	duplicate bool
}

func (f *fakeRegistry) Get(id int64) domain.UserProfile { return f.profile }

func (f *fakeRegistry) AddSchedule(id int64, t domain.TriggerTime) (bool, error) {
	if f.duplicate {
		return false, nil
	}
	f.added = append(f.added, t)
	return true, nil
}

func (f *fakeRegistry) SetTimezone(id int64, offsetHours int) error {
	f.offsets = append(f.offsets, offsetHours)
	return nil
}

func located() *fakeRegistry {
	return &fakeRegistry{profile: domain.UserProfile{ID: 1, HasLocation: true}}
}

func TestStartScheduleRequiresLocation(t *testing.T) {
	t.Parallel()
	reg := &fakeRegistry{}
	m := NewManager(reg, zerolog.Nop())

	out := m.StartSchedule(1)
	if out.Effect != EffectNoLocation || out.State != StateIdle {
		t.Fatalf("outcome = %+v", out)
	}
	if m.Active(1) {
		t.Fatal("session created without location")
	}
}

func TestScheduleHappyPath(t *testing.T) {
	t.Parallel()
	reg := located()
	m := NewManager(reg, zerolog.Nop())

	out := m.StartSchedule(1)
	if out.Effect != EffectPromptRange {
		t.Fatalf("start effect = %v", out.Effect)
	}

	out, err := m.Handle(1, Event{Kind: EventPickRange, Range: 2}) // 08-11
	if err != nil || out.Effect != EffectPromptTime || out.Range != 2 {
		t.Fatalf("range pick: %+v, %v", out, err)
	}

	trig := domain.TriggerTime{Hour: 9, Minute: 30}
	out, err = m.Handle(1, Event{Kind: EventPickTime, Time: trig})
	if err != nil || out.Effect != EffectAdded || out.Time != trig {
		t.Fatalf("time pick: %+v, %v", out, err)
	}
	if len(reg.added) != 1 || reg.added[0] != trig {
		t.Fatalf("registry mutation: %v", reg.added)
	}

	out, _ = m.Handle(1, Event{Kind: EventContinueNo})
	if out.Effect != EffectDone || out.State != StateIdle {
		t.Fatalf("finish: %+v", out)
	}
	if m.Active(1) {
		t.Fatal("session survived completion")
	}
}

func TestScheduleContinueYesLoops(t *testing.T) {
	t.Parallel()
	m := NewManager(located(), zerolog.Nop())
	m.StartSchedule(1)
	m.Handle(1, Event{Kind: EventPickRange, Range: 0})
	m.Handle(1, Event{Kind: EventPickTime, Time: domain.TriggerTime{Hour: 1, Minute: 0}})

	out, _ := m.Handle(1, Event{Kind: EventContinueYes})
	if out.State != StateRangeSelect || out.Effect != EffectPromptRange {
		t.Fatalf("continue-yes: %+v", out)
	}
	if !m.Active(1) {
		t.Fatal("session dropped on continue")
	}
}

func TestScheduleDuplicateKeepsFlow(t *testing.T) {
	t.Parallel()
	reg := located()
	reg.duplicate = true
	m := NewManager(reg, zerolog.Nop())
	m.StartSchedule(1)
	m.Handle(1, Event{Kind: EventPickRange, Range: 1})

	out, err := m.Handle(1, Event{Kind: EventPickTime, Time: domain.TriggerTime{Hour: 5, Minute: 15}})
	if err != nil {
		t.Fatalf("duplicate pick errored: %v", err)
	}
	if out.Effect != EffectDuplicate || out.State != StateContinuePrompt {
		t.Fatalf("duplicate outcome: %+v", out)
	}
}

func TestScheduleRejectsOutOfBandAndOffGrid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		trig domain.TriggerTime
	}{
		{name: "outside chosen band", trig: domain.TriggerTime{Hour: 15, Minute: 0}},
		{name: "off-grid minute", trig: domain.TriggerTime{Hour: 9, Minute: 10}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg := located()
			m := NewManager(reg, zerolog.Nop())
			m.StartSchedule(1)
			m.Handle(1, Event{Kind: EventPickRange, Range: 2}) // 08-11

			out, _ := m.Handle(1, Event{Kind: EventPickTime, Time: tt.trig})
			if out.Effect != EffectInvalid || out.State != StateRangeSelect {
				t.Fatalf("outcome: %+v", out)
			}
			if len(reg.added) != 0 {
				t.Fatalf("registry mutated: %v", reg.added)
			}
		})
	}
}

func TestContinuePromptUnrecognizedReprompts(t *testing.T) {
	t.Parallel()
	reg := located()
	m := NewManager(reg, zerolog.Nop())
	m.StartSchedule(1)
	m.Handle(1, Event{Kind: EventPickRange, Range: 0})
	m.Handle(1, Event{Kind: EventPickTime, Time: domain.TriggerTime{Hour: 1, Minute: 0}})

	// Free text instead of yes/no restarts selection, keeping the session.
	out, _ := m.Handle(1, Event{Kind: EventUnrecognized})
	if out.State != StateRangeSelect || out.Effect != EffectInvalid {
		t.Fatalf("outcome: %+v", out)
	}
	if !m.Active(1) {
		t.Fatal("session dropped on unrecognized input")
	}
	if len(reg.added) != 1 {
		t.Fatalf("unrecognized input mutated registry: %v", reg.added)
	}
}

func TestBackReturnsToRangeSelect(t *testing.T) {
	t.Parallel()
	m := NewManager(located(), zerolog.Nop())
	m.StartSchedule(1)
	m.Handle(1, Event{Kind: EventPickRange, Range: 3})

	out, _ := m.Handle(1, Event{Kind: EventBack})
	if out.State != StateRangeSelect || out.Effect != EffectPromptRange {
		t.Fatalf("back: %+v", out)
	}
}

func TestCancelFromEveryState(t *testing.T) {
	t.Parallel()
	setups := []struct {
		name  string
		setup func(m *Manager)
	}{
		{name: "range select", setup: func(m *Manager) {
			m.StartSchedule(1)
		}},
		{name: "time select", setup: func(m *Manager) {
			m.StartSchedule(1)
			m.Handle(1, Event{Kind: EventPickRange, Range: 0})
		}},
		{name: "continue prompt", setup: func(m *Manager) {
			m.StartSchedule(1)
			m.Handle(1, Event{Kind: EventPickRange, Range: 0})
			m.Handle(1, Event{Kind: EventPickTime, Time: domain.TriggerTime{Hour: 2, Minute: 0}})
		}},
		{name: "timezone select", setup: func(m *Manager) {
			m.StartTimezone(1)
		}},
	}
	for _, tt := range setups {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg := located()
			m := NewManager(reg, zerolog.Nop())
			tt.setup(m)

			out, err := m.Handle(1, Event{Kind: EventCancel})
			if err != nil {
				t.Fatalf("cancel errored: %v", err)
			}
			if out.Effect != EffectCancelled || out.State != StateIdle {
				t.Fatalf("cancel outcome: %+v", out)
			}
			if m.Active(1) {
				t.Fatal("session survived cancel")
			}
			if len(reg.offsets) != 0 {
				t.Fatalf("cancel mutated timezone: %v", reg.offsets)
			}
		})
	}
}

func TestHandleWithoutSessionIsNoop(t *testing.T) {
	t.Parallel()
	m := NewManager(located(), zerolog.Nop())
	out, err := m.Handle(1, Event{Kind: EventPickRange, Range: 0})
	if err != nil || out.Effect != EffectNone || out.State != StateIdle {
		t.Fatalf("outcome: %+v, %v", out, err)
	}
}

func TestTimezonePick(t *testing.T) {
	t.Parallel()
	reg := located()
	m := NewManager(reg, zerolog.Nop())
	m.StartTimezone(1)

	out, err := m.Handle(1, Event{Kind: EventPickTimezone, Offset: -7})
	if err != nil {
		t.Fatalf("pick errored: %v", err)
	}
	if out.Effect != EffectTimezoneSet || out.Offset != -7 {
		t.Fatalf("outcome: %+v", out)
	}
	if len(reg.offsets) != 1 || reg.offsets[0] != -7 {
		t.Fatalf("registry mutation: %v", reg.offsets)
	}
	if m.Active(1) {
		t.Fatal("session survived completion")
	}
}

func TestTimezoneInvalidOffsetCancels(t *testing.T) {
	t.Parallel()
	reg := located()
	m := NewManager(reg, zerolog.Nop())
	m.StartTimezone(1)

	out, _ := m.Handle(1, Event{Kind: EventPickTimezone, Offset: 99})
	if out.Effect != EffectCancelled {
		t.Fatalf("outcome: %+v", out)
	}
	if len(reg.offsets) != 0 {
		t.Fatalf("invalid offset mutated registry: %v", reg.offsets)
	}
}

func TestStartTimezoneSupersedesSchedule(t *testing.T) {
	t.Parallel()
	m := NewManager(located(), zerolog.Nop())
	m.StartSchedule(1)
	m.StartTimezone(1)

	out, _ := m.Handle(1, Event{Kind: EventPickTimezone, Offset: 3})
	if out.Effect != EffectTimezoneSet {
		t.Fatalf("superseded dialog did not take over: %+v", out)
	}
}

func TestTimezoneChoicesRange(t *testing.T) {
	t.Parallel()
	choices := TimezoneChoices()
	if len(choices) != 25 {
		t.Fatalf("len = %d, want 25", len(choices))
	}
	if choices[0] != -12 || choices[len(choices)-1] != 12 {
		t.Fatalf("bounds = %d..%d", choices[0], choices[len(choices)-1])
	}
}

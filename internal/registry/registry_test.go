package registry

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"weatherbot/internal/domain"
)

// memGateway records every Save so write-through behavior is observable.
type memGateway struct {
	saves int
	last  map[int64]domain.UserProfile
	err   error
}

func (g *memGateway) Load() (map[int64]domain.UserProfile, error) { return g.last, nil }

func (g *memGateway) Save(users map[int64]domain.UserProfile) error {
	g.saves++
	g.last = users
	return g.err
}

func newTestRegistry(gw *memGateway) *Registry {
	return New(gw, nil, zerolog.Nop())
}

func TestGetCreatesDefaultProfile(t *testing.T) {
	t.Parallel()
	gw := &memGateway{}
	r := newTestRegistry(gw)

	p := r.Get(42)
	if p.ID != 42 || p.HasLocation || p.TZOffset != 0 || len(p.Schedules) != 0 {
		t.Fatalf("unexpected default profile: %+v", p)
	}
	if gw.saves != 1 {
		t.Fatalf("expected one persist after first contact, got %d", gw.saves)
	}
	// Second Get must not create or persist again.
	r.Get(42)
	if gw.saves != 1 {
		t.Fatalf("repeat Get persisted again: %d saves", gw.saves)
	}
}

func TestAddScheduleSortedAndDeduplicated(t *testing.T) {
	t.Parallel()
	gw := &memGateway{}
	r := newTestRegistry(gw)

	for _, trig := range []domain.TriggerTime{
		{Hour: 20, Minute: 0},
		{Hour: 8, Minute: 30},
	} {
		added, err := r.AddSchedule(1, trig)
		if err != nil || !added {
			t.Fatalf("AddSchedule(%s) = %v, %v", trig, added, err)
		}
	}

	added, err := r.AddSchedule(1, domain.TriggerTime{Hour: 8, Minute: 30})
	if err != nil {
		t.Fatalf("duplicate add errored: %v", err)
	}
	if added {
		t.Fatal("duplicate add reported true")
	}

	p := r.Get(1)
	if len(p.Schedules) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(p.Schedules))
	}
	if !p.Schedules[0].Before(p.Schedules[1]) {
		t.Fatalf("schedules not sorted: %v", p.Schedules)
	}
}

func TestAddScheduleRejectsOffGrid(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(&memGateway{})
	if _, err := r.AddSchedule(1, domain.TriggerTime{Hour: 8, Minute: 7}); err == nil {
		t.Fatal("off-grid minute accepted")
	}
}

func TestRemoveScheduleAt(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(&memGateway{})
	for _, trig := range []domain.TriggerTime{
		{Hour: 8, Minute: 0}, {Hour: 12, Minute: 15}, {Hour: 20, Minute: 30},
	} {
		if _, err := r.AddSchedule(1, trig); err != nil {
			t.Fatalf("AddSchedule: %v", err)
		}
	}

	trig, ok, err := r.RemoveScheduleAt(1, 1)
	if err != nil || !ok {
		t.Fatalf("RemoveScheduleAt = %v, %v", ok, err)
	}
	if trig != (domain.TriggerTime{Hour: 12, Minute: 15}) {
		t.Fatalf("removed %s, want 12:15", trig)
	}

	if _, ok, _ := r.RemoveScheduleAt(1, 5); ok {
		t.Fatal("out-of-range index reported removal")
	}
	if got := len(r.Get(1).Schedules); got != 2 {
		t.Fatalf("expected 2 schedules left, got %d", got)
	}
}

func TestRemoveScheduleByValue(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(&memGateway{})
	trig := domain.TriggerTime{Hour: 8, Minute: 0}
	_, _ = r.AddSchedule(1, trig)

	removed, err := r.RemoveSchedule(1, trig)
	if err != nil || !removed {
		t.Fatalf("RemoveSchedule = %v, %v", removed, err)
	}
	removed, err = r.RemoveSchedule(1, trig)
	if err != nil {
		t.Fatalf("second remove errored: %v", err)
	}
	if removed {
		t.Fatal("absent trigger reported removed")
	}
}

func TestClearSchedules(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(&memGateway{})
	_, _ = r.AddSchedule(1, domain.TriggerTime{Hour: 8, Minute: 0})
	_, _ = r.AddSchedule(1, domain.TriggerTime{Hour: 9, Minute: 0})

	n, err := r.ClearSchedules(1)
	if err != nil {
		t.Fatalf("ClearSchedules: %v", err)
	}
	if n != 2 {
		t.Fatalf("cleared %d, want 2", n)
	}
	if got := len(r.Get(1).Schedules); got != 0 {
		t.Fatalf("schedules remain after clear: %d", got)
	}
}

func TestSetTimezoneValidation(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(&memGateway{})
	if err := r.SetTimezone(1, 14); err != nil {
		t.Fatalf("offset +14 rejected: %v", err)
	}
	if err := r.SetTimezone(1, 15); err == nil {
		t.Fatal("offset +15 accepted")
	}
	if got := r.Get(1).TZOffset; got != 14 {
		t.Fatalf("invalid offset mutated state: %d", got)
	}
}

func TestWriteThroughErrorSurfacesButStateStands(t *testing.T) {
	t.Parallel()
	gw := &memGateway{err: errors.New("disk full")}
	r := newTestRegistry(gw)

	err := r.SetLocation(1, 55.75, 37.62)
	if err == nil {
		t.Fatal("expected persist error")
	}
	// In-memory state stays authoritative.
	if p := r.Get(1); !p.HasLocation {
		t.Fatal("mutation rolled back on persist failure")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(&memGateway{})
	_ = r.SetLocation(1, 10, 20)
	_ = r.SetTimezone(1, 3)
	_, _ = r.AddSchedule(1, domain.TriggerTime{Hour: 8, Minute: 0})

	if err := r.Reset(1); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	p := r.Get(1)
	if p.HasLocation || p.TZOffset != 0 || len(p.Schedules) != 0 {
		t.Fatalf("profile not reset: %+v", p)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()
	r := newTestRegistry(&memGateway{})
	_, _ = r.AddSchedule(1, domain.TriggerTime{Hour: 8, Minute: 0})

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot len = %d", len(snap))
	}
	snap[0].Schedules[0] = domain.TriggerTime{Hour: 23, Minute: 45}
	if got := r.Get(1).Schedules[0]; got != (domain.TriggerTime{Hour: 8, Minute: 0}) {
		t.Fatalf("snapshot aliases registry state: %s", got)
	}
}

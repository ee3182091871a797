// Package registry owns all user profiles and serializes their mutation.
//
// Dialog handlers mutate profiles while the scheduler loop reads them, so
// every operation takes the registry lock and readers only ever receive
// deep copies. Each mutation writes through to the persistence gateway;
// the in-memory state stays authoritative when the write fails, and the
// error is returned so the caller can log it.
package registry

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"weatherbot/internal/domain"
	"weatherbot/internal/storage"
)

type Registry struct {
	mu    sync.Mutex
	users map[int64]*domain.UserProfile

	gw  storage.Gateway
	log zerolog.Logger
}

// New builds a registry seeded with previously persisted profiles.
func New(gw storage.Gateway, seed map[int64]domain.UserProfile, log zerolog.Logger) *Registry {
	users := make(map[int64]*domain.UserProfile, len(seed))
	for id, p := range seed {
		c := p.Clone()
		c.ID = id
		c.SortSchedules()
		users[id] = &c
	}
	return &Registry{users: users, gw: gw, log: log}
}

// Get returns a copy of the user's profile, creating (and persisting) a
// default one on first reference.
func (r *Registry) Get(id int64) domain.UserProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.users[id]
	if !ok {
		np := domain.DefaultProfile(id)
		p = &np
		r.users[id] = p
		if err := r.persistLocked(); err != nil {
			r.log.Warn().Err(err).Int64("user", id).Msg("persist after profile create failed")
		}
	}
	return p.Clone()
}

func (r *Registry) SetLocation(id int64, lat, lon float64) error {
	if err := domain.ValidateCoordinates(lat, lon); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.getLocked(id)
	p.Lat = lat
	p.Lon = lon
	p.HasLocation = true
	return r.persistLocked()
}

// AddSchedule inserts t into the user's schedule set. It returns false
// with no mutation when t is already present.
func (r *Registry) AddSchedule(id int64, t domain.TriggerTime) (bool, error) {
	if err := domain.ValidateTrigger(t); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.getLocked(id)
	if p.HasSchedule(t) {
		return false, nil
	}
	p.Schedules = append(p.Schedules, t)
	p.SortSchedules()
	return true, r.persistLocked()
}

func (r *Registry) RemoveSchedule(id int64, t domain.TriggerTime) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.getLocked(id)
	for i, s := range p.Schedules {
		if s == t {
			p.Schedules = append(p.Schedules[:i], p.Schedules[i+1:]...)
			return true, r.persistLocked()
		}
	}
	return false, nil
}

// RemoveScheduleAt removes the i-th entry of the sorted schedule list.
// The delete keyboard addresses entries by position.
func (r *Registry) RemoveScheduleAt(id int64, i int) (domain.TriggerTime, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.getLocked(id)
	if i < 0 || i >= len(p.Schedules) {
		return domain.TriggerTime{}, false, nil
	}
	t := p.Schedules[i]
	p.Schedules = append(p.Schedules[:i], p.Schedules[i+1:]...)
	err := r.persistLocked()
	return t, true, err
}

// ClearSchedules drops every schedule entry and reports how many there were.
func (r *Registry) ClearSchedules(id int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.getLocked(id)
	n := len(p.Schedules)
	p.Schedules = nil
	return n, r.persistLocked()
}

func (r *Registry) SetTimezone(id int64, offsetHours int) error {
	if err := domain.ValidateOffset(offsetHours); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.getLocked(id)
	p.TZOffset = offsetHours
	return r.persistLocked()
}

// Reset restores the all-default profile. The user is never deleted.
func (r *Registry) Reset(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	np := domain.DefaultProfile(id)
	r.users[id] = &np
	return r.persistLocked()
}

// Snapshot returns deep copies of every profile so the scheduler can
// iterate without holding the lock.
func (r *Registry) Snapshot() []domain.UserProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.UserProfile, 0, len(r.users))
	for _, p := range r.users {
		out = append(out, p.Clone())
	}
	return out
}

func (r *Registry) getLocked(id int64) *domain.UserProfile {
	p, ok := r.users[id]
	if !ok {
		np := domain.DefaultProfile(id)
		p = &np
		r.users[id] = p
	}
	return p
}

func (r *Registry) persistLocked() error {
	if r.gw == nil {
		return nil
	}
	snap := make(map[int64]domain.UserProfile, len(r.users))
	for id, p := range r.users {
		snap[id] = p.Clone()
	}
	if err := r.gw.Save(snap); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	return nil
}

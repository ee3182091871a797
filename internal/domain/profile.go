package domain

import (
	"fmt"
	"sort"
)

const (
	// MinTZOffset and MaxTZOffset bound the accepted whole-hour UTC offset.
	MinTZOffset = -12
	MaxTZOffset = 14
)

// ValidationError reports malformed user input (coordinates, timezone
// offset, trigger time). State is never mutated when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UserProfile holds everything the bot knows about one user.
//
// Profiles are exclusively owned by the registry; the scheduler only ever
// sees deep copies. Schedules are kept sorted and duplicate-free.
type UserProfile struct {
	ID          int64
	Lat         float64
	Lon         float64
	HasLocation bool
	TZOffset    int
	Schedules   []TriggerTime
}

// DefaultProfile returns the all-default profile created on first contact.
func DefaultProfile(id int64) UserProfile {
	return UserProfile{ID: id}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (p UserProfile) Clone() UserProfile {
	c := p
	if p.Schedules != nil {
		c.Schedules = make([]TriggerTime, len(p.Schedules))
		copy(c.Schedules, p.Schedules)
	}
	return c
}

// SortSchedules restores the ascending order invariant in place.
func (p *UserProfile) SortSchedules() {
	sort.Slice(p.Schedules, func(i, j int) bool {
		return p.Schedules[i].Before(p.Schedules[j])
	})
}

// HasSchedule reports whether t is already present.
func (p *UserProfile) HasSchedule(t TriggerTime) bool {
	for _, s := range p.Schedules {
		if s == t {
			return true
		}
	}
	return false
}

func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return &ValidationError{Field: "latitude", Reason: fmt.Sprintf("%.4f not in [-90, 90]", lat)}
	}
	if lon < -180 || lon > 180 {
		return &ValidationError{Field: "longitude", Reason: fmt.Sprintf("%.4f not in [-180, 180]", lon)}
	}
	return nil
}

func ValidateOffset(hours int) error {
	if hours < MinTZOffset || hours > MaxTZOffset {
		return &ValidationError{Field: "timezone offset", Reason: fmt.Sprintf("%+d not in [%d, %d]", hours, MinTZOffset, MaxTZOffset)}
	}
	return nil
}

func ValidateTrigger(t TriggerTime) error {
	if !t.Valid() {
		return &ValidationError{Field: "trigger time", Reason: fmt.Sprintf("%02d:%02d not on the 15-minute grid", t.Hour, t.Minute)}
	}
	return nil
}

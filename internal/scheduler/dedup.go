// Package scheduler runs the notification loop and tracks which triggers
// already fired today.
package scheduler

import (
	"sync"

	"weatherbot/internal/domain"
)

// DateLayout is the calendar-date part of a dedup key.
const DateLayout = "2006-01-02"

// Key identifies one delivery obligation: this user, this local calendar
// date, this trigger time.
type Key struct {
	UserID  int64
	Date    string
	Trigger domain.TriggerTime
}

// Dedup remembers which keys fired. It lives in memory only: a restart
// forgets today's deliveries, which makes scheduled sends at-least-once
// across restarts. That trade-off is deliberate.
type Dedup struct {
	mu    sync.Mutex
	fired map[Key]struct{}
}

func NewDedup() *Dedup {
	return &Dedup{fired: map[Key]struct{}{}}
}

func (d *Dedup) HasFired(k Key) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.fired[k]
	return ok
}

func (d *Dedup) MarkFired(k Key) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fired[k] = struct{}{}
}

// PurgeStale removes every key dated strictly before olderThan (dates are
// ISO strings, so lexical order is calendar order). Keys carry local
// calendar dates that can run ahead of or behind UTC, so eviction must
// only ever touch dates no timezone can still be on; a key must never be
// purged by the tick that created it.
func (d *Dedup) PurgeStale(olderThan string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k := range d.fired {
		if k.Date < olderThan {
			delete(d.fired, k)
		}
	}
}

// Len reports how many keys are currently tracked.
func (d *Dedup) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.fired)
}

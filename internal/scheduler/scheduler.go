package scheduler

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"weatherbot/internal/domain"
	"weatherbot/internal/storage"
	"weatherbot/internal/weather"
)

const DefaultTickInterval = 60 * time.Second

// Profiles yields the registry's user snapshot.
type Profiles interface {
	Snapshot() []domain.UserProfile
}

// Source yields weather data for a coordinate pair (the TTL cache).
type Source interface {
	GetOrFetch(ctx context.Context, lat, lon float64) (*weather.Snapshot, error)
}

// Sender dispatches one notification text to one user.
type Sender interface {
	Send(ctx context.Context, userID int64, text string) error
}

// Loop is the notification scheduler: one pass per tick over a registry
// snapshot, matching each user's local wall-clock minute against their
// trigger set.
type Loop struct {
	profiles Profiles
	source   Source
	sender   Sender
	dedup    *Dedup
	hist     *storage.History // optional
	log      zerolog.Logger

	interval time.Duration
	now      func() time.Time
}

func NewLoop(profiles Profiles, source Source, sender Sender, dedup *Dedup, hist *storage.History, interval time.Duration, log zerolog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Loop{
		profiles: profiles,
		source:   source,
		sender:   sender,
		dedup:    dedup,
		hist:     hist,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Run ticks until ctx is canceled. A tick that overruns the interval may
// skip a trigger minute entirely; there is no catch-up.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info().Dur("interval", l.interval).Msg("scheduler started")
	for {
		l.Tick(ctx)
		select {
		case <-ctx.Done():
			l.log.Info().Msg("scheduler stopping")
			return nil
		case <-time.After(l.interval):
		}
	}
}

// Tick runs one scheduling pass. No per-user failure (and no panic) may
// kill the loop.
func (l *Loop) Tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Any("panic", r).Str("stack", string(debug.Stack())).Msg("scheduler tick panicked")
		}
	}()

	nowUTC := l.now().UTC()

	for _, p := range l.profiles.Snapshot() {
		if !p.HasLocation || len(p.Schedules) == 0 {
			continue
		}
		local := nowUTC.Add(time.Duration(p.TZOffset) * time.Hour).Truncate(time.Minute)
		current := domain.TriggerTime{Hour: local.Hour(), Minute: local.Minute()}
		for _, trig := range p.Schedules {
			if trig != current {
				continue
			}
			key := Key{UserID: p.ID, Date: local.Format(DateLayout), Trigger: trig}
			if l.dedup.HasFired(key) {
				continue
			}
			l.deliver(ctx, p, trig, key, local)
		}
	}

	// A key is live while some allowed offset can still be on its local
	// date; the earliest local date trails UTC by MinTZOffset hours, so
	// everything before that date is unreachable and safe to drop.
	cutoff := nowUTC.Add(time.Duration(domain.MinTZOffset) * time.Hour).Format(DateLayout)
	l.dedup.PurgeStale(cutoff)
}

func (l *Loop) deliver(ctx context.Context, p domain.UserProfile, trig domain.TriggerTime, key Key, local time.Time) {
	snap, err := l.source.GetOrFetch(ctx, p.Lat, p.Lon)
	if err != nil {
		// Dropped for this trigger: by the next tick the minute no longer
		// matches, so there is no same-day retry.
		l.log.Warn().Err(err).Int64("user", p.ID).Str("trigger", trig.String()).Msg("weather fetch failed, notification dropped")
		return
	}

	text := weather.FormatNotification(snap, local.Format("15:04"))
	if err := l.sender.Send(ctx, p.ID, text); err != nil {
		l.log.Warn().Err(err).Int64("user", p.ID).Str("trigger", trig.String()).Msg("notification send failed")
		return
	}

	l.dedup.MarkFired(key)
	l.log.Info().Int64("user", p.ID).Str("trigger", trig.String()).Msg("notification sent")

	if l.hist != nil {
		if err := l.hist.Append(ctx, l.now(), p.ID, trig.String(), storage.DeliveryScheduled); err != nil {
			l.log.Warn().Err(err).Int64("user", p.ID).Msg("history append failed")
		}
	}
}

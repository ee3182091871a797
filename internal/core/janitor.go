package core

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"weatherbot/internal/storage"
	"weatherbot/internal/weather"
)

// Janitor periodically drops expired weather cache entries and prunes
// old rows out of the delivery history.
type Janitor struct {
	cron      *cron.Cron
	cache     *weather.Cache
	hist      *storage.History // optional
	every     time.Duration
	retention time.Duration
	log       zerolog.Logger
}

func NewJanitor(cache *weather.Cache, hist *storage.History, every, retention time.Duration, log zerolog.Logger) *Janitor {
	return &Janitor{
		cron:      cron.New(),
		cache:     cache,
		hist:      hist,
		every:     every,
		retention: retention,
		log:       log,
	}
}

func (j *Janitor) Start() error {
	spec := fmt.Sprintf("@every %s", j.every)
	if _, err := j.cron.AddFunc(spec, j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Debug().Str("every", j.every.String()).Msg("janitor scheduled")
	return nil
}

// Stop waits for an in-flight sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) sweep() {
	swept := j.cache.SweepExpired()

	var pruned int64
	if j.hist != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := j.hist.Prune(ctx, time.Now().UTC().Add(-j.retention))
		if err != nil {
			j.log.Warn().Err(err).Msg("history prune failed")
		} else {
			pruned = n
		}
	}
	if swept > 0 || pruned > 0 {
		j.log.Debug().Int("cache_swept", swept).Int64("history_pruned", pruned).Msg("sweep done")
	}
}

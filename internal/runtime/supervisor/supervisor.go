// Package supervisor runs named goroutines tied to a shared context, with
// panic recovery and optional restart-on-failure for long-lived loops.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Supervisor struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger

	wg       sync.WaitGroup
	doneOnce sync.Once
	doneCh   chan struct{}
}

func New(parent context.Context, log zerolog.Logger) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	return &Supervisor{
		ctx:    ctx,
		cancel: cancel,
		log:    log,
		doneCh: make(chan struct{}),
	}
}

func (s *Supervisor) Context() context.Context { return s.ctx }

// Go runs fn once. A panic is logged and swallowed; it never takes the
// process down.
func (s *Supervisor) Go(name string, fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Str("name", name).Any("panic", r).
					Str("stack", string(debug.Stack())).Msg("goroutine panicked")
			}
		}()
		s.log.Debug().Str("name", name).Msg("goroutine started")
		if err := fn(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error().Str("name", name).Err(err).Msg("goroutine failed")
		}
		s.log.Debug().Str("name", name).Msg("goroutine stopped")
	}()
}

// GoRestart runs fn and restarts it with jittered exponential backoff
// whenever it fails or panics, until the supervisor context ends. Clean
// exits stop the loop.
func (s *Supervisor) GoRestart(name string, fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}
	const (
		minBackoff = 250 * time.Millisecond
		maxBackoff = 30 * time.Second
	)
	s.Go(name+".restart", func(ctx context.Context) error {
		backoff := minBackoff
		for {
			if ctx.Err() != nil {
				return nil
			}
			startedAt := time.Now()
			err := runRecovered(ctx, fn)
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || err == nil {
				return nil
			}
			// A long healthy run earns a backoff reset.
			if time.Since(startedAt) >= 30*time.Second {
				backoff = minBackoff
			}
			wait := backoff + time.Duration(time.Now().UnixNano()%int64(backoff/5+1))
			s.log.Warn().Str("name", name).Err(err).Dur("backoff", wait).Msg("goroutine restarting")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	})
}

func runRecovered(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(ctx)
}

// Stop cancels the supervisor context and waits for all goroutines,
// bounded by ctx.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.cancel()
	return s.Wait(ctx)
}

func (s *Supervisor) Wait(ctx context.Context) error {
	s.doneOnce.Do(func() {
		go func() {
			s.wg.Wait()
			close(s.doneCh)
		}()
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.doneCh:
		return nil
	}
}

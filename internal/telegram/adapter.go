// Package telegram is the transport layer: it maps Telegram updates to
// commands and dialog events, renders outcomes as keyboards and text, and
// rate-limits everything going out.
package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"weatherbot/internal/dialog"
	"weatherbot/internal/registry"
	"weatherbot/internal/storage"
	"weatherbot/internal/weather"
)

type Config struct {
	Token       string
	PollTimeout time.Duration
	RatePerSec  int
}

type Bot struct {
	cfg Config
	log zerolog.Logger

	bot     *tele.Bot
	limiter *rate.Limiter

	reg     *registry.Registry
	dialogs *dialog.Manager
	cache   *weather.Cache
	hist    *storage.History // optional

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
}

func New(cfg Config, reg *registry.Registry, dialogs *dialog.Manager, cache *weather.Cache, hist *storage.History, log zerolog.Logger) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 25
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
	})
	if err != nil {
		return nil, err
	}
	return &Bot{
		cfg:     cfg,
		log:     log,
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
		reg:     reg,
		dialogs: dialogs,
		cache:   cache,
		hist:    hist,
	}, nil
}

// Start registers handlers and runs the long poller until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	b.runMu.Lock()
	if b.running {
		b.runMu.Unlock()
		return
	}
	b.running = true
	b.stopCh = make(chan struct{})
	b.runMu.Unlock()

	b.registerHandlers(ctx)

	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	go func() {
		defer close(b.stopCh)
		b.log.Info().Msg("polling started")
		b.bot.Start()
		b.log.Info().Msg("polling stopped")
	}()
}

// Stop waits for the poller to drain, bounded by ctx.
func (b *Bot) Stop(ctx context.Context) error {
	b.runMu.Lock()
	ch := b.stopCh
	b.runMu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send implements the scheduler's Sender: one rate-limited Markdown text
// to one user.
func (b *Bot) Send(ctx context.Context, userID int64, text string) error {
	return b.send(ctx, userID, text, nil)
}

func (b *Bot) send(ctx context.Context, userID int64, text string, markup *tele.ReplyMarkup) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	opt := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if markup != nil {
		opt.ReplyMarkup = markup
	}
	_, err := b.bot.Send(&tele.Chat{ID: userID}, text, opt)
	return err
}

// reply is send with handler-context logging instead of error returns.
func (b *Bot) reply(ctx context.Context, userID int64, text string, markup *tele.ReplyMarkup) {
	if err := b.send(ctx, userID, text, markup); err != nil {
		b.log.Warn().Err(err).Int64("user", userID).Msg("send failed")
	}
}

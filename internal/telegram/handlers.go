package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"weatherbot/internal/dialog"
	"weatherbot/internal/domain"
	"weatherbot/internal/storage"
	"weatherbot/internal/weather"
)

func (b *Bot) registerHandlers(ctx context.Context) {
	b.bot.Handle("/start", func(c tele.Context) error { return b.handleStart(ctx, c) })
	b.bot.Handle("/help", func(c tele.Context) error {
		b.reply(ctx, c.Sender().ID, textHelp, mainKeyboard())
		return nil
	})
	b.bot.Handle("/cancel", func(c tele.Context) error { return b.handleCancel(ctx, c) })
	b.bot.Handle(tele.OnLocation, func(c tele.Context) error { return b.handleLocation(ctx, c) })
	b.bot.Handle(tele.OnText, func(c tele.Context) error { return b.handleText(ctx, c) })
	b.bot.Handle(tele.OnCallback, func(c tele.Context) error { return b.handleCallback(ctx, c) })
}

func (b *Bot) handleStart(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	b.reply(ctx, uid, textWelcome(b.reg.Get(uid)), mainKeyboard())
	return nil
}

func (b *Bot) handleCancel(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	out, _ := b.dialogs.Handle(uid, dialog.Event{Kind: dialog.EventCancel})
	if out.Effect == dialog.EffectNone {
		b.reply(ctx, uid, "Nothing to cancel.", mainKeyboard())
		return nil
	}
	b.renderOutcome(ctx, uid, out)
	return nil
}

// handleText routes free text: an active dialog consumes everything,
// otherwise the main-menu button labels act as commands.
func (b *Bot) handleText(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	if b.dialogs.Active(uid) {
		out, err := b.dialogs.Handle(uid, parseDialogEvent(text))
		if err != nil {
			b.log.Error().Err(err).Int64("user", uid).Msg("dialog persist failed")
		}
		b.renderOutcome(ctx, uid, out)
		return nil
	}

	switch text {
	case btnWeatherNow:
		return b.handleCurrent(ctx, c)
	case btnForecast:
		return b.handleForecast(ctx, c)
	case btnTomorrow:
		return b.handleTomorrow(ctx, c)
	case btnSetup:
		b.renderOutcome(ctx, uid, b.dialogs.StartSchedule(uid))
	case btnList:
		return b.handleList(ctx, c)
	case btnDelete:
		return b.handleDelete(ctx, c)
	case btnTest:
		return b.handleTest(ctx, c)
	case btnTimezone:
		b.renderOutcome(ctx, uid, b.dialogs.StartTimezone(uid))
	case btnReset:
		return b.handleReset(ctx, c)
	case btnHelp:
		b.reply(ctx, uid, textHelp, mainKeyboard())
	default:
		b.reply(ctx, uid, textUnknown, mainKeyboard())
	}
	return nil
}

// parseDialogEvent maps a button label to the dialog event it stands for.
// Time buttons carry an emoji prefix, so the clock value is the last field.
func parseDialogEvent(text string) dialog.Event {
	switch text {
	case btnCancel, "/cancel":
		return dialog.Event{Kind: dialog.EventCancel}
	case btnBack:
		return dialog.Event{Kind: dialog.EventBack}
	case btnContinueYes:
		return dialog.Event{Kind: dialog.EventContinueYes}
	case btnContinueNo:
		return dialog.Event{Kind: dialog.EventContinueNo}
	}
	for i := range dialog.HourRanges {
		if text == rangeLabel(i) {
			return dialog.Event{Kind: dialog.EventPickRange, Range: i}
		}
	}
	if fields := strings.Fields(text); len(fields) > 0 {
		if t, err := domain.ParseTrigger(fields[len(fields)-1]); err == nil {
			return dialog.Event{Kind: dialog.EventPickTime, Time: t}
		}
	}
	return dialog.Event{Kind: dialog.EventUnrecognized}
}

func (b *Bot) renderOutcome(ctx context.Context, uid int64, out dialog.Outcome) {
	switch out.Effect {
	case dialog.EffectPromptRange:
		b.reply(ctx, uid, textRangePrompt, rangeKeyboard())
	case dialog.EffectPromptTime:
		b.reply(ctx, uid, textTimePrompt(out.Range), timeKeyboard(out.Range))
	case dialog.EffectPromptTimezone:
		b.reply(ctx, uid, textTimezonePrompt, timezoneKeyboard())
	case dialog.EffectAdded:
		b.reply(ctx, uid, textAdded(out.Time), continueKeyboard())
	case dialog.EffectDuplicate:
		b.reply(ctx, uid, textDuplicate(out.Time), continueKeyboard())
	case dialog.EffectTimezoneSet:
		b.reply(ctx, uid, textTimezoneSet(out.Offset), mainKeyboard())
	case dialog.EffectCancelled:
		b.reply(ctx, uid, textCancelled, mainKeyboard())
	case dialog.EffectDone:
		b.reply(ctx, uid, textSetupDone, mainKeyboard())
	case dialog.EffectNoLocation:
		b.reply(ctx, uid, textNeedLocation, mainKeyboard())
	case dialog.EffectInvalid:
		b.reply(ctx, uid, textInvalidChoice, rangeKeyboard())
	}
}

func (b *Bot) handleLocation(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	loc := c.Message().Location
	if loc == nil {
		return nil
	}
	if err := b.reg.SetLocation(uid, float64(loc.Lat), float64(loc.Lng)); err != nil {
		b.log.Error().Err(err).Int64("user", uid).Msg("set location failed")
		b.reply(ctx, uid, textFetchFailed, mainKeyboard())
		return nil
	}
	b.reply(ctx, uid, textLocationSaved, mainKeyboard())
	return nil
}

func (b *Bot) handleCurrent(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	p, snap, ok := b.fetchFor(ctx, uid)
	if !ok {
		return nil
	}
	b.reply(ctx, uid, weather.FormatCurrent(snap, p.Lat, p.Lon), mainKeyboard())
	return nil
}

func (b *Bot) handleForecast(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	_, snap, ok := b.fetchFor(ctx, uid)
	if !ok {
		return nil
	}
	if len(snap.Daily) == 0 {
		b.reply(ctx, uid, textFetchFailed, mainKeyboard())
		return nil
	}
	b.reply(ctx, uid, weather.FormatForecast(snap), mainKeyboard())
	return nil
}

func (b *Bot) handleTomorrow(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	p, snap, ok := b.fetchFor(ctx, uid)
	if !ok {
		return nil
	}
	if len(snap.Daily) < 2 {
		b.reply(ctx, uid, textFetchFailed, mainKeyboard())
		return nil
	}
	b.reply(ctx, uid, weather.FormatTomorrow(snap, p.Lat, p.Lon), mainKeyboard())
	return nil
}

// fetchFor is the shared preamble of the on-demand weather commands:
// require a location, then go through the cache. On failure the user has
// already been told and ok is false.
func (b *Bot) fetchFor(ctx context.Context, uid int64) (domain.UserProfile, *weather.Snapshot, bool) {
	p := b.reg.Get(uid)
	if !p.HasLocation {
		b.reply(ctx, uid, textNeedLocation, mainKeyboard())
		return p, nil, false
	}
	snap, err := b.cache.GetOrFetch(ctx, p.Lat, p.Lon)
	if err != nil {
		b.log.Warn().Err(err).Int64("user", uid).Msg("weather fetch failed")
		b.reply(ctx, uid, textFetchFailed, mainKeyboard())
		return p, nil, false
	}
	return p, snap, true
}

func (b *Bot) handleList(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	p := b.reg.Get(uid)
	if len(p.Schedules) == 0 {
		b.reply(ctx, uid, textNoSchedules, mainKeyboard())
		return nil
	}
	b.reply(ctx, uid, textSchedules(p), mainKeyboard())
	return nil
}

func (b *Bot) handleDelete(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	p := b.reg.Get(uid)
	if len(p.Schedules) == 0 {
		b.reply(ctx, uid, textNothingToDelete, mainKeyboard())
		return nil
	}
	b.reply(ctx, uid, textDeletePrompt, deleteKeyboard(p.Schedules))
	return nil
}

func (b *Bot) handleTest(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	p, snap, ok := b.fetchFor(ctx, uid)
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	local := now.Add(time.Duration(p.TZOffset) * time.Hour).Format("15:04")
	b.reply(ctx, uid, "🔔 *Test notification*\n\n"+weather.FormatNotification(snap, local), mainKeyboard())
	if b.hist != nil {
		if err := b.hist.Append(ctx, now, uid, local, storage.DeliveryTest); err != nil {
			b.log.Warn().Err(err).Int64("user", uid).Msg("history append failed")
		}
	}
	return nil
}

func (b *Bot) handleReset(ctx context.Context, c tele.Context) error {
	uid := c.Sender().ID
	if err := b.reg.Reset(uid); err != nil {
		b.log.Error().Err(err).Int64("user", uid).Msg("reset failed")
	}
	b.reply(ctx, uid, textResetDone, mainKeyboard())
	return nil
}

// handleCallback dispatches inline-button presses. Payloads look like
// "\f<unique>|<data>" on the wire.
func (b *Bot) handleCallback(ctx context.Context, c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	data := strings.TrimPrefix(cb.Data, "\f")
	unique, payload, _ := strings.Cut(data, "|")
	switch unique {
	case "tz":
		return b.callbackTimezone(ctx, c, payload)
	case "del":
		return b.callbackDelete(ctx, c, payload)
	}
	return c.Respond()
}

func (b *Bot) callbackTimezone(ctx context.Context, c tele.Context, payload string) error {
	uid := c.Sender().ID
	defer func() { _ = c.Respond() }()

	if payload == "cancel" {
		_, _ = b.dialogs.Handle(uid, dialog.Event{Kind: dialog.EventCancel})
		return c.Edit(textCancelled, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	}
	off, err := strconv.Atoi(payload)
	if err != nil {
		return c.Edit(textCancelled, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	}

	out, perr := b.dialogs.Handle(uid, dialog.Event{Kind: dialog.EventPickTimezone, Offset: off})
	if perr != nil {
		b.log.Error().Err(perr).Int64("user", uid).Msg("dialog persist failed")
	}
	return c.Edit(timezoneEditText(out), &tele.SendOptions{ParseMode: tele.ModeMarkdown})
}

// timezoneEditText maps a timezone-callback outcome to the edited message
// text. A button press with no live session (superseded or long-expired
// dialog) never mutates anything; the user is asked to start over.
func timezoneEditText(out dialog.Outcome) string {
	switch out.Effect {
	case dialog.EffectTimezoneSet:
		return textTimezoneSet(out.Offset)
	case dialog.EffectNone:
		return textTimezoneExpired
	default:
		return textCancelled
	}
}

func (b *Bot) callbackDelete(ctx context.Context, c tele.Context, payload string) error {
	uid := c.Sender().ID
	defer func() { _ = c.Respond() }()

	switch payload {
	case "cancel":
		return c.Edit("❌ Deletion cancelled.")
	case "all":
		n, err := b.reg.ClearSchedules(uid)
		if err != nil {
			b.log.Error().Err(err).Int64("user", uid).Msg("clear schedules failed")
		}
		return c.Edit(fmt.Sprintf("🗑️ Removed all notifications (%d).", n))
	}

	i, err := strconv.Atoi(payload)
	if err != nil {
		return c.Edit("❌ Deletion cancelled.")
	}
	t, ok, err := b.reg.RemoveScheduleAt(uid, i)
	if err != nil {
		b.log.Error().Err(err).Int64("user", uid).Msg("remove schedule failed")
	}
	if !ok {
		return c.Edit("❌ That notification is already gone.")
	}
	remaining := b.reg.Get(uid).Schedules
	if len(remaining) == 0 {
		return c.Edit(fmt.Sprintf("✅ Removed %s. No notifications left.", t))
	}
	return c.Edit(fmt.Sprintf("✅ Removed %s.", t), deleteKeyboard(remaining))
}

package telegram

import (
	"testing"

	"weatherbot/internal/dialog"
	"weatherbot/internal/domain"
)

func TestParseDialogEvent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want dialog.Event
	}{
		{name: "cancel button", text: btnCancel, want: dialog.Event{Kind: dialog.EventCancel}},
		{name: "cancel command", text: "/cancel", want: dialog.Event{Kind: dialog.EventCancel}},
		{name: "back", text: btnBack, want: dialog.Event{Kind: dialog.EventBack}},
		{name: "continue yes", text: btnContinueYes, want: dialog.Event{Kind: dialog.EventContinueYes}},
		{name: "continue no", text: btnContinueNo, want: dialog.Event{Kind: dialog.EventContinueNo}},
		{name: "first range", text: rangeLabel(0), want: dialog.Event{Kind: dialog.EventPickRange, Range: 0}},
		{name: "last range", text: rangeLabel(5), want: dialog.Event{Kind: dialog.EventPickRange, Range: 5}},
		{
			name: "time button",
			text: timeLabel(domain.TriggerTime{Hour: 9, Minute: 30}),
			want: dialog.Event{Kind: dialog.EventPickTime, Time: domain.TriggerTime{Hour: 9, Minute: 30}},
		},
		{
			name: "bare time",
			text: "21:45",
			want: dialog.Event{Kind: dialog.EventPickTime, Time: domain.TriggerTime{Hour: 21, Minute: 45}},
		},
		{name: "garbage", text: "hello there", want: dialog.Event{Kind: dialog.EventUnrecognized}},
		{name: "empty", text: "", want: dialog.Event{Kind: dialog.EventUnrecognized}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseDialogEvent(tt.text); got != tt.want {
				t.Fatalf("parseDialogEvent(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRangeLabelsMatchDialogBands(t *testing.T) {
	t.Parallel()
	// Every label the range keyboard shows must parse back to the same
	// band index, or the dialog would reject its own buttons.
	for i := range dialog.HourRanges {
		ev := parseDialogEvent(rangeLabel(i))
		if ev.Kind != dialog.EventPickRange || ev.Range != i {
			t.Fatalf("rangeLabel(%d) = %q parsed to %+v", i, rangeLabel(i), ev)
		}
	}
}

func TestTimezoneEditText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		out  dialog.Outcome
		want string
	}{
		{name: "set", out: dialog.Outcome{Effect: dialog.EffectTimezoneSet, Offset: 5}, want: textTimezoneSet(5)},
		{name: "negative offset", out: dialog.Outcome{Effect: dialog.EffectTimezoneSet, Offset: -3}, want: textTimezoneSet(-3)},
		// A press on a menu whose session was superseded or dropped must
		// not report success; the user is told to start over.
		{name: "no session", out: dialog.Outcome{Effect: dialog.EffectNone}, want: textTimezoneExpired},
		{name: "invalid", out: dialog.Outcome{Effect: dialog.EffectInvalid}, want: textCancelled},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := timezoneEditText(tt.out); got != tt.want {
				t.Fatalf("timezoneEditText(%+v) = %q, want %q", tt.out, got, tt.want)
			}
		})
	}
}

func TestTimeKeyboardLabelsParse(t *testing.T) {
	t.Parallel()
	for _, h := range []int{0, 7, 12, 23} {
		for _, m := range domain.AllowedMinutes {
			trig := domain.TriggerTime{Hour: h, Minute: m}
			ev := parseDialogEvent(timeLabel(trig))
			if ev.Kind != dialog.EventPickTime || ev.Time != trig {
				t.Fatalf("timeLabel(%s) parsed to %+v", trig, ev)
			}
		}
	}
}

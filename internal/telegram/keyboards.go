package telegram

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"weatherbot/internal/dialog"
	"weatherbot/internal/domain"
	"weatherbot/internal/weather"
)

// Button labels double as the text-routing keys in handlers.go.
const (
	btnShareLocation = "📍 Send location"
	btnWeatherNow    = "🌤️ Weather now"
	btnForecast      = "📅 3-day forecast"
	btnTomorrow      = "📆 Tomorrow"
	btnSetup         = "⏰ Set notifications"
	btnList          = "📋 My notifications"
	btnDelete        = "🗑️ Delete notifications"
	btnTest          = "🔔 Test notification"
	btnTimezone      = "🌍 Timezone"
	btnReset         = "🔄 Reset data"
	btnHelp          = "ℹ️ Help"

	btnBack   = "🔙 Back"
	btnCancel = "🔙 Cancel"

	btnContinueYes = "✅ Yes, add another"
	btnContinueNo  = "❌ No, finish"
)

var rangeClockEmoji = [6]string{"🕐", "🕑", "🕒", "🕓", "🕔", "🕕"}

func rangeLabel(i int) string {
	r := dialog.HourRanges[i]
	return fmt.Sprintf("%s %02d-%02d", rangeClockEmoji[i], r.From, r.To)
}

func timeLabel(t domain.TriggerTime) string {
	return weather.TimeOfDayEmoji(t.Hour) + " " + t.String()
}

func mainKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	loc := m.Location(btnShareLocation)
	m.Reply(
		m.Row(loc),
		m.Row(m.Text(btnWeatherNow), m.Text(btnForecast), m.Text(btnTomorrow)),
		m.Row(m.Text(btnSetup), m.Text(btnList), m.Text(btnDelete)),
		m.Row(m.Text(btnTest), m.Text(btnTimezone), m.Text(btnReset), m.Text(btnHelp)),
	)
	return m
}

func rangeKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, len(dialog.HourRanges)+1)
	for i := range dialog.HourRanges {
		rows = append(rows, m.Row(m.Text(rangeLabel(i))))
	}
	rows = append(rows, m.Row(m.Text(btnCancel)))
	m.Reply(rows...)
	return m
}

func timeKeyboard(rangeIdx int) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	r := dialog.HourRanges[rangeIdx]
	rows := make([]tele.Row, 0, r.To-r.From+2)
	for h := r.From; h <= r.To; h++ {
		row := make([]tele.Btn, 0, len(domain.AllowedMinutes))
		for _, min := range domain.AllowedMinutes {
			row = append(row, m.Text(timeLabel(domain.TriggerTime{Hour: h, Minute: min})))
		}
		rows = append(rows, m.Row(row...))
	}
	rows = append(rows, m.Row(m.Text(btnBack), m.Text(btnCancel)))
	m.Reply(rows...)
	return m
}

func continueKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(m.Row(m.Text(btnContinueYes), m.Text(btnContinueNo)))
	return m
}

// timezoneKeyboard is inline: 25 offsets in rows of five, plus cancel.
func timezoneKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	choices := dialog.TimezoneChoices()
	var rows []tele.Row
	var row []tele.Btn
	for _, off := range choices {
		row = append(row, m.Data(fmt.Sprintf("UTC%+d", off), "tz", strconv.Itoa(off)))
		if len(row) == 5 {
			rows = append(rows, m.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, m.Row(row...))
	}
	rows = append(rows, m.Row(m.Data("❌ Cancel", "tz", "cancel")))
	m.Inline(rows...)
	return m
}

// deleteKeyboard lists schedule entries by position plus bulk actions.
func deleteKeyboard(schedules []domain.TriggerTime) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(schedules)+1)
	for i, t := range schedules {
		rows = append(rows, m.Row(m.Data("Delete "+t.String(), "del", strconv.Itoa(i))))
	}
	rows = append(rows, m.Row(
		m.Data("🗑 Delete all", "del", "all"),
		m.Data("❌ Cancel", "del", "cancel"),
	))
	m.Inline(rows...)
	return m
}

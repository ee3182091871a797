package telegram

import (
	"fmt"
	"strings"

	"weatherbot/internal/domain"
	"weatherbot/internal/weather"
)

const (
	textNeedLocation = "❌ *Set your location first!*\n\nTap '" + btnShareLocation + "' and allow access to your location."

	textLocationSaved = "✅ *Location saved!*\n\nYou can now get accurate forecasts for where you are."

	textFetchFailed = "❌ *Could not fetch weather data*\n\nPlease try again later."

	textRangePrompt = "⏰ *Notification setup*\n\nPick a time range:"

	textInvalidChoice = "❌ *That didn't match any option.*\n\nPick a time range to start over:"

	textCancelled = "❌ Cancelled"

	textSetupDone = "✅ Notification setup finished"

	textNoSchedules = "📋 *You have no active notifications*"

	textNothingToDelete = "📋 You have no notifications to delete."

	textDeletePrompt = "🗑️ *Pick a notification to delete:*"

	textResetDone = "✅ *All data has been reset!*\n\nYou can now set a new location."

	textUnknown = "❌ *Unknown command*\n\nUse the menu buttons or /help."

	textTimezonePrompt = "🌍 *Timezone setup*\n\nPick your UTC offset. Scheduled notifications fire at your local time."

	textTimezoneExpired = "⌛ This menu is no longer active.\n\nTap *" + btnTimezone + "* to pick your timezone again."

	textHelp = "ℹ️ *Weather bot help*\n\n" +
		"📍 *" + btnShareLocation + "* — remember your coordinates\n" +
		"🌤️ *" + btnWeatherNow + "* — current conditions at your location\n" +
		"📅 *" + btnForecast + "* — three days with min/max temperatures\n" +
		"📆 *" + btnTomorrow + "* — detailed forecast for tomorrow\n" +
		"⏰ *" + btnSetup + "* — schedule weather notifications\n" +
		"   • any hour of the day, 15-minute steps\n" +
		"   • several notifications allowed\n" +
		"📋 *" + btnList + "* — list your scheduled notifications\n" +
		"🗑️ *" + btnDelete + "* — remove one or all of them\n" +
		"🔔 *" + btnTest + "* — send a test notification now\n" +
		"🌍 *" + btnTimezone + "* — set your UTC offset\n" +
		"🔄 *" + btnReset + "* — wipe everything stored about you\n\n" +
		"To get started: share your location, then set up notifications."
)

func textWelcome(p domain.UserProfile) string {
	var b strings.Builder
	b.WriteString("🌤️ *Weather bot*\n\n📍 *Your status:* ")
	if p.HasLocation {
		fmt.Fprintf(&b, "location set ✅\nCoordinates: %.4f, %.4f\n", p.Lat, p.Lon)
		fmt.Fprintf(&b, "Timezone: UTC%+d\n\n", p.TZOffset)
		fmt.Fprintf(&b, "🔔 *Active notifications:* %d", len(p.Schedules))
	} else {
		b.WriteString("location not set ❌\n\nTap the button below to share your location")
	}
	return b.String()
}

func textTimePrompt(rangeIdx int) string {
	return fmt.Sprintf("⏰ *Pick a time within %s:*\n\nAvailable minutes: 00, 15, 30, 45", rangeLabel(rangeIdx))
}

func textAdded(t domain.TriggerTime) string {
	return fmt.Sprintf("✅ *Notification set for %s!*\n\nWant to add another one?", t)
}

func textDuplicate(t domain.TriggerTime) string {
	return fmt.Sprintf("❌ A notification for %s already exists!", t)
}

func textSchedules(p domain.UserProfile) string {
	var b strings.Builder
	b.WriteString("⏰ *Your notifications:*\n\n")
	for i, t := range p.Schedules {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, weather.TimeOfDayEmoji(t.Hour), t)
	}
	fmt.Fprintf(&b, "\n📊 *Total: %d*\n", len(p.Schedules))
	fmt.Fprintf(&b, "🌍 Timezone: UTC%+d\n\n", p.TZOffset)
	b.WriteString("ℹ️ _Use '" + btnDelete + "' to remove entries_")
	return b.String()
}

func textTimezoneSet(offset int) string {
	return fmt.Sprintf("✅ Timezone set to UTC%+d", offset)
}

package weather

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDayEmoji picks an emoji for an hour of the day, used when listing
// schedule entries.
func TimeOfDayEmoji(hour int) string {
	switch {
	case hour < 4:
		return "🌙"
	case hour < 8:
		return "🌅"
	case hour < 12:
		return "☀️"
	case hour < 16:
		return "🌞"
	case hour < 20:
		return "🌇"
	default:
		return "🌃"
	}
}

func dayName(date string) (string, string) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date, date
	}
	return d.Weekday().String(), d.Format("02.01")
}

// FormatCurrent renders the on-demand current-weather message.
func FormatCurrent(s *Snapshot, lat, lon float64) string {
	tempEmoji := "🌡️"
	if s.Current.Temperature < 0 {
		tempEmoji = "❄️"
	}
	var b strings.Builder
	b.WriteString("🌤️ *Weather at your location:*\n\n")
	fmt.Fprintf(&b, "%s *Temperature:* %d°C\n", tempEmoji, s.Current.Temperature)
	fmt.Fprintf(&b, "%s *Conditions:* %s\n", ConditionIcon(s.Current.Code, s.Current.IsDay), ConditionText(s.Current.Code))
	fmt.Fprintf(&b, "💨 *Wind:* %.1f m/s\n", s.Current.WindSpeed)
	fmt.Fprintf(&b, "📍 *Coordinates:* %.4f, %.4f", lat, lon)
	return b.String()
}

// FormatForecast renders the multi-day forecast message.
func FormatForecast(s *Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 *%d-day forecast:*\n\n", len(s.Daily))
	for _, d := range s.Daily {
		name, short := dayName(d.Date)
		fmt.Fprintf(&b, "*%s* (%s)\n", name, short)
		fmt.Fprintf(&b, "%s *Weather:* %s\n", ConditionIcon(d.Code, true), ConditionText(d.Code))
		fmt.Fprintf(&b, "⬆️ *Max:* %d°C\n⬇️ *Min:* %d°C\n\n", d.MaxTemp, d.MinTemp)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatTomorrow renders the tomorrow-only forecast message. The snapshot
// must carry at least two daily entries.
func FormatTomorrow(s *Snapshot, lat, lon float64) string {
	d := s.Daily[1]
	name, short := dayName(d.Date)
	tempEmoji := "🌡️"
	if d.MaxTemp < 0 {
		tempEmoji = "❄️"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📅 *Tomorrow's forecast (%s):*\n\n", short)
	fmt.Fprintf(&b, "📌 *Day:* %s\n", name)
	fmt.Fprintf(&b, "%s *Weather:* %s\n", ConditionIcon(d.Code, true), ConditionText(d.Code))
	fmt.Fprintf(&b, "%s *Temperature:* %d°C ... %d°C\n\n", tempEmoji, d.MinTemp, d.MaxTemp)
	fmt.Fprintf(&b, "📍 *Coordinates:* %.4f, %.4f", lat, lon)
	return b.String()
}

// FormatNotification renders the scheduled notification body: current
// conditions plus tomorrow's forecast when available.
func FormatNotification(s *Snapshot, localTime string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 *Weather reminder* (%s)\n\n", localTime)
	b.WriteString("🌤️ *Right now:*\n")
	fmt.Fprintf(&b, "• 🌡️ Temperature: %d°C\n", s.Current.Temperature)
	fmt.Fprintf(&b, "• 📝 %s %s\n", ConditionText(s.Current.Code), ConditionIcon(s.Current.Code, s.Current.IsDay))
	fmt.Fprintf(&b, "• 💨 Wind: %.1f m/s\n\n", s.Current.WindSpeed)

	if len(s.Daily) > 1 {
		d := s.Daily[1]
		_, short := dayName(d.Date)
		fmt.Fprintf(&b, "📅 *Tomorrow (%s):*\n", short)
		fmt.Fprintf(&b, "• %s %s\n", ConditionIcon(d.Code, true), ConditionText(d.Code))
		fmt.Fprintf(&b, "• ⬆️ %d°C ⬇️ %d°C\n\n", d.MaxTemp, d.MinTemp)
	}

	b.WriteString("Have a good day! ☀️")
	return b.String()
}

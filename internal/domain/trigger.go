package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TriggerTime is a local time of day a user wants a weather notification
// delivered at. Minutes are restricted to the 15-minute grid.
type TriggerTime struct {
	Hour   int
	Minute int
}

// AllowedMinutes is the minute grid offered by the schedule dialog.
var AllowedMinutes = [4]int{0, 15, 30, 45}

func (t TriggerTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before defines a total order over trigger times.
func (t TriggerTime) Before(o TriggerTime) bool {
	if t.Hour != o.Hour {
		return t.Hour < o.Hour
	}
	return t.Minute < o.Minute
}

func (t TriggerTime) Valid() bool {
	if t.Hour < 0 || t.Hour > 23 {
		return false
	}
	for _, m := range AllowedMinutes {
		if t.Minute == m {
			return true
		}
	}
	return false
}

// ParseTrigger parses a zero-padded "HH:MM" string as persisted by the
// storage layer. It accepts any minute value so historical entries survive
// a load; Valid() is the stricter dialog-side check.
func ParseTrigger(s string) (TriggerTime, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return TriggerTime{}, fmt.Errorf("invalid trigger time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return TriggerTime{}, fmt.Errorf("invalid trigger hour %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return TriggerTime{}, fmt.Errorf("invalid trigger minute %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TriggerTime{}, fmt.Errorf("trigger time %q out of range", s)
	}
	return TriggerTime{Hour: h, Minute: m}, nil
}

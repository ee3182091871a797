// Package dialog implements the multi-step configuration conversations:
// schedule setup (range -> exact time -> continue?) and timezone setup.
//
// The state machines consume tagged events only. Mapping button labels and
// callback payloads to events is the transport layer's job, so protocol
// logic stays independent of presentation.
package dialog

import "weatherbot/internal/domain"

type EventKind int

const (
	EventUnrecognized EventKind = iota
	EventCancel
	EventBack
	EventPickRange
	EventPickTime
	EventContinueYes
	EventContinueNo
	EventPickTimezone
)

// Event is one transport-originated dialog input.
type Event struct {
	Kind   EventKind
	Range  int                // EventPickRange: index into HourRanges
	Time   domain.TriggerTime // EventPickTime
	Offset int                // EventPickTimezone
}

type State int

const (
	StateIdle State = iota
	StateRangeSelect
	StateTimeSelect
	StateContinuePrompt
	StateTimezoneSelect
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRangeSelect:
		return "range_select"
	case StateTimeSelect:
		return "time_select"
	case StateContinuePrompt:
		return "continue_prompt"
	case StateTimezoneSelect:
		return "timezone_select"
	default:
		return "unknown"
	}
}

// HourRange is one of the six fixed 4-hour bands of the range keyboard.
type HourRange struct {
	From int
	To   int
}

func (r HourRange) Contains(hour int) bool {
	return hour >= r.From && hour <= r.To
}

var HourRanges = [6]HourRange{
	{0, 3}, {4, 7}, {8, 11}, {12, 15}, {16, 19}, {20, 23},
}

// Effect tells the transport what to render after a transition.
type Effect int

const (
	EffectNone           Effect = iota
	EffectPromptRange           // show the hour-range keyboard
	EffectPromptTime            // show the time keyboard for Outcome.Range
	EffectPromptTimezone        // show the timezone keyboard
	EffectAdded                 // trigger stored; ask whether to add another
	EffectDuplicate             // trigger already present; ask whether to add another
	EffectTimezoneSet           // offset stored
	EffectCancelled             // dialog cancelled, nothing changed
	EffectDone                  // dialog finished normally
	EffectNoLocation            // aborted: a location is required first
	EffectInvalid               // input rejected; selection restarts at the range step
)

// Outcome is the result of feeding one event to a dialog.
type Outcome struct {
	State  State
	Effect Effect
	Range  int
	Time   domain.TriggerTime
	Offset int
}

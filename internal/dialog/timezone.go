package dialog

import "weatherbot/internal/domain"

// TimezoneChoices is the fixed button set, -12..+12. The registry accepts
// the wider -12..+14 range for completeness.
func TimezoneChoices() []int {
	out := make([]int, 0, 25)
	for off := -12; off <= 12; off++ {
		out = append(out, off)
	}
	return out
}

// stepTimezone advances the single-step timezone machine:
//
//	TimezoneSelect -> Idle
//
// Anything that is not a valid offset pick leaves the registry untouched.
func (m *Manager) stepTimezone(id int64, ev Event) (Outcome, error) {
	if ev.Kind == EventPickTimezone && domain.ValidateOffset(ev.Offset) == nil {
		// The offset already validated, so any error here is a
		// persistence write-through failure.
		err := m.reg.SetTimezone(id, ev.Offset)
		return Outcome{State: StateIdle, Effect: EffectTimezoneSet, Offset: ev.Offset}, err
	}
	return Outcome{State: StateIdle, Effect: EffectCancelled}, nil
}

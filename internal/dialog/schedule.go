package dialog

// stepSchedule advances the schedule-setup machine:
//
//	RangeSelect -> TimeSelect -> ContinuePrompt -> {RangeSelect | Idle}
//
// Any input the grammar rejects restarts selection at the range step
// without touching the registry.
func (m *Manager) stepSchedule(id int64, s *session, ev Event) (Outcome, error) {
	switch s.state {
	case StateRangeSelect:
		if ev.Kind == EventPickRange && ev.Range >= 0 && ev.Range < len(HourRanges) {
			s.state = StateTimeSelect
			s.rng = ev.Range
			return Outcome{State: StateTimeSelect, Effect: EffectPromptTime, Range: ev.Range}, nil
		}
		return Outcome{State: StateRangeSelect, Effect: EffectInvalid}, nil

	case StateTimeSelect:
		if ev.Kind == EventBack {
			s.state = StateRangeSelect
			return Outcome{State: StateRangeSelect, Effect: EffectPromptRange}, nil
		}
		if ev.Kind == EventPickTime && ev.Time.Valid() && HourRanges[s.rng].Contains(ev.Time.Hour) {
			added, err := m.reg.AddSchedule(id, ev.Time)
			s.state = StateContinuePrompt
			eff := EffectAdded
			if !added && err == nil {
				// Same transition, different message.
				eff = EffectDuplicate
			}
			return Outcome{State: StateContinuePrompt, Effect: eff, Time: ev.Time}, err
		}
		// Out of grammar or outside the chosen band: restart selection.
		s.state = StateRangeSelect
		return Outcome{State: StateRangeSelect, Effect: EffectInvalid}, nil

	case StateContinuePrompt:
		switch ev.Kind {
		case EventContinueYes:
			s.state = StateRangeSelect
			return Outcome{State: StateRangeSelect, Effect: EffectPromptRange}, nil
		case EventContinueNo:
			return Outcome{State: StateIdle, Effect: EffectDone}, nil
		default:
			s.state = StateRangeSelect
			return Outcome{State: StateRangeSelect, Effect: EffectInvalid}, nil
		}
	}
	return Outcome{State: StateIdle, Effect: EffectCancelled}, nil
}

package attendance

import "strings"

type State string

const (
	StateAbsent  State = "absent"
	StateOpened  State = "opened"
	StateClosed  State = "closed"
	StateOutOnly State = "out_only"
)

type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
)

func ParseAction(value string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(value))) {
	case ActionClockIn:
		return ActionClockIn, nil
	case ActionClockOut:
		return ActionClockOut, nil
	default:
		return "", ErrUnknownAction
	}
}

type Outcome string

const (
	OutcomeClockedIn         Outcome = "clocked_in"
	OutcomeAlreadyClockedIn  Outcome = "already_clocked_in"
	OutcomeClockedOut        Outcome = "clocked_out"
	OutcomeAlreadyClockedOut Outcome = "already_clocked_out"
)

func (o Outcome) Applied() bool {
	return o == OutcomeClockedIn || o == OutcomeClockedOut
}

func StateOf(r *Record) State {
	if r == nil {
		return StateAbsent
	}
	switch {
	case r.CheckIn != nil && r.CheckOut != nil:
		return StateClosed
	case r.CheckIn != nil:
		return StateOpened
	case r.CheckOut != nil:
		return StateOutOnly
	default:
		return StateAbsent
	}
}

// Next applies action to state. check_in and check_out are each written at
// most once per day; repeating an action is a no-op. Clocking out with no
// clock-in is accepted and leaves the day in StateOutOnly.
func Next(state State, action Action) (State, Outcome, error) {
	switch action {
	case ActionClockIn:
		switch state {
		case StateAbsent:
			return StateOpened, OutcomeClockedIn, nil
		case StateOutOnly:
			return StateClosed, OutcomeClockedIn, nil
		default:
			return state, OutcomeAlreadyClockedIn, nil
		}
	case ActionClockOut:
		switch state {
		case StateAbsent:
			return StateOutOnly, OutcomeClockedOut, nil
		case StateOpened:
			return StateClosed, OutcomeClockedOut, nil
		default:
			return state, OutcomeAlreadyClockedOut, nil
		}
	default:
		return state, "", ErrUnknownAction
	}
}

package attendance

import (
	"testing"
	"time"
)

func TestNext(t *testing.T) {
	tests := []struct {
		state   State
		action  Action
		want    State
		outcome Outcome
	}{
		{StateAbsent, ActionClockIn, StateOpened, OutcomeClockedIn},
		{StateOpened, ActionClockIn, StateOpened, OutcomeAlreadyClockedIn},
		{StateClosed, ActionClockIn, StateClosed, OutcomeAlreadyClockedIn},
		{StateOutOnly, ActionClockIn, StateClosed, OutcomeClockedIn},
		{StateAbsent, ActionClockOut, StateOutOnly, OutcomeClockedOut},
		{StateOpened, ActionClockOut, StateClosed, OutcomeClockedOut},
		{StateClosed, ActionClockOut, StateClosed, OutcomeAlreadyClockedOut},
		{StateOutOnly, ActionClockOut, StateOutOnly, OutcomeAlreadyClockedOut},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(string(tc.state)+"/"+string(tc.action), func(t *testing.T) {
			got, outcome, err := Next(tc.state, tc.action)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want || outcome != tc.outcome {
				t.Fatalf("got (%s, %s), want (%s, %s)", got, outcome, tc.want, tc.outcome)
			}
		})
	}
}

func TestNextUnknownAction(t *testing.T) {
	if _, _, err := Next(StateAbsent, Action("lunch")); err != ErrUnknownAction {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestStateOf(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		rec  *Record
		want State
	}{
		{"nil", nil, StateAbsent},
		{"empty", &Record{}, StateAbsent},
		{"opened", &Record{CheckIn: &now}, StateOpened},
		{"closed", &Record{CheckIn: &now, CheckOut: &now}, StateClosed},
		{"out only", &Record{CheckOut: &now}, StateOutOnly},
	}
	for _, tc := range tests {
		if got := StateOf(tc.rec); got != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, got, tc.want)
		}
	}
}

func TestParseAction(t *testing.T) {
	if a, err := ParseAction(" Clock_In "); err != nil || a != ActionClockIn {
		t.Fatalf("unexpected %v %v", a, err)
	}
	if _, err := ParseAction("nap"); err != ErrUnknownAction {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

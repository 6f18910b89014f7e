package appointment

import (
	"errors"
	"slices"
	"testing"

	"github.com/gofhir/model/pkg/issue"
)

var allStatuses = []string{
	StatusProposed, StatusPending, StatusBooked, StatusArrived, StatusFulfilled,
	StatusCancelled, StatusNoShow, StatusEnteredInError, StatusCheckedIn, StatusWaitlist,
}

func TestTransitionTable(t *testing.T) {
	legal := map[string][]string{
		StatusProposed:  {StatusPending, StatusBooked, StatusCancelled, StatusNoShow, StatusEnteredInError, StatusWaitlist},
		StatusPending:   {StatusBooked, StatusCancelled, StatusNoShow, StatusEnteredInError},
		StatusWaitlist:  {StatusProposed, StatusPending, StatusBooked, StatusCancelled, StatusNoShow, StatusEnteredInError},
		StatusBooked:    {StatusArrived, StatusCancelled, StatusNoShow, StatusEnteredInError},
		StatusArrived:   {StatusCheckedIn, StatusFulfilled, StatusCancelled, StatusNoShow, StatusEnteredInError},
		StatusCheckedIn: {StatusFulfilled, StatusCancelled, StatusNoShow, StatusEnteredInError},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := slices.Contains(legal[from], to)
			t.Run(from+"->"+to, func(t *testing.T) {
				a := &Appointment{Status: from}
				if got := a.CanTransition(to); got != want {
					t.Errorf("CanTransition = %v, want %v", got, want)
				}
			})
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []string{StatusFulfilled, StatusCancelled, StatusNoShow, StatusEnteredInError}
	for _, s := range allStatuses {
		a := &Appointment{Status: s}
		if got, want := a.IsTerminal(), slices.Contains(terminal, s); got != want {
			t.Errorf("%s IsTerminal = %v, want %v", s, got, want)
		}
		if a.IsTerminal() {
			continue
		}
		for _, exit := range []string{StatusCancelled, StatusNoShow} {
			if !a.CanTransition(exit) {
				t.Errorf("%s cannot reach %s", s, exit)
			}
		}
	}
}

func TestCheckInFlow(t *testing.T) {
	a := newBooked(t)
	for _, to := range []string{StatusArrived, StatusCheckedIn, StatusFulfilled} {
		if err := a.Transition(to); err != nil {
			t.Fatalf("transition to %s: %v", to, err)
		}
	}
	if got := a.NextStatuses(); len(got) != 0 {
		t.Errorf("fulfilled NextStatuses = %v, want none", got)
	}

	b := newBooked(t)
	if err := b.Transition(StatusCheckedIn); !errors.Is(err, issue.ErrTransition) {
		t.Errorf("booked -> checked-in error = %v, want TransitionError", err)
	}
}

package encounter

import (
	"slices"
	"time"

	"github.com/gofhir/model/internal/workflow"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/primitive"
)

// transitions is the Encounter status graph. cancelled and entered-in-error
// are reachable from every non-terminal status.
var transitions = workflow.Table{
	StatusPlanned:        {StatusArrived: true, StatusInProgress: true, StatusCancelled: true, StatusEnteredInError: true},
	StatusArrived:        {StatusTriaged: true, StatusInProgress: true, StatusCancelled: true, StatusEnteredInError: true},
	StatusTriaged:        {StatusInProgress: true, StatusCancelled: true, StatusEnteredInError: true},
	StatusInProgress:     {StatusOnLeave: true, StatusFinished: true, StatusCancelled: true, StatusEnteredInError: true},
	StatusOnLeave:        {StatusInProgress: true, StatusFinished: true, StatusCancelled: true, StatusEnteredInError: true},
	StatusFinished:       {},
	StatusCancelled:      {},
	StatusEnteredInError: {},
}

// CanTransition reports whether the encounter may move to status to.
func (e *Encounter) CanTransition(to string) bool {
	return transitions.Allowed(e.Status, to)
}

// NextStatuses returns the statuses the encounter may move to.
func (e *Encounter) NextStatuses() []string {
	return transitions.Next(e.Status)
}

// IsTerminal reports whether the encounter can no longer change status.
func (e *Encounter) IsTerminal() bool {
	return transitions.Terminal(e.Status)
}

// Transition moves the encounter to status to at time at. The previous
// status is appended to statusHistory, with a period starting where the
// last history entry ended (or at the encounter start). Entering
// in-progress opens the encounter period and finishing closes it. An
// illegal move is a TransitionError and leaves e unchanged.
//
// Transition is not safe for concurrent use on the same encounter.
func (e *Encounter) Transition(to string, at time.Time) error {
	if err := transitions.Check("Encounter.status", ResourceType, e.Status, to); err != nil {
		return err
	}
	now := primitive.DateTimeOf(at)

	next := *e
	next.StatusHistory = append(slices.Clip(e.StatusHistory), StatusHistory{
		Status: e.Status,
		Period: &datatype.Period{Start: e.statusSince(), End: &now},
	})
	next.Status = to

	var period datatype.Period
	if e.Period != nil {
		period = *e.Period
	}
	switch to {
	case StatusInProgress:
		if period.Start == nil {
			period.Start = &now
		}
	case StatusFinished:
		if period.End == nil {
			period.End = &now
		}
	}
	if period.Start != nil || period.End != nil {
		next.Period = &period
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*e = next
	return nil
}

// statusSince returns when the current status began, if known.
func (e *Encounter) statusSince() *primitive.DateTime {
	if n := len(e.StatusHistory); n > 0 {
		if p := e.StatusHistory[n-1].Period; p != nil && p.End != nil {
			end := *p.End
			return &end
		}
	}
	if e.Period != nil && e.Period.Start != nil {
		start := *e.Period.Start
		return &start
	}
	return nil
}

// Cancel moves the encounter to cancelled.
func (e *Encounter) Cancel(at time.Time) error {
	return e.Transition(StatusCancelled, at)
}

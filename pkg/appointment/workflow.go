package appointment

import (
	"slices"
	"time"

	"github.com/gofhir/model/internal/workflow"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
)

// transitions is the Appointment status graph. cancelled and noshow are
// reachable from every non-terminal status.
var transitions = workflow.Table{
	StatusProposed:       {StatusPending: true, StatusBooked: true, StatusCancelled: true, StatusNoShow: true, StatusEnteredInError: true, StatusWaitlist: true},
	StatusPending:        {StatusBooked: true, StatusCancelled: true, StatusNoShow: true, StatusEnteredInError: true},
	StatusWaitlist:       {StatusProposed: true, StatusPending: true, StatusBooked: true, StatusCancelled: true, StatusNoShow: true, StatusEnteredInError: true},
	StatusBooked:         {StatusArrived: true, StatusCancelled: true, StatusNoShow: true, StatusEnteredInError: true},
	StatusArrived:        {StatusCheckedIn: true, StatusFulfilled: true, StatusCancelled: true, StatusNoShow: true, StatusEnteredInError: true},
	StatusCheckedIn:      {StatusFulfilled: true, StatusCancelled: true, StatusNoShow: true, StatusEnteredInError: true},
	StatusFulfilled:      {},
	StatusCancelled:      {},
	StatusNoShow:         {},
	StatusEnteredInError: {},
}

// CanTransition reports whether the appointment may move to status to.
func (a *Appointment) CanTransition(to string) bool {
	return transitions.Allowed(a.Status, to)
}

// NextStatuses returns the statuses the appointment may move to.
func (a *Appointment) NextStatuses() []string {
	return transitions.Next(a.Status)
}

// IsTerminal reports whether the appointment can no longer change status.
func (a *Appointment) IsTerminal() bool {
	return transitions.Terminal(a.Status)
}

// Transition moves the appointment to status to. The result must still
// validate, so booking an appointment without start and end fails. On
// error a is unchanged.
func (a *Appointment) Transition(to string) error {
	return a.apply(to, func(*Appointment) {})
}

// Book schedules the appointment for [start, end) and moves it to booked.
func (a *Appointment) Book(start, end time.Time) error {
	return a.apply(StatusBooked, func(next *Appointment) {
		s, e := primitive.InstantOf(start), primitive.InstantOf(end)
		next.Start, next.End = &s, &e
		next.MinutesDuration = nil
	})
}

// Cancel records why the appointment was cancelled and moves it to
// cancelled.
func (a *Appointment) Cancel(reason datatype.CodeableConcept) error {
	return a.apply(StatusCancelled, func(next *Appointment) {
		next.CancelationReason = &reason
	})
}

// NoShow moves the appointment to noshow with an optional reason.
func (a *Appointment) NoShow(reason *datatype.CodeableConcept) error {
	return a.apply(StatusNoShow, func(next *Appointment) {
		if reason != nil {
			next.CancelationReason = reason
		}
	})
}

func (a *Appointment) apply(to string, edit func(*Appointment)) error {
	if err := transitions.Check("Appointment.status", ResourceType, a.Status, to); err != nil {
		return err
	}
	next := *a
	next.Status = to
	edit(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	*a = next
	return nil
}

// Respond records a participant's reply. actor is the participant's
// literal reference, e.g. "Practitioner/dr-1".
func (a *Appointment) Respond(actor, status string) error {
	idx := slices.IndexFunc(a.Participant, func(p Participant) bool {
		return p.Actor != nil && p.Actor.Reference == actor
	})
	if idx < 0 {
		return issue.Invariant("Appointment.participant", "no participant with actor "+actor)
	}
	next := *a
	next.Participant = slices.Clone(a.Participant)
	next.Participant[idx].Status = status
	if err := next.Validate(); err != nil {
		return err
	}
	*a = next
	return nil
}

// Accepted reports whether every required participant has accepted.
func (a *Appointment) Accepted() bool {
	for _, p := range a.Participant {
		if p.Required != "information-only" && p.Status != ParticipantAccepted {
			return false
		}
	}
	return len(a.Participant) > 0
}

// Package workflow holds status transition tables for resources with a
// clinical workflow.
package workflow

import (
	"slices"

	"github.com/gofhir/model/pkg/issue"
)

// Table maps a current status to the statuses reachable from it. A status
// with an empty entry is terminal; a status missing from the table is
// unknown.
type Table map[string]map[string]bool

// Allowed reports whether from → to is a legal transition.
func (t Table) Allowed(from, to string) bool {
	return t[from][to]
}

// Known reports whether status appears in the table.
func (t Table) Known(status string) bool {
	_, ok := t[status]
	return ok
}

// Terminal reports whether no transition leaves status.
func (t Table) Terminal(status string) bool {
	next, ok := t[status]
	return ok && len(next) == 0
}

// Next returns the statuses reachable from status, sorted.
func (t Table) Next(status string) []string {
	next := make([]string, 0, len(t[status]))
	for s, ok := range t[status] {
		if ok {
			next = append(next, s)
		}
	}
	slices.Sort(next)
	return next
}

// Check returns a TransitionError at path unless from → to is legal.
func (t Table) Check(path, resource, from, to string) error {
	if !t.Allowed(from, to) {
		return issue.Transition(path, resource, from, to)
	}
	return nil
}

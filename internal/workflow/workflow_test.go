package workflow

import (
	"errors"
	"slices"
	"testing"

	"github.com/gofhir/model/pkg/issue"
)

var orders = Table{
	"draft":     {"active": true, "revoked": true},
	"active":    {"completed": true, "revoked": true},
	"completed": {},
	"revoked":   {},
}

func TestTable(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{"draft", "active", true},
		{"active", "completed", true},
		{"draft", "completed", false},
		{"completed", "active", false},
		{"unknown", "active", false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := orders.Allowed(tt.from, tt.to); got != tt.allowed {
				t.Errorf("Allowed() = %v, want %v", got, tt.allowed)
			}
			err := orders.Check("Order.status", "Order", tt.from, tt.to)
			if tt.allowed != (err == nil) {
				t.Errorf("Check() = %v", err)
			}
			if err != nil && !errors.Is(err, issue.ErrTransition) {
				t.Errorf("expected TransitionError, got %v", err)
			}
		})
	}
}

func TestTerminalAndNext(t *testing.T) {
	if !orders.Terminal("completed") || orders.Terminal("draft") || orders.Terminal("unknown") {
		t.Error("Terminal() misclassifies statuses")
	}
	if !orders.Known("revoked") || orders.Known("paused") {
		t.Error("Known() misclassifies statuses")
	}
	if got := orders.Next("draft"); !slices.Equal(got, []string{"active", "revoked"}) {
		t.Errorf("Next(draft) = %v", got)
	}
}

package terminology_test

import (
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/gofhir/model/pkg/patient"
	"github.com/gofhir/model/pkg/terminology"
)

// TestDefaultConcurrentUse exercises first-use seeding of the process-wide
// registry from many goroutines at once. Run with -race.
func TestDefaultConcurrentUse(t *testing.T) {
	const workers = 32
	genders := []string{"male", "female", "other", "unknown"}

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			gender := genders[i%len(genders)]
			if !terminology.Default().ContainsCode("http://hl7.org/fhir/administrative-gender", gender) {
				return fmt.Errorf("worker %d: gender %q not found", i, gender)
			}
			if terminology.Default().ContainsCode("http://hl7.org/fhir/administrative-gender", "robot") {
				return fmt.Errorf("worker %d: unexpected code robot", i)
			}
			p, err := patient.New(fmt.Sprintf("pat-%d", i), patient.WithGender(gender))
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			if p.Gender != gender {
				return fmt.Errorf("worker %d: gender = %q, want %q", i, p.Gender, gender)
			}
			if _, err := patient.New(fmt.Sprintf("bad-%d", i), patient.WithGender("robot")); err == nil {
				return fmt.Errorf("worker %d: gender robot accepted", i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultIsShared(t *testing.T) {
	const workers = 16
	seen := make([]*terminology.Registry, workers)

	var g errgroup.Group
	for i := range seen {
		g.Go(func() error {
			seen[i] = terminology.Default()
			return nil
		})
	}
	_ = g.Wait()

	for i, r := range seen {
		if r == nil || r != seen[0] {
			t.Fatalf("worker %d saw registry %p, want %p", i, r, seen[0])
		}
	}
}

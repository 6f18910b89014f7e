package terminology

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gofhir/fhir/r4"

	"github.com/gofhir/model/pkg/logger"
)

// ErrAlreadyInitialized is returned by Init once the registry exists.
var ErrAlreadyInitialized = errors.New("terminology registry already initialized")

var (
	once     sync.Once
	registry *Registry
)

// New builds a registry from the embedded seed followed by sources.
func New(sources ...Source) (*Registry, error) {
	all := append([]Source{EmbeddedSource()}, sources...)
	var (
		css []*r4.CodeSystem
		vss []*r4.ValueSet
	)
	for i, src := range all {
		cs, vs, err := src.Load()
		if err != nil {
			return nil, fmt.Errorf("terminology source %d: %w", i, err)
		}
		css = append(css, cs...)
		vss = append(vss, vs...)
	}
	return Build(css, vss)
}

// Init seeds the process-wide registry from the embedded seed plus sources.
// It runs at most once; later calls, or calls after Default has already
// seeded the registry, return ErrAlreadyInitialized. When a source fails the
// registry falls back to the embedded seed and the error is returned.
func Init(sources ...Source) error {
	var (
		ran bool
		err error
	)
	once.Do(func() {
		ran = true
		err = initialize(sources)
	})
	if !ran {
		return ErrAlreadyInitialized
	}
	return err
}

func initialize(sources []Source) error {
	r, err := New(sources...)
	if err != nil {
		logger.Error("terminology init failed, using embedded seed: %v", err)
		fallback, seedErr := New()
		if seedErr != nil {
			// The embedded seed is compiled in; failing to read it is a build defect.
			panic(seedErr)
		}
		registry = fallback
		return err
	}
	registry = r
	logger.Debug("terminology registry ready: %d code systems, %d value sets", r.CodeSystemCount(), r.ValueSetCount())
	return nil
}

// Default returns the process-wide registry, seeding it from the embedded
// terminology if Init was never called.
func Default() *Registry {
	once.Do(func() {
		_ = initialize(nil)
	})
	return registry
}

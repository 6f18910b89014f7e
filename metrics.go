package fhirmodel

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates Validate outcomes using lock-free counters. All
// methods are safe for concurrent use; one Metrics is typically shared by
// every worker of a batch.
type Metrics struct {
	validationsTotal atomic.Uint64
	validationsValid atomic.Uint64

	// Nanoseconds.
	validationTimeTotal atomic.Uint64
	validationTimeMin   atomic.Uint64
	validationTimeMax   atomic.Uint64

	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	kinds sync.Map // map[Kind]*kindMetrics
}

type kindMetrics struct {
	validations atomic.Uint64
	invalid     atomic.Uint64
	issues      atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so the first value becomes the minimum.
	m.validationTimeMin.Store(^uint64(0))
	return m
}

// RecordValidation records one Validate call on a resource of kind k.
func (m *Metrics) RecordValidation(k Kind, duration time.Duration, result *Result) {
	errs, warns := result.ErrorCount(), result.WarningCount()
	infos := 0
	if result != nil {
		infos = len(result.Issues) - errs - warns
	}

	m.validationsTotal.Add(1)
	if errs == 0 {
		m.validationsValid.Add(1)
	}
	m.errorsTotal.Add(uint64(errs))
	m.warningsTotal.Add(uint64(warns))
	m.infosTotal.Add(uint64(infos))

	km := m.kind(k)
	km.validations.Add(1)
	if errs > 0 {
		km.invalid.Add(1)
	}
	km.issues.Add(uint64(errs + warns + infos))

	ns := uint64(duration.Nanoseconds())
	m.validationTimeTotal.Add(ns)
	for {
		old := m.validationTimeMin.Load()
		if ns >= old || m.validationTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.validationTimeMax.Load()
		if ns <= old || m.validationTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

func (m *Metrics) kind(k Kind) *kindMetrics {
	if v, ok := m.kinds.Load(k); ok {
		return v.(*kindMetrics)
	}
	actual, _ := m.kinds.LoadOrStore(k, &kindMetrics{})
	return actual.(*kindMetrics)
}

// ValidationsTotal returns the number of validations recorded.
func (m *Metrics) ValidationsTotal() uint64 {
	return m.validationsTotal.Load()
}

// ValidationsValid returns the number of validations without errors.
func (m *Metrics) ValidationsValid() uint64 {
	return m.validationsValid.Load()
}

// ValidationRate returns the share of valid validations (0.0 to 1.0).
func (m *Metrics) ValidationRate() float64 {
	total := m.validationsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.validationsValid.Load()) / float64(total)
}

// AverageValidationTime returns the mean validation duration.
func (m *Metrics) AverageValidationTime() time.Duration {
	total := m.validationsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.validationTimeTotal.Load() / total)
}

// MinValidationTime returns the shortest validation duration.
func (m *Metrics) MinValidationTime() time.Duration {
	v := m.validationTimeMin.Load()
	if v == ^uint64(0) {
		return 0
	}
	return time.Duration(v)
}

// MaxValidationTime returns the longest validation duration.
func (m *Metrics) MaxValidationTime() time.Duration {
	return time.Duration(m.validationTimeMax.Load())
}

// ErrorsTotal returns the number of error issues recorded.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the number of warning issues recorded.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// KindStats summarizes the validations of one resource kind.
type KindStats struct {
	Kind        string `json:"kind"`
	Validations uint64 `json:"validations"`
	Invalid     uint64 `json:"invalid"`
	Issues      uint64 `json:"issues"`
}

// KindStats returns the statistics of kind k.
func (m *Metrics) KindStats(k Kind) (KindStats, bool) {
	v, ok := m.kinds.Load(k)
	if !ok {
		return KindStats{Kind: k.String()}, false
	}
	return v.(*kindMetrics).stats(k), true
}

func (km *kindMetrics) stats(k Kind) KindStats {
	return KindStats{
		Kind:        k.String(),
		Validations: km.validations.Load(),
		Invalid:     km.invalid.Load(),
		Issues:      km.issues.Load(),
	}
}

// AllKindStats returns the statistics of every kind seen, in Kind order.
func (m *Metrics) AllKindStats() []KindStats {
	var stats []KindStats
	for _, k := range append([]Kind{KindUnknown}, Kinds...) {
		if s, ok := m.KindStats(k); ok {
			stats = append(stats, s)
		}
	}
	return stats
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	ValidationsTotal uint64  `json:"validations_total"`
	ValidationsValid uint64  `json:"validations_valid"`
	ValidationRate   float64 `json:"validation_rate"`

	AvgValidationTimeNs uint64 `json:"avg_validation_time_ns"`
	MinValidationTimeNs uint64 `json:"min_validation_time_ns"`
	MaxValidationTimeNs uint64 `json:"max_validation_time_ns"`

	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`

	Kinds []KindStats `json:"kinds,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:           time.Now(),
		ValidationsTotal:    m.validationsTotal.Load(),
		ValidationsValid:    m.validationsValid.Load(),
		ValidationRate:      m.ValidationRate(),
		AvgValidationTimeNs: uint64(m.AverageValidationTime()),
		MinValidationTimeNs: uint64(m.MinValidationTime()),
		MaxValidationTimeNs: m.validationTimeMax.Load(),
		ErrorsTotal:         m.errorsTotal.Load(),
		WarningsTotal:       m.warningsTotal.Load(),
		InfosTotal:          m.infosTotal.Load(),
		Kinds:               m.AllKindStats(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.validationsTotal.Store(0)
	m.validationsValid.Store(0)
	m.validationTimeTotal.Store(0)
	m.validationTimeMin.Store(^uint64(0))
	m.validationTimeMax.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)
	m.kinds.Range(func(key, _ any) bool {
		m.kinds.Delete(key)
		return true
	})
}

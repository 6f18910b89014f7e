// Package constraint evaluates FHIR R4 resource invariants with FHIRPath.
//
// The invariants duplicate checks the resource packages already perform in
// Go. Evaluating them on the encoded JSON gives an independent second
// opinion, which is what fhirmodel.Validate uses WithConstraints for.
package constraint

import (
	"github.com/goccy/go-json"
	"github.com/gofhir/fhirpath"

	"github.com/gofhir/model/pkg/issue"
)

// DefaultCacheSize is the number of compiled expressions kept by default.
const DefaultCacheSize = 128

// Constraint is a FHIRPath invariant evaluated on a resource root.
type Constraint struct {
	Key        string
	Severity   issue.Severity
	Human      string
	Expression string
}

// Evaluator evaluates the invariants registered for each resource type.
// It is safe for concurrent use.
type Evaluator struct {
	constraints map[string][]Constraint
	exprs       *lru[string, compiled]
}

type compiled struct {
	expr *fhirpath.Expression
	err  error
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCacheSize bounds the compiled expression cache.
func WithCacheSize(n int) Option {
	return func(e *Evaluator) { e.exprs = newLRU[string, compiled](n) }
}

// WithConstraint registers an additional invariant for resourceType.
func WithConstraint(resourceType string, c Constraint) Option {
	return func(e *Evaluator) {
		e.constraints[resourceType] = append(e.constraints[resourceType], c)
	}
}

// New returns an Evaluator loaded with the built-in invariants.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		constraints: make(map[string][]Constraint, len(builtin)),
		exprs:       newLRU[string, compiled](DefaultCacheSize),
	}
	for rt, cs := range builtin {
		e.constraints[rt] = append([]Constraint(nil), cs...)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Constraints returns the invariants registered for resourceType.
func (e *Evaluator) Constraints(resourceType string) []Constraint {
	return e.constraints[resourceType]
}

// CacheStats returns expression cache statistics.
func (e *Evaluator) CacheStats() CacheStats {
	return e.exprs.stats()
}

// Validate evaluates the invariants of the resource in data and of each of
// its contained resources, adding violations to result. Expressions that
// fail to compile or evaluate produce warnings.
func (e *Evaluator) Validate(data json.RawMessage, result *issue.Result) {
	var head struct {
		ResourceType string            `json:"resourceType"`
		Contained    []json.RawMessage `json:"contained"`
	}
	if err := json.Unmarshal(data, &head); err != nil || head.ResourceType == "" {
		return
	}
	e.evaluate(data, head.ResourceType, head.ResourceType, result)

	for i, raw := range head.Contained {
		var inner struct {
			ResourceType string `json:"resourceType"`
		}
		if err := json.Unmarshal(raw, &inner); err != nil || inner.ResourceType == "" {
			continue
		}
		e.evaluate(raw, inner.ResourceType, issue.Index(head.ResourceType+".contained", i), result)
	}
}

func (e *Evaluator) evaluate(data json.RawMessage, resourceType, path string, result *issue.Result) {
	for _, c := range e.constraints[resourceType] {
		expr, err := e.compile(c.Expression)
		if err != nil {
			result.AddWarningWithID(issue.DiagConstraintCompileError,
				map[string]any{"key": c.Key, "error": err.Error()}, path)
			continue
		}
		out, err := expr.Evaluate([]byte(data))
		if err != nil {
			result.AddWarningWithID(issue.DiagConstraintEvalError,
				map[string]any{"key": c.Key, "error": err.Error()}, path)
			continue
		}
		if passed(out) {
			continue
		}
		params := map[string]any{"key": c.Key, "human": c.Human}
		if c.Severity == issue.SeverityWarning {
			result.AddWarningWithID(issue.DiagConstraintFailed, params, path)
		} else {
			result.AddErrorWithID(issue.DiagConstraintFailed, params, path)
		}
	}
}

func (e *Evaluator) compile(expression string) (*fhirpath.Expression, error) {
	c := e.exprs.getOrAdd(expression, func() compiled {
		expr, err := fhirpath.Compile(expression)
		return compiled{expr: expr, err: err}
	})
	return c.expr, c.err
}

// passed treats an empty result as not applicable, and a non-boolean result
// as satisfied.
func passed(out fhirpath.Collection) bool {
	if out.Empty() {
		return true
	}
	b, err := out.ToBoolean()
	if err != nil {
		return true
	}
	return b
}

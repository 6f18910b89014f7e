package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	fhirmodel "github.com/gofhir/model"
	"github.com/gofhir/model/internal/config"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/location"
	"github.com/gofhir/model/pkg/logger"
)

// report is the outcome for one input.
type report struct {
	Resource     string        `json:"resource"`
	ResourceType string        `json:"resourceType,omitempty"`
	ID           string        `json:"id,omitempty"`
	Valid        bool          `json:"valid"`
	Errors       int           `json:"errors"`
	Warnings     int           `json:"warnings"`
	Issues       []issue.Issue `json:"issues,omitempty"`
	Duration     string        `json:"duration"`
}

type linter struct {
	cfg     *config.Config
	stdin   io.Reader
	metrics *fhirmodel.Metrics
}

// run validates every input, at most cfg.Workers at a time. Reports keep
// the order of the expanded inputs. Only a cancelled context aborts the
// run; unreadable and invalid files are reported.
func (l *linter) run(ctx context.Context, args []string) ([]report, error) {
	inputs, err := expand(args)
	if err != nil {
		return nil, err
	}
	reports := make([]report, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = l.lint(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// expand resolves glob patterns. "-" stands for standard input.
func expand(args []string) ([]string, error) {
	var inputs []string
	stdinSeen := false
	for _, arg := range args {
		if arg == "-" {
			// stdin can only be read once.
			if !stdinSeen {
				inputs = append(inputs, arg)
				stdinSeen = true
			}
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		inputs = append(inputs, matches...)
	}
	return inputs, nil
}

func (l *linter) read(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(l.stdin)
	}
	return os.ReadFile(name)
}

func (l *linter) lint(name string) (rep report) {
	start := time.Now()
	rep.Resource = name
	if name == "-" {
		rep.Resource = "stdin"
	}
	defer func() { rep.Duration = time.Since(start).Round(time.Microsecond).String() }()

	data, err := l.read(name)
	if err != nil {
		logger.Error("read %s: %v", name, err)
		rep.Errors = 1
		rep.Issues = []issue.Issue{{Severity: issue.SeverityFatal, Code: issue.CodeProcessing, Diagnostics: err.Error()}}
		return rep
	}

	r, err := fhirmodel.Decode(data)
	if err != nil {
		logger.Debug("decode %s: %v", name, err)
		failed := &issue.Result{Issues: fhirmodel.ErrorIssues(err)}
		failed.EnrichLocations(location.Locator(data))
		rep.Issues = failed.Issues
		rep.Errors = len(rep.Issues)
		return rep
	}
	rep.ResourceType, rep.ID = r.ResourceType(), r.ID()

	opts := []fhirmodel.Option{
		fhirmodel.WithStrict(l.cfg.Strict),
		fhirmodel.WithConstraints(l.cfg.Constraints),
		fhirmodel.WithMetrics(l.metrics),
	}
	result, err := fhirmodel.Validate(r, opts...)
	if result == nil {
		rep.Issues = fhirmodel.ErrorIssues(err)
		rep.Errors = len(rep.Issues)
		return rep
	}
	result.EnrichLocations(location.Locator(data))
	rep.Issues = result.Issues
	rep.Errors, rep.Warnings = result.ErrorCount(), result.WarningCount()
	rep.Valid = err == nil
	logger.Debug("%s: %s/%s valid=%t", name, rep.ResourceType, rep.ID, rep.Valid)
	return rep
}

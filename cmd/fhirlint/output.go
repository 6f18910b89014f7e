package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/gofhir/model/internal/config"
	"github.com/gofhir/model/pkg/issue"
)

func write(w io.Writer, format string, reports []report) error {
	if format == config.OutputJSON {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	for _, r := range reports {
		writeText(w, r)
	}
	return nil
}

func writeText(w io.Writer, r report) {
	status := "VALID"
	if !r.Valid {
		status = "INVALID"
	}
	fmt.Fprintf(w, "== %s ==\n", r.Resource)
	if r.ResourceType != "" {
		fmt.Fprintf(w, "Resource: %s/%s\n", r.ResourceType, r.ID)
	}
	fmt.Fprintf(w, "Status: %s\n", status)
	fmt.Fprintf(w, "Errors: %d, Warnings: %d\n", r.Errors, r.Warnings)

	if len(r.Issues) > 0 {
		fmt.Fprintln(w, "\nIssues:")
		for _, iss := range r.Issues {
			location := ""
			if p := iss.Path(); p != "" {
				location = " @ " + p
			}
			if loc := iss.Location; loc != nil {
				location += fmt.Sprintf(" (%d:%d)", loc.Line, loc.Column)
			}
			fmt.Fprintf(w, "  %s [%s] %s%s\n", severityLabel(iss.Severity), iss.Code, iss.Diagnostics, location)
		}
	}
	fmt.Fprintln(w)
}

func severityLabel(s issue.Severity) string {
	switch s {
	case issue.SeverityFatal:
		return "FATAL"
	case issue.SeverityError:
		return "ERROR"
	case issue.SeverityWarning:
		return "WARN "
	case issue.SeverityInformation:
		return "INFO "
	default:
		return "     "
	}
}

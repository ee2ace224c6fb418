package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(path, message string) {
	e.Errors = append(e.Errors, ValidationError{Path: path, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks the semantic rules the schema cannot express.
//
// Returns nil if valid, or a *ValidationErrors listing every problem.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	interval, err := c.IntervalDuration()
	switch {
	case err != nil:
		errs.Add("interval", err.Error())
	case interval <= 0:
		errs.Add("interval", "must be positive")
	}

	if c.Iterations < 0 {
		errs.Add("iterations", "must not be negative")
	}
	if c.Rate < 0 {
		errs.Add("rate", "must not be negative")
	}
	if c.GroupEvery < 0 {
		errs.Add("groupEvery", "must not be negative")
	}

	switch c.Format {
	case "text", "json":
	default:
		errs.Add("format", fmt.Sprintf("unknown format %q (want text or json)", c.Format))
	}

	if len(c.Workloads) == 0 {
		errs.Add("workloads", "at least one workload is required")
	}

	seen := make(map[string]bool)
	for i, w := range c.Workloads {
		path := fmt.Sprintf("workloads.%d", i)

		if w.Name == "" {
			errs.Add(path+".name", "is required")
		} else if seen[w.Name] {
			errs.Add(path+".name", fmt.Sprintf("duplicate workload %q", w.Name))
		}
		seen[w.Name] = true

		work, err := w.WorkDuration()
		switch {
		case err != nil:
			errs.Add(path+".work", err.Error())
		case work < 0:
			errs.Add(path+".work", "must not be negative")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

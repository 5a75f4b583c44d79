// SPDX-License-Identifier: MIT

// Package validate accumulates validation findings for publication
// directories.
package validate

import (
	"fmt"
	"strings"
)

// Rule identifies a validation rule that produced a finding.
type Rule string

const (
	RuleMissingDC     Rule = "missing-dc"
	RuleBadDC         Rule = "bad-dc"
	RuleBadIdentifier Rule = "bad-identifier"
	RuleBadDate       Rule = "bad-date"
	RuleMissingStruct Rule = "missing-struct"
	RuleBadStruct     Rule = "bad-struct"
	RuleMissingSeq    Rule = "missing-seq"
	RuleEmptyFile     Rule = "empty-file"
	RuleBadName       Rule = "bad-name"
	RuleGap           Rule = "gap"
	RuleBadTIFF       Rule = "bad-tiff"
	RuleBadALTO       Rule = "bad-alto"
	RuleCountMismatch Rule = "count-mismatch"
)

// Finding describes a single validation failure.
type Finding struct {
	Identifier string `json:"identifier"`
	Rule       Rule   `json:"rule"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (f Finding) Error() string {
	if f.Path != "" {
		return fmt.Sprintf("%s: %s: %s (%s)", f.Identifier, f.Rule, f.Message, f.Path)
	}
	return fmt.Sprintf("%s: %s: %s", f.Identifier, f.Rule, f.Message)
}

// Collector accumulates findings for one identifier.
type Collector struct {
	identifier string
	findings   []Finding
}

// NewCollector creates a collector scoped to the given identifier.
func NewCollector(identifier string) *Collector {
	return &Collector{identifier: identifier}
}

// Add records a finding.
func (c *Collector) Add(rule Rule, path, format string, args ...any) {
	c.findings = append(c.findings, Finding{
		Identifier: c.identifier,
		Rule:       rule,
		Path:       path,
		Message:    fmt.Sprintf(format, args...),
	})
}

// IsValid reports whether no findings have been recorded.
func (c *Collector) IsValid() bool {
	return len(c.findings) == 0
}

// Findings returns the accumulated findings.
func (c *Collector) Findings() []Finding {
	return c.findings
}

// Err converts the accumulated findings into an error value, or nil when the
// collector is clean.
func (c *Collector) Err() error {
	if len(c.findings) == 0 {
		return nil
	}
	copied := make([]Finding, len(c.findings))
	copy(copied, c.findings)
	return FindingsError{findings: copied}
}

// FindingsError bundles multiple findings into a single error value.
type FindingsError struct {
	findings []Finding
}

// Findings returns the individual findings making up the failure.
func (e FindingsError) Findings() []Finding {
	return e.findings
}

// Error implements the error interface for FindingsError.
func (e FindingsError) Error() string {
	if len(e.findings) == 0 {
		return ""
	}
	if len(e.findings) == 1 {
		return e.findings[0].Error()
	}
	msgs := make([]string, len(e.findings))
	for i, f := range e.findings {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

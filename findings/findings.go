// Package findings provides types and utilities for working with
// vulnerability findings from Beagle Security test results.
package findings

import (
	"sort"
	"strings"
)

// Severity represents the severity level of a finding.
type Severity string

const (
	// SeverityCritical indicates a finding that is directly exploitable
	// and must be fixed immediately.
	SeverityCritical Severity = "critical"
	// SeverityHigh indicates a finding with serious impact.
	SeverityHigh Severity = "high"
	// SeverityMedium indicates a finding with moderate impact.
	SeverityMedium Severity = "medium"
	// SeverityLow indicates a finding with minor impact.
	SeverityLow Severity = "low"
	// SeverityInfo indicates an informational observation, not a vulnerability.
	SeverityInfo Severity = "info"
)

// ParseSeverity parses a severity string (case-insensitive).
// Returns false when the value is not a known severity level.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical, true
	case SeverityHigh:
		return SeverityHigh, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityLow:
		return SeverityLow, true
	case SeverityInfo, "informational":
		return SeverityInfo, true
	}
	return "", false
}

// Valid returns true if s is a known severity level.
func (s Severity) Valid() bool {
	_, ok := ParseSeverity(string(s))
	return ok
}

// Rank returns the numeric order of a severity, higher meaning more severe.
// Unknown severities rank below SeverityInfo.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// AtLeast returns true if s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// Finding represents a single vulnerability reported by a security test.
type Finding struct {
	// ID is the platform identifier of the finding.
	ID string `json:"id"`
	// Title is a short name for the vulnerability (e.g., "Reflected XSS").
	Title string `json:"title"`
	// Severity is the normalized severity level.
	Severity Severity `json:"severity"`
	// Description explains the vulnerability and its impact.
	Description string `json:"description,omitempty"`
	// CWE is the Common Weakness Enumeration identifier (e.g., "CWE-79").
	CWE string `json:"cwe,omitempty"`
	// CVSSScore is the CVSS base score, 0 to 10.
	CVSSScore float64 `json:"cvss_score,omitempty"`
	// Endpoint is the affected URL or path.
	Endpoint string `json:"endpoint,omitempty"`
	// Remediation describes how to fix the vulnerability.
	Remediation string `json:"remediation,omitempty"`
}

// Counts aggregates findings per severity level.
type Counts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
	// Unknown counts findings whose severity could not be parsed.
	Unknown int `json:"unknown,omitempty"`
}

// Total returns the number of findings across all severity levels.
func (c Counts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low + c.Info + c.Unknown
}

// CountBySeverity tallies findings per severity level.
func CountBySeverity(findings []Finding) Counts {
	var counts Counts
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			counts.Critical++
		case SeverityHigh:
			counts.High++
		case SeverityMedium:
			counts.Medium++
		case SeverityLow:
			counts.Low++
		case SeverityInfo:
			counts.Info++
		default:
			counts.Unknown++
		}
	}
	return counts
}

// Filter returns the findings at least as severe as min, preserving order.
func Filter(findings []Finding, min Severity) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity.AtLeast(min) {
			out = append(out, f)
		}
	}
	return out
}

// SortBySeverity orders findings most severe first. Findings of equal
// severity keep their relative order.
func SortBySeverity(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity.Rank() > findings[j].Severity.Rank()
	})
}

// Highest returns the most severe level present. Returns false when the
// list is empty.
func Highest(findings []Finding) (Severity, bool) {
	var max Severity
	found := false
	for _, f := range findings {
		if !found || f.Severity.Rank() > max.Rank() {
			max = f.Severity
			found = true
		}
	}
	return max, found
}

// Package model defines the core data types shared across the application.
package model

import "fmt"

// ItemRule maps a family of raw receipt spellings to one canonical item name.
// Rules are evaluated in table order; the first match wins.
type ItemRule struct {
	Canonical string
	Keywords  []string
	Patterns  []string
}

// Validate ensures the ItemRule has valid data.
func (r *ItemRule) Validate() error {
	if r.Canonical == "" {
		return fmt.Errorf("canonical name is required")
	}
	if len(r.Keywords) == 0 && len(r.Patterns) == 0 {
		return fmt.Errorf("rule %q must have at least one keyword or pattern", r.Canonical)
	}
	return nil
}

// RescueNormalizeEntry is a direct raw-token override checked before the
// candidate rules during rescue resolution.
type RescueNormalizeEntry struct {
	Key       string
	Canonical string
	// Contains widens the match from exact equality to substring containment
	// on the folded key.
	Contains bool
}

// RescueCandidateRule proposes a ranked list of canonical names when the
// primary rule table has no match. Conditions not present on a rule are
// vacuously satisfied; all present conditions must pass independently.
type RescueCandidateRule struct {
	ID            string
	MatchAny      []string
	MatchAll      []string
	MatchPatterns []string
	Candidates    []string
}

// Validate ensures the RescueCandidateRule has valid data.
func (r *RescueCandidateRule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rescue rule id is required")
	}
	if len(r.MatchAny) == 0 && len(r.MatchAll) == 0 && len(r.MatchPatterns) == 0 {
		return fmt.Errorf("rescue rule %q has no match conditions", r.ID)
	}
	if len(r.Candidates) == 0 {
		return fmt.Errorf("rescue rule %q has no candidates", r.ID)
	}
	return nil
}

// CandidateDebug records one canonical-name candidate considered during
// rescue resolution and the rule that proposed it.
type CandidateDebug struct {
	Candidate string `json:"candidate"`
	RuleID    string `json:"rule_id"`
	Reason    string `json:"reason"`
}

// CanonicalResolution is the outcome of resolving one raw item name.
// Canonical is empty when resolution fully failed.
type CanonicalResolution struct {
	Canonical       string           `json:"canonical"`
	ClassID         string           `json:"class_id,omitempty"`
	ClassCode       string           `json:"class_code,omitempty"`
	CandidatesDebug []CandidateDebug `json:"candidates_debug,omitempty"`
}

// Resolved reports whether a canonical identity was produced.
func (r *CanonicalResolution) Resolved() bool {
	return r.Canonical != ""
}

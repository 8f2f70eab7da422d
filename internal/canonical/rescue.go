package canonical

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okaimono/sage/internal/model"
	"github.com/okaimono/sage/internal/normalize"
)

// compiledNormalizeEntry is a RescueNormalizeEntry with its key folded once.
type compiledNormalizeEntry struct {
	key       string
	canonical string
	contains  bool
}

// compiledCandidateRule pre-simplifies substring conditions and compiles
// pattern conditions. A condition absent from the source rule stays empty
// and is vacuously satisfied.
type compiledCandidateRule struct {
	id         string
	matchAny   []string
	matchAll   []string
	patterns   []*regexp.Regexp
	candidates []string
}

// Rescuer is the fallback resolution path taken when the primary rule table
// has no match. It never fails: worst case it returns an empty resolution.
type Rescuer struct {
	normalizeMap []compiledNormalizeEntry
	rules        []compiledCandidateRule
}

// NewRescuer compiles the rescue tables, preserving their order.
func NewRescuer(entries []model.RescueNormalizeEntry, rules []model.RescueCandidateRule) (*Rescuer, error) {
	r := &Rescuer{
		normalizeMap: make([]compiledNormalizeEntry, 0, len(entries)),
		rules:        make([]compiledCandidateRule, 0, len(rules)),
	}

	for _, e := range entries {
		key := normalize.FoldKey(e.Key)
		if key == "" || e.Canonical == "" {
			return nil, fmt.Errorf("rescue normalize entry %q is incomplete", e.Key)
		}
		r.normalizeMap = append(r.normalizeMap, compiledNormalizeEntry{
			key:       key,
			canonical: e.Canonical,
			contains:  e.Contains,
		})
	}

	for i := range rules {
		rule := &rules[i]
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rescue rule %d: %w", i, err)
		}

		cr := compiledCandidateRule{id: rule.ID, candidates: rule.Candidates}
		for _, s := range rule.MatchAny {
			cr.matchAny = append(cr.matchAny, normalize.SimplifyKey(s))
		}
		for _, s := range rule.MatchAll {
			cr.matchAll = append(cr.matchAll, normalize.SimplifyKey(s))
		}
		for _, p := range rule.MatchPatterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("rescue rule %q: invalid pattern %q: %w", rule.ID, p, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		r.rules = append(r.rules, cr)
	}

	return r, nil
}

// Rescue attempts best-effort resolution of a raw name. Phase one consults
// the direct normalize-map on the folded key; phase two evaluates every
// candidate rule in table order, accumulating all proposed candidates for
// transparency. Canonical is the first candidate of the first satisfied
// rule; when nothing is satisfied the resolution is empty and the item
// proceeds with no reference identity.
func (r *Rescuer) Rescue(raw string) model.CanonicalResolution {
	folded := normalize.FoldKey(raw)

	for _, e := range r.normalizeMap {
		hit := folded == e.key
		if !hit && e.contains {
			hit = strings.Contains(folded, e.key)
		}
		if hit {
			return model.CanonicalResolution{
				Canonical: e.canonical,
				CandidatesDebug: []model.CandidateDebug{{
					Candidate: e.canonical,
					RuleID:    "normalize_map",
					Reason:    fmt.Sprintf("direct override for %q", e.key),
				}},
			}
		}
	}

	simplified := normalize.SimplifyKey(raw)
	normalized := normalize.Normalize(raw)

	var resolution model.CanonicalResolution
	for _, rule := range r.rules {
		if !rule.satisfied(simplified, raw, normalized) {
			continue
		}
		if resolution.Canonical == "" {
			resolution.Canonical = rule.candidates[0]
		}
		for _, c := range rule.candidates {
			resolution.CandidatesDebug = append(resolution.CandidatesDebug, model.CandidateDebug{
				Candidate: c,
				RuleID:    rule.id,
				Reason:    "candidate rule match",
			})
		}
	}
	return resolution
}

// satisfied reports whether every condition present on the rule passes.
func (c *compiledCandidateRule) satisfied(simplified, raw, normalized string) bool {
	if len(c.matchAny) > 0 {
		hit := false
		for _, s := range c.matchAny {
			if s != "" && strings.Contains(simplified, s) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	for _, s := range c.matchAll {
		if s == "" || !strings.Contains(simplified, s) {
			return false
		}
	}

	if len(c.patterns) > 0 {
		hit := false
		for _, re := range c.patterns {
			if re.MatchString(raw) || re.MatchString(normalized) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	return true
}

// Package canonical resolves noisy receipt item names to canonical item
// identities using an ordered rule table with a rescue fallback.
package canonical

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/okaimono/sage/internal/model"
	"github.com/okaimono/sage/internal/normalize"
)

// compiledRule is an ItemRule with its keywords pre-simplified and its
// patterns compiled once at construction.
type compiledRule struct {
	canonical string
	keywords  []string
	patterns  []*regexp.Regexp
}

// Matcher evaluates the primary rule table. The first rule in table order
// that matches wins; there is no scoring or best-of-N comparison.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles the rule table. Rule order is preserved as priority
// order.
func NewMatcher(rules []model.ItemRule) (*Matcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i := range rules {
		rule := &rules[i]
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("item rule %d: %w", i, err)
		}

		cr := compiledRule{canonical: rule.Canonical}
		for _, kw := range rule.Keywords {
			if key := normalize.SimplifyKey(kw); key != "" {
				cr.keywords = append(cr.keywords, key)
			}
		}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("item rule %q: invalid pattern %q: %w", rule.Canonical, p, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		compiled = append(compiled, cr)
	}
	return &Matcher{rules: compiled}, nil
}

// Match resolves a raw item name against the rule table, or returns nil
// when no rule matches. Keywords are checked by substring containment on
// the simplified key; patterns run against the unsimplified string because
// they may depend on adjacency that simplification destroys. Patterns see
// both the raw input and its normalized form so that width variants and
// case-sensitive tokens each get a chance.
func (m *Matcher) Match(raw string) *model.CanonicalResolution {
	simplified := normalize.SimplifyKey(raw)
	normalized := normalize.Normalize(raw)
	if simplified == "" && normalized == "" {
		return nil
	}

	for _, rule := range m.rules {
		if m.matchesRule(rule, simplified, raw, normalized) {
			return &model.CanonicalResolution{Canonical: rule.canonical}
		}
	}
	return nil
}

func (m *Matcher) matchesRule(rule compiledRule, simplified, raw, normalized string) bool {
	for _, kw := range rule.keywords {
		if strings.Contains(simplified, kw) {
			return true
		}
	}
	for _, re := range rule.patterns {
		if re.MatchString(raw) || re.MatchString(normalized) {
			return true
		}
	}
	return false
}

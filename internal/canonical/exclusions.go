package canonical

import (
	"strings"

	"github.com/okaimono/sage/internal/normalize"
)

// ExclusionFilter drops receipt lines that are payment or administrative
// noise (totals, tax, change, register and phone references) before they
// reach the matching stages.
type ExclusionFilter struct {
	words []string
}

// NewExclusionFilter builds a filter from the exclusion vocabulary. Words
// are normalized once so matching stays consistent with line normalization.
func NewExclusionFilter(words []string) *ExclusionFilter {
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		if n := normalize.Normalize(w); n != "" {
			normalized = append(normalized, n)
		}
	}
	return &ExclusionFilter{words: normalized}
}

// IsExcluded reports whether the line is administrative noise rather than a
// purchasable item.
func (f *ExclusionFilter) IsExcluded(raw string) bool {
	line := normalize.Normalize(raw)
	if line == "" {
		return false
	}
	for _, w := range f.words {
		if strings.Contains(line, w) {
			return true
		}
	}
	return false
}

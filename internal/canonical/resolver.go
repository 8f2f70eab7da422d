package canonical

import (
	"fmt"

	"github.com/okaimono/sage/internal/model"
)

// Resolver combines the exclusion filter, the primary rule matcher and the
// rescue fallback into the full canonicalization pipeline. It is immutable
// after construction and safe for concurrent use.
type Resolver struct {
	exclusions *ExclusionFilter
	matcher    *Matcher
	rescuer    *Rescuer
}

// NewResolver compiles the given tables into a resolver. All regular
// expressions are compiled here, once, and reused across calls.
func NewResolver(tables Tables) (*Resolver, error) {
	matcher, err := NewMatcher(tables.Items)
	if err != nil {
		return nil, fmt.Errorf("compiling item rules: %w", err)
	}
	rescuer, err := NewRescuer(tables.RescueNormalize, tables.RescueCandidates)
	if err != nil {
		return nil, fmt.Errorf("compiling rescue rules: %w", err)
	}
	return &Resolver{
		exclusions: NewExclusionFilter(tables.Exclusions),
		matcher:    matcher,
		rescuer:    rescuer,
	}, nil
}

// IsExcluded reports whether the line is payment or administrative noise.
// Excluded lines never reach the matching stages.
func (r *Resolver) IsExcluded(raw string) bool {
	return r.exclusions.IsExcluded(raw)
}

// Resolve maps a raw item name to a canonical identity. The primary table
// is consulted first; on a miss the rescue path produces a best-effort
// resolution, which may be empty. A no-match outcome is a normal result,
// not an error.
func (r *Resolver) Resolve(raw string) model.CanonicalResolution {
	if res := r.matcher.Match(raw); res != nil {
		return *res
	}
	return r.rescuer.Rescue(raw)
}

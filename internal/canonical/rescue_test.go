package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaimono/sage/internal/model"
)

func defaultRescuer(t *testing.T) *Rescuer {
	t.Helper()
	tables := DefaultTables()
	r, err := NewRescuer(tables.RescueNormalize, tables.RescueCandidates)
	require.NoError(t, err)
	return r
}

func TestRescuer_NormalizeMapOverride(t *testing.T) {
	r := defaultRescuer(t)

	res := r.Rescue("タマゴ")
	assert.Equal(t, "鶏卵", res.Canonical)
	require.Len(t, res.CandidatesDebug, 1)
	assert.Equal(t, "normalize_map", res.CandidatesDebug[0].RuleID)
}

func TestRescuer_NormalizeMapWidthVariants(t *testing.T) {
	r := defaultRescuer(t)

	// Half-width katakana folds to the same rescue key.
	assert.Equal(t, "鶏卵", r.Rescue("ﾀﾏｺﾞ").Canonical)
	assert.Equal(t, "鶏卵", r.Rescue("玉子").Canonical)
}

func TestRescuer_CandidateRules(t *testing.T) {
	r := defaultRescuer(t)

	// Satisfies canned_foods: contains 缶詰 and ends with 缶.
	res := r.Rescue("ツナ缶詰 3缶")
	assert.Equal(t, "さば水煮", res.Canonical)
	require.NotEmpty(t, res.CandidatesDebug)
	assert.Equal(t, "canned_foods", res.CandidatesDebug[0].RuleID)
	assert.Equal(t, "さば水煮", res.CandidatesDebug[0].Candidate)
}

func TestRescuer_AllSatisfiedRulesContribute(t *testing.T) {
	r := defaultRescuer(t)

	// Both kitsune_udon (match_any) and udon (match_all) are satisfied.
	// Canonical comes from the earliest rule's first candidate, but every
	// satisfied rule's candidates appear in the debug trail.
	res := r.Rescue("きつねうどん 2食")
	assert.Equal(t, "うどん", res.Canonical)
	assert.Len(t, res.CandidatesDebug, 10)
	assert.Equal(t, "kitsune_udon", res.CandidatesDebug[0].RuleID)
	assert.Equal(t, "udon", res.CandidatesDebug[5].RuleID)
}

func TestRescuer_MatchAllRequiresEvery(t *testing.T) {
	r := defaultRescuer(t)

	// うどん alone misses the udon rule (きつね required) and the
	// kitsune_udon rule (needs the full compound).
	res := r.Rescue("ざるうどん")
	assert.Empty(t, res.Canonical)
	assert.Empty(t, res.CandidatesDebug)
}

func TestRescuer_PresentConditionsMustEachPass(t *testing.T) {
	// A rule with both match_any and match_patterns requires both to hit.
	r, err := NewRescuer(nil, []model.RescueCandidateRule{
		{
			ID:            "strict",
			MatchAny:      []string{"缶"},
			MatchPatterns: []string{`缶$`},
			Candidates:    []string{"魚介缶詰"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "魚介缶詰", r.Rescue("さけ缶").Canonical)
	// Contains 缶 but does not end with it.
	assert.Empty(t, r.Rescue("缶ビール").Canonical)
}

func TestRescuer_NoMatchYieldsEmptyResolution(t *testing.T) {
	r := defaultRescuer(t)

	res := r.Rescue("ほうれん草")
	assert.False(t, res.Resolved())
	assert.Empty(t, res.CandidatesDebug)
}

func TestRescuer_ContainsEntry(t *testing.T) {
	r, err := NewRescuer([]model.RescueNormalizeEntry{
		{Key: "たまご", Canonical: "鶏卵", Contains: true},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "鶏卵", r.Rescue("たまごパック").Canonical)
}

package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusionFilter(t *testing.T) {
	f := NewExclusionFilter(DefaultTables().Exclusions)

	tests := []struct {
		raw      string
		excluded bool
	}{
		{"小計 1,234", true},
		{"合計 ¥2,480", true},
		{"消費税等 8%", true},
		{"お預り 5,000", true},
		{"お釣り 2,520", true},
		{"レジ0012", true},
		{"TEL 03-1234-5678", true},
		{"tel 03-1234-5678", true},
		{"牛乳 1000ml", false},
		{"食パン 6枚切", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.excluded, f.IsExcluded(tt.raw))
		})
	}
}

func TestResolver_PrimaryBeforeRescue(t *testing.T) {
	r, err := NewResolver(DefaultTables())
	require.NoError(t, err)

	// タマゴ is both a primary keyword and a rescue override; the primary
	// table must win before rescue is consulted.
	res := r.Resolve("タマゴ 10個")
	assert.Equal(t, "鶏卵", res.Canonical)
	assert.Empty(t, res.CandidatesDebug)
}

func TestResolver_RescueOnPrimaryMiss(t *testing.T) {
	r, err := NewResolver(DefaultTables())
	require.NoError(t, err)

	res := r.Resolve("きつねうどん")
	assert.Equal(t, "うどん", res.Canonical)
	assert.NotEmpty(t, res.CandidatesDebug)
}

func TestResolver_UnresolvedIsNotAnError(t *testing.T) {
	r, err := NewResolver(DefaultTables())
	require.NoError(t, err)

	res := r.Resolve("謎の商品XYZ")
	assert.False(t, res.Resolved())
}

func TestNewResolver_RejectsBadTables(t *testing.T) {
	tables := DefaultTables()
	tables.Items[0].Patterns = []string{"["}
	_, err := NewResolver(tables)
	assert.Error(t, err)
}

package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaimono/sage/internal/model"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with preamble", "Here is the result:\n```json\n{\"a\":1}\n```", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.input))
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	analysis, err := parseAnalysis(`{
		"purchase_date": "2025-06-01",
		"store_name": null,
		"items": [],
		"summary": {"total_payment": 0, "total_luxury_items_cost": 0, "total_overpaid_amount": 0, "total_saved_amount": 0}
	}`)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", analysis.PurchaseDate)
	assert.Nil(t, analysis.StoreName)
}

func TestParseAnalysis_RejectsEmpty(t *testing.T) {
	_, err := parseAnalysis(`{"items": []}`)
	assert.Error(t, err)

	_, err = parseAnalysis("not json at all")
	assert.Error(t, err)
}

func TestParseAnalysis_Verdicts(t *testing.T) {
	analysis, err := parseAnalysis(`{
		"purchase_date": "2025-06-01",
		"items": [
			{"raw_name": "ワイン", "canonical_name": "ワイン",
			 "market_comparison": {"judgement": "LUXURY", "rate": 2.1, "amount_overpaid_yen": 1200}}
		],
		"summary": {"total_payment": 2200}
	}`)
	require.NoError(t, err)
	require.Len(t, analysis.Items, 1)
	assert.Equal(t, model.VisionVerdictLuxury, analysis.Items[0].Comparison.Judgement)
	assert.Equal(t, model.VerdictOverpay, model.MapVisionVerdict(analysis.Items[0].Comparison.Judgement))
}

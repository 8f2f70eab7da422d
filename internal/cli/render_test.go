package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okaimono/sage/internal/model"
	"github.com/okaimono/sage/internal/ranking"
)

func floatPtr(f float64) *float64 { return &f }

func TestRenderAnalysis(t *testing.T) {
	verdict := model.VerdictDeal
	out := RenderAnalysis(&model.AnalysisResult{
		PurchaseDate: "2025-05-30",
		StoreName:    "スーパーみどり",
		Currency:     "JPY",
		Items: []model.ItemResult{
			{
				RawName:       "ﾐﾙｸ",
				Canonical:     "牛乳",
				PaidUnitPrice: floatPtr(198),
				Quantity:      1,
				Judgment: model.PriceJudgment{
					Found:     true,
					StatPrice: floatPtr(240),
					Diff:      floatPtr(-42),
					Rate:      floatPtr(-0.175),
					Judgement: &verdict,
				},
			},
			{
				RawName:       "謎のスナック",
				PaidUnitPrice: floatPtr(300),
				Quantity:      1,
				Judgment:      model.PriceJudgment{Found: false},
			},
		},
		Summary: model.AnalysisSummary{
			TotalPayment:        498,
			TotalSavedAmount:    42,
			TotalOverpaidAmount: 0,
		},
	})

	assert.Contains(t, out, "スーパーみどり")
	assert.Contains(t, out, "牛乳")
	assert.Contains(t, out, "DEAL")
	assert.Contains(t, out, "no reference price")
	assert.Contains(t, out, "Saved: 42円")
}

func TestRenderRanking_HighlightsRequesterInWindow(t *testing.T) {
	nickname := "たろう"
	rank := 2
	out := RenderRanking(&ranking.Result{
		MyRank:       &rank,
		MyTotalSaved: 300,
		Rankings: model.RankingEntries{
			{Rank: 1, UserID: "u1", Nickname: &nickname, TotalSaved: 350, TotalOverpaid: 150},
			{Rank: 2, UserID: "u2", TotalSaved: 300},
		},
	}, "u2")

	assert.Contains(t, out, "たろう")
	assert.Contains(t, out, "u2")
	assert.NotContains(t, out, "⋮")
}

func TestRenderRanking_RequesterOutsideWindow(t *testing.T) {
	rank := 42
	out := RenderRanking(&ranking.Result{
		MyRank:          &rank,
		MyTotalSaved:    -120,
		MyTotalOverpaid: 500,
		Rankings: model.RankingEntries{
			{Rank: 1, UserID: "u1", TotalSaved: 350},
		},
	}, "u99")

	assert.Contains(t, out, "⋮")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "-120")
}

func TestRenderRanking_Empty(t *testing.T) {
	out := RenderRanking(&ranking.Result{}, "u1")
	assert.Contains(t, out, "No savings records yet")
}

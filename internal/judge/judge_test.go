package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaimono/sage/internal/model"
)

func TestJudge(t *testing.T) {
	tests := []struct {
		name     string
		paid     float64
		ref      float64
		wantDiff float64
		wantRate float64
		want     model.Verdict
	}{
		{
			name: "clear deal", paid: 100, ref: 120,
			wantDiff: -20, wantRate: -20.0 / 120.0, want: model.VerdictDeal,
		},
		{
			name: "clear overpay", paid: 130, ref: 100,
			wantDiff: 30, wantRate: 0.3, want: model.VerdictOverpay,
		},
		{
			name: "exact match is fair", paid: 100, ref: 100,
			wantDiff: 0, wantRate: 0, want: model.VerdictFair,
		},
		{
			name: "deal boundary inclusive", paid: 95, ref: 100,
			wantDiff: -5, wantRate: -0.05, want: model.VerdictDeal,
		},
		{
			name: "overpay boundary inclusive", paid: 105, ref: 100,
			wantDiff: 5, wantRate: 0.05, want: model.VerdictOverpay,
		},
		{
			name: "just inside fair band low", paid: 96, ref: 100,
			wantDiff: -4, wantRate: -0.04, want: model.VerdictFair,
		},
		{
			name: "just inside fair band high", paid: 104, ref: 100,
			wantDiff: 4, wantRate: 0.04, want: model.VerdictFair,
		},
		{
			name: "zero reference never faults", paid: 100, ref: 0,
			wantDiff: 100, wantRate: 0, want: model.VerdictFair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, rate, verdict := Judge(tt.paid, tt.ref)
			assert.Equal(t, tt.wantDiff, diff)
			assert.Equal(t, tt.wantRate, rate)
			assert.Equal(t, tt.want, verdict)
		})
	}
}

func TestJudgeWithReference_Found(t *testing.T) {
	ref := 120.0
	j := JudgeWithReference(100, &ref, "本(1000ml)")

	assert.True(t, j.Found)
	require.NotNil(t, j.Diff)
	require.NotNil(t, j.Rate)
	require.NotNil(t, j.Judgement)
	require.NotNil(t, j.StatUnit)
	assert.Equal(t, -20.0, *j.Diff)
	assert.InDelta(t, -0.1667, *j.Rate, 0.0001)
	assert.Equal(t, model.VerdictDeal, *j.Judgement)
	assert.Equal(t, "本(1000ml)", *j.StatUnit)
}

func TestJudgeWithReference_MissingReference(t *testing.T) {
	j := JudgeWithReference(100, nil, "")

	assert.False(t, j.Found)
	assert.Nil(t, j.StatPrice)
	assert.Nil(t, j.Diff)
	assert.Nil(t, j.Rate)
	assert.Nil(t, j.Judgement)
	assert.NotEmpty(t, j.Note)
}

func TestJudgeWithReference_ZeroReferenceTreatedAsMissing(t *testing.T) {
	zero := 0.0
	j := JudgeWithReference(100, &zero, "袋")

	assert.False(t, j.Found)
	assert.Nil(t, j.Judgement)
	assert.Nil(t, j.Rate)
}

func TestMapVisionVerdict(t *testing.T) {
	assert.Equal(t, model.VerdictDeal, model.MapVisionVerdict(model.VisionVerdictDeal))
	assert.Equal(t, model.VerdictFair, model.MapVisionVerdict(model.VisionVerdictStandard))
	assert.Equal(t, model.VerdictOverpay, model.MapVisionVerdict(model.VisionVerdictLuxury))
}

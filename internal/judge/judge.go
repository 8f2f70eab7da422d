// Package judge classifies a paid price against a reference price.
package judge

import (
	"fmt"

	"github.com/okaimono/sage/internal/model"
)

// Thresholds configures the classification bands. Rates at or below
// DealRate classify as DEAL, at or above OverpayRate as OVERPAY, and
// strictly between as FAIR.
type Thresholds struct {
	DealRate    float64
	OverpayRate float64
}

// DefaultThresholds is the statistical-lookup band configuration: a ±5%
// deviation from the reference price.
var DefaultThresholds = Thresholds{
	DealRate:    -0.05,
	OverpayRate: 0.05,
}

// VisionMultiplierBands is the image-understanding path configuration,
// expressed as paid/reference multipliers rather than signed rates. It
// belongs to the DEAL/STANDARD/LUXURY vocabulary and must not be fed into
// Judge; see model.MapVisionVerdict for the documented bridge.
var VisionMultiplierBands = struct {
	DealMax   float64
	LuxuryMin float64
}{
	DealMax:   0.8,
	LuxuryMin: 1.3,
}

// Judge computes the price relationship for a known reference price. When
// reference is zero the rate is pinned to zero instead of faulting; callers
// with no usable reference should use JudgeWithReference, which models that
// state explicitly instead of abusing the zero convention.
func Judge(paid, reference float64) (diff, rate float64, verdict model.Verdict) {
	return judgeWith(DefaultThresholds, paid, reference)
}

func judgeWith(t Thresholds, paid, reference float64) (float64, float64, model.Verdict) {
	diff := paid - reference
	rate := 0.0
	if reference != 0 {
		rate = diff / reference
	}

	switch {
	case rate <= t.DealRate:
		return diff, rate, model.VerdictDeal
	case rate >= t.OverpayRate:
		return diff, rate, model.VerdictOverpay
	default:
		return diff, rate, model.VerdictFair
	}
}

// JudgeWithReference produces the full judgment value for one item. A
// missing or zero reference yields Found=false with nil numeric fields;
// a fabricated zero reference never reaches the rate formula.
func JudgeWithReference(paid float64, reference *float64, unit string) model.PriceJudgment {
	if reference == nil || *reference == 0 {
		note := "no statistical reference price"
		if reference != nil {
			note = "reference price of zero treated as missing"
		}
		return model.PriceJudgment{Found: false, Note: note}
	}

	diff, rate, verdict := Judge(paid, *reference)
	j := model.PriceJudgment{
		Found:     true,
		StatPrice: reference,
		Diff:      &diff,
		Rate:      &rate,
		Judgement: &verdict,
		Note:      fmt.Sprintf("rate %+.4f vs reference %.0f", rate, *reference),
	}
	if unit != "" {
		j.StatUnit = &unit
	}
	return j
}

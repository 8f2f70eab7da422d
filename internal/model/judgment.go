package model

// Verdict classifies a paid price against a statistical reference price.
type Verdict string

// Verdicts for the statistical-lookup judgment path.
const (
	VerdictDeal    Verdict = "DEAL"
	VerdictFair    Verdict = "FAIR"
	VerdictOverpay Verdict = "OVERPAY"
)

// VisionVerdict classifies a paid price on the image-understanding path,
// where the reference comes from the market-data context handed to the
// vision service rather than from a statistical lookup. The two
// vocabularies are kept separate; see MapVisionVerdict for the documented
// bridge.
type VisionVerdict string

// Verdicts for the vision judgment path.
const (
	VisionVerdictDeal     VisionVerdict = "DEAL"
	VisionVerdictStandard VisionVerdict = "STANDARD"
	VisionVerdictLuxury   VisionVerdict = "LUXURY"
)

// MapVisionVerdict maps the vision vocabulary onto the statistical one for
// contexts that need a single taxonomy (e.g. summary counts). LUXURY folds
// into OVERPAY and STANDARD into FAIR.
func MapVisionVerdict(v VisionVerdict) Verdict {
	switch v {
	case VisionVerdictDeal:
		return VerdictDeal
	case VisionVerdictLuxury:
		return VerdictOverpay
	default:
		return VerdictFair
	}
}

// PriceJudgment is the result of comparing a paid price to a reference
// price. When Found is false no reference price was available and
// StatPrice, Diff, Rate and Judgement are all nil rather than computed from
// a fabricated zero reference.
type PriceJudgment struct {
	Found     bool     `json:"found"`
	StatPrice *float64 `json:"stat_price"`
	StatUnit  *string  `json:"stat_unit"`
	Diff      *float64 `json:"diff"`
	Rate      *float64 `json:"rate"`
	Judgement *Verdict `json:"judgement"`
	Note      string   `json:"note,omitempty"`
}

// ItemResult is one analyzed receipt line after canonicalization and price
// judgment.
type ItemResult struct {
	RawName       string              `json:"raw_name"`
	Canonical     string              `json:"canonical,omitempty"`
	PaidUnitPrice *float64            `json:"paid_unit_price"`
	Quantity      float64             `json:"quantity"`
	Resolution    CanonicalResolution `json:"resolution"`
	Judgment      PriceJudgment       `json:"estat"`
}

package model

// MarketPrice is one reference price handed to the vision service as
// judgment context.
type MarketPrice struct {
	ItemName string  `json:"item_name"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit"`
}

// VisionItemInput echoes what the vision service read off the receipt line.
type VisionItemInput struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// VisionNormalization records the unit conversion the vision service applied
// before comparing against market data.
type VisionNormalization struct {
	MarketUnit       string  `json:"market_unit"`
	MarketUnitPrice  float64 `json:"market_unit_price"`
	EstimatedWeightG float64 `json:"estimated_weight_g"`
	Note             string  `json:"note,omitempty"`
}

// VisionComparison is the vision service's price judgment for one item.
type VisionComparison struct {
	MarketEquivalentValue float64       `json:"market_equivalent_value"`
	DiffAmount            float64       `json:"diff_amount"`
	Rate                  float64       `json:"rate"`
	Judgement             VisionVerdict `json:"judgement"`
	AmountSavedYen        int           `json:"amount_saved_yen"`
	AmountOverpaidYen     int           `json:"amount_overpaid_yen"`
}

// VisionItem is one analyzed receipt line on the vision path.
type VisionItem struct {
	RawName       string              `json:"raw_name"`
	CanonicalName string              `json:"canonical_name"`
	Input         VisionItemInput     `json:"input"`
	Normalization VisionNormalization `json:"normalization"`
	Comparison    VisionComparison    `json:"market_comparison"`
}

// VisionSummary totals one receipt's vision analysis.
type VisionSummary struct {
	TotalPayment         float64 `json:"total_payment"`
	TotalLuxuryItemsCost float64 `json:"total_luxury_items_cost"`
	TotalOverpaidAmount  int     `json:"total_overpaid_amount"`
	TotalSavedAmount     int     `json:"total_saved_amount"`
}

// VisionAnalysis is the structured reply of the vision service for one
// receipt image.
type VisionAnalysis struct {
	PurchaseDate string        `json:"purchase_date"`
	StoreName    *string       `json:"store_name"`
	Items        []VisionItem  `json:"items"`
	Summary      VisionSummary `json:"summary"`
}

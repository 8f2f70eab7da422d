package engine

import (
	"context"

	"github.com/okaimono/sage/internal/estat"
	"github.com/okaimono/sage/internal/model"
)

// PriceSource supplies statistical reference prices for canonical item
// names. A missing price is reported as common.ErrNotFound, never as a
// fabricated zero.
type PriceSource interface {
	LookupPrice(ctx context.Context, canonical string) (*estat.PriceInfo, error)
}

// VisionAnalyzer reads a receipt image and judges its lines against the
// supplied market-price context.
type VisionAnalyzer interface {
	AnalyzeReceipt(ctx context.Context, image []byte, market []model.MarketPrice) (*model.VisionAnalysis, error)
}

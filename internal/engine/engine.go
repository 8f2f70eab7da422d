// Package engine orchestrates receipt analysis: line canonicalization,
// reference-price judgment, summary totals and persistence.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/okaimono/sage/internal/canonical"
	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/judge"
	"github.com/okaimono/sage/internal/model"
	"github.com/okaimono/sage/internal/service"
)

const fallbackPurchaseDate = "1970-01-01"

// ReceiptLine is one pre-extracted receipt line: the raw item text plus the
// paid unit price and quantity the extraction stage read off the image.
type ReceiptLine struct {
	RawName   string  `json:"raw_name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  float64 `json:"quantity"`
}

// ReceiptInput is a full pre-extracted receipt ready for analysis.
type ReceiptInput struct {
	PurchaseDate string        `json:"purchase_date"`
	StoreName    string        `json:"store_name"`
	Lines        []ReceiptLine `json:"lines"`
}

// Config holds analysis engine settings.
type Config struct {
	Currency   string
	MarketData []model.MarketPrice
}

// DefaultConfig returns the default engine configuration. The market data
// is the context block handed to the vision service; representative retail
// prices stand in until a statistical refresh replaces them.
func DefaultConfig() Config {
	return Config{
		Currency: "JPY",
		MarketData: []model.MarketPrice{
			{ItemName: "たまねぎ", Price: 418, Unit: "kg"},
			{ItemName: "にんじん", Price: 350, Unit: "kg"},
			{ItemName: "鶏卵", Price: 280, Unit: "パック(10個)"},
			{ItemName: "牛乳", Price: 250, Unit: "本(1000ml)"},
			{ItemName: "食パン", Price: 180, Unit: "袋"},
			{ItemName: "米", Price: 2500, Unit: "5kg"},
		},
	}
}

// AnalysisEngine runs the per-receipt pipeline and records the outcome.
type AnalysisEngine struct {
	storage    service.Storage
	resolver   *canonical.Resolver
	prices     PriceSource
	vision     VisionAnalyzer
	currency   string
	marketData []model.MarketPrice
}

// New creates an analysis engine with default configuration. The vision
// analyzer may be nil when only the text path is used.
func New(storage service.Storage, resolver *canonical.Resolver, prices PriceSource, vision VisionAnalyzer) *AnalysisEngine {
	return NewWithConfig(storage, resolver, prices, vision, DefaultConfig())
}

// NewWithConfig creates an analysis engine with custom configuration.
func NewWithConfig(storage service.Storage, resolver *canonical.Resolver, prices PriceSource, vision VisionAnalyzer, config Config) *AnalysisEngine {
	currency := config.Currency
	if currency == "" {
		currency = "JPY"
	}
	return &AnalysisEngine{
		storage:    storage,
		resolver:   resolver,
		prices:     prices,
		vision:     vision,
		currency:   currency,
		marketData: config.MarketData,
	}
}

// AnalyzeLines runs the canonicalization and judgment pipeline over
// pre-extracted receipt lines, persists the outcome for the user, and
// returns the full analysis. Lines that are payment or administrative noise
// are dropped before matching; a receipt whose every line is dropped yields
// common.ErrNoItems.
func (e *AnalysisEngine) AnalyzeLines(ctx context.Context, userID string, input ReceiptInput) (*model.AnalysisResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if len(input.Lines) == 0 {
		return nil, common.ErrNoItems
	}

	slog.Info("Starting receipt analysis",
		"user_id", userID,
		"lines", len(input.Lines),
		"store", input.StoreName)

	var items []model.ItemResult
	var summary model.AnalysisSummary
	savedTotal := 0
	overpaidTotal := 0

	for _, line := range input.Lines {
		raw := strings.TrimSpace(line.RawName)
		if raw == "" {
			continue
		}
		if e.resolver.IsExcluded(raw) {
			slog.Debug("Excluded receipt line", "raw", raw)
			continue
		}

		quantity := line.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		resolution := e.resolver.Resolve(raw)
		judgment := e.judgeLine(ctx, resolution.Canonical, line.UnitPrice)

		summary.TotalPayment += line.UnitPrice * quantity
		if judgment.Found && judgment.Judgement != nil {
			lineDiff := *judgment.Diff * quantity
			switch *judgment.Judgement {
			case model.VerdictDeal:
				savedTotal += int(math.Round(-lineDiff))
			case model.VerdictOverpay:
				overpaidTotal += int(math.Round(lineDiff))
			case model.VerdictFair:
			}
		}

		unitPrice := line.UnitPrice
		items = append(items, model.ItemResult{
			RawName:       raw,
			Canonical:     resolution.Canonical,
			PaidUnitPrice: &unitPrice,
			Quantity:      quantity,
			Resolution:    resolution,
			Judgment:      judgment,
		})
	}

	if len(items) == 0 {
		return nil, common.ErrNoItems
	}

	summary.TotalSavedAmount = savedTotal
	summary.TotalOverpaidAmount = overpaidTotal

	result := &model.AnalysisResult{
		PurchaseDate: input.PurchaseDate,
		StoreName:    input.StoreName,
		Currency:     e.currency,
		Items:        items,
		Summary:      summary,
	}

	e.persistOutcome(ctx, userID, result.PurchaseDate, result.StoreName, savedTotal, overpaidTotal, len(items), result)

	slog.Info("Receipt analysis complete",
		"user_id", userID,
		"items", len(items),
		"saved", savedTotal,
		"overpaid", overpaidTotal)
	return result, nil
}

// AnalyzeImage hands the receipt image with the market-price context to the
// vision service and persists the returned analysis for the user.
func (e *AnalysisEngine) AnalyzeImage(ctx context.Context, userID string, image []byte) (*model.VisionAnalysis, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if e.vision == nil {
		return nil, fmt.Errorf("%w: no vision analyzer configured", common.ErrVisionUnavailable)
	}

	slog.Info("Starting vision analysis", "user_id", userID, "image_bytes", len(image))

	analysis, err := e.vision.AnalyzeReceipt(ctx, image, e.marketData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrAnalysisFailed, err)
	}

	storeName := ""
	if analysis.StoreName != nil {
		storeName = *analysis.StoreName
	}
	e.persistOutcome(ctx, userID, analysis.PurchaseDate, storeName,
		analysis.Summary.TotalSavedAmount, analysis.Summary.TotalOverpaidAmount,
		len(analysis.Items), analysis)

	return analysis, nil
}

// judgeLine looks up the reference price for a resolved canonical and
// classifies the paid price against it. Lines that did not resolve, or
// whose lookup found nothing, carry an explicit not-found judgment.
func (e *AnalysisEngine) judgeLine(ctx context.Context, canonicalName string, paid float64) model.PriceJudgment {
	if canonicalName == "" {
		return judge.JudgeWithReference(paid, nil, "")
	}

	info, err := e.prices.LookupPrice(ctx, canonicalName)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			slog.Warn("Reference price lookup failed",
				"canonical", canonicalName,
				"error", err)
		}
		return judge.JudgeWithReference(paid, nil, "")
	}
	return judge.JudgeWithReference(paid, &info.Price, info.Unit)
}

// persistOutcome records the savings summary and the full analysis payload.
// Persistence failures are logged but do not fail the analysis the user is
// waiting on.
func (e *AnalysisEngine) persistOutcome(ctx context.Context, userID, purchaseDate, storeName string, saved, overpaid, itemCount int, payload any) {
	if purchaseDate == "" {
		purchaseDate = fallbackPurchaseDate
	}

	record := &model.SavingsRecord{
		UserID:              userID,
		PurchaseDate:        purchaseDate,
		StoreName:           storeName,
		TotalSavedAmount:    saved,
		TotalOverpaidAmount: overpaid,
		ItemCount:           itemCount,
	}
	if err := e.storage.SaveSavingsRecord(ctx, record); err != nil {
		slog.Warn("Failed to save savings record", "user_id", userID, "error", err)
	}

	resultJSON, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("Failed to encode analysis result", "user_id", userID, "error", err)
		return
	}
	if _, err := e.storage.SaveReceipt(ctx, &model.Receipt{
		UserID:       userID,
		PurchaseDate: purchaseDate,
		StoreName:    storeName,
		Result:       string(resultJSON),
	}); err != nil {
		slog.Warn("Failed to save receipt", "user_id", userID, "error", err)
	}
}

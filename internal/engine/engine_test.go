package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaimono/sage/internal/canonical"
	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/estat"
	"github.com/okaimono/sage/internal/model"
	"github.com/okaimono/sage/internal/testutil"
)

func newTestEngine(t *testing.T, prices *MockPriceSource, visionMock *MockVision) (*AnalysisEngine, *testutil.TestDB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	resolver, err := canonical.NewResolver(canonical.DefaultTables())
	require.NoError(t, err)

	var analyzer VisionAnalyzer
	if visionMock != nil {
		analyzer = visionMock
	}
	return New(db.Storage, resolver, prices, analyzer), db
}

func referencePrices() *MockPriceSource {
	return NewMockPriceSource(map[string]estat.PriceInfo{
		"牛乳": {Price: 240, Unit: "1000ml", ClassID: "cat01", ClassCode: "1020"},
		"鶏卵": {Price: 280, Unit: "パック", ClassID: "cat01", ClassCode: "1010"},
	})
}

func TestAnalyzeLines_FullPipeline(t *testing.T) {
	engine, db := newTestEngine(t, referencePrices(), nil)
	ctx := context.Background()

	result, err := engine.AnalyzeLines(ctx, "u1", ReceiptInput{
		PurchaseDate: "2025-05-30",
		StoreName:    "スーパーみどり",
		Lines: []ReceiptLine{
			{RawName: "牛乳", UnitPrice: 198, Quantity: 1},
			{RawName: "合計 1000円", UnitPrice: 1000},
			{RawName: "タマゴ", UnitPrice: 300, Quantity: 1},
			{RawName: "謎のスナック", UnitPrice: 300, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// The total line is excluded; three items survive.
	require.Len(t, result.Items, 3)
	assert.Equal(t, "JPY", result.Currency)
	assert.InDelta(t, 798, result.Summary.TotalPayment, 0.001)

	milk := result.Items[0]
	assert.Equal(t, "牛乳", milk.Canonical)
	require.True(t, milk.Judgment.Found)
	assert.Equal(t, model.VerdictDeal, *milk.Judgment.Judgement)
	assert.InDelta(t, -42, *milk.Judgment.Diff, 0.001)

	egg := result.Items[1]
	assert.Equal(t, "鶏卵", egg.Canonical)
	require.True(t, egg.Judgment.Found)
	assert.Equal(t, model.VerdictOverpay, *egg.Judgment.Judgement)

	unknown := result.Items[2]
	assert.Empty(t, unknown.Canonical)
	assert.False(t, unknown.Judgment.Found)
	assert.Nil(t, unknown.Judgment.Rate)

	assert.Equal(t, 42, result.Summary.TotalSavedAmount)
	assert.Equal(t, 20, result.Summary.TotalOverpaidAmount)

	// The outcome is persisted as both a savings record and a receipt.
	records, err := db.Storage.GetSavingsRecordsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 42, records[0].TotalSavedAmount)
	assert.Equal(t, 20, records[0].TotalOverpaidAmount)
	assert.Equal(t, 3, records[0].ItemCount)
	assert.Equal(t, "スーパーみどり", records[0].StoreName)

	receipts, err := db.Storage.GetReceiptsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Contains(t, receipts[0].Result, "牛乳")
	assert.Equal(t, "2025-05-30", receipts[0].PurchaseDate)
}

func TestAnalyzeLines_QuantityScalesTotals(t *testing.T) {
	engine, _ := newTestEngine(t, referencePrices(), nil)

	result, err := engine.AnalyzeLines(context.Background(), "u1", ReceiptInput{
		Lines: []ReceiptLine{
			{RawName: "牛乳", UnitPrice: 198, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 396, result.Summary.TotalPayment, 0.001)
	assert.Equal(t, 84, result.Summary.TotalSavedAmount)
}

func TestAnalyzeLines_ZeroQuantityDefaultsToOne(t *testing.T) {
	engine, _ := newTestEngine(t, referencePrices(), nil)

	result, err := engine.AnalyzeLines(context.Background(), "u1", ReceiptInput{
		Lines: []ReceiptLine{
			{RawName: "牛乳", UnitPrice: 198},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), result.Items[0].Quantity)
	assert.InDelta(t, 198, result.Summary.TotalPayment, 0.001)
}

func TestAnalyzeLines_AllLinesExcluded(t *testing.T) {
	engine, _ := newTestEngine(t, referencePrices(), nil)

	_, err := engine.AnalyzeLines(context.Background(), "u1", ReceiptInput{
		Lines: []ReceiptLine{
			{RawName: "小計 820円", UnitPrice: 820},
			{RawName: "お釣り 180円", UnitPrice: 180},
			{RawName: "  ", UnitPrice: 0},
		},
	})
	assert.ErrorIs(t, err, common.ErrNoItems)
}

func TestAnalyzeLines_EmptyInput(t *testing.T) {
	engine, _ := newTestEngine(t, referencePrices(), nil)

	_, err := engine.AnalyzeLines(context.Background(), "u1", ReceiptInput{})
	assert.ErrorIs(t, err, common.ErrNoItems)

	_, err = engine.AnalyzeLines(context.Background(), "", ReceiptInput{
		Lines: []ReceiptLine{{RawName: "牛乳", UnitPrice: 198}},
	})
	assert.Error(t, err)
}

func TestAnalyzeLines_LookupFailureDegradesToNotFound(t *testing.T) {
	prices := referencePrices()
	prices.SetError(errors.New("upstream down"))
	engine, _ := newTestEngine(t, prices, nil)

	result, err := engine.AnalyzeLines(context.Background(), "u1", ReceiptInput{
		Lines: []ReceiptLine{{RawName: "牛乳", UnitPrice: 198}},
	})
	require.NoError(t, err)
	assert.False(t, result.Items[0].Judgment.Found)
	assert.Equal(t, 0, result.Summary.TotalSavedAmount)
}

func TestAnalyzeLines_MissingPurchaseDateGetsFallback(t *testing.T) {
	engine, db := newTestEngine(t, referencePrices(), nil)
	ctx := context.Background()

	_, err := engine.AnalyzeLines(ctx, "u1", ReceiptInput{
		Lines: []ReceiptLine{{RawName: "牛乳", UnitPrice: 198}},
	})
	require.NoError(t, err)

	records, err := db.Storage.GetSavingsRecordsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1970-01-01", records[0].PurchaseDate)
}

func TestAnalyzeImage_PersistsVisionSummary(t *testing.T) {
	store := "やおや八百一"
	visionMock := NewMockVision(&model.VisionAnalysis{
		PurchaseDate: "2025-06-02",
		StoreName:    &store,
		Items: []model.VisionItem{
			{RawName: "タマネギ 3コ", CanonicalName: "たまねぎ"},
			{RawName: "牛乳", CanonicalName: "牛乳"},
		},
		Summary: model.VisionSummary{
			TotalPayment:        520,
			TotalSavedAmount:    120,
			TotalOverpaidAmount: 30,
		},
	})
	engine, db := newTestEngine(t, referencePrices(), visionMock)
	ctx := context.Background()

	analysis, err := engine.AnalyzeImage(ctx, "u1", []byte("fake-jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", analysis.PurchaseDate)
	assert.Equal(t, 1, visionMock.Calls())

	// The engine passes its market context through to the service.
	market := visionMock.LastMarket()
	require.NotEmpty(t, market)
	assert.Equal(t, "たまねぎ", market[0].ItemName)

	records, err := db.Storage.GetSavingsRecordsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 120, records[0].TotalSavedAmount)
	assert.Equal(t, 30, records[0].TotalOverpaidAmount)
	assert.Equal(t, 2, records[0].ItemCount)
	assert.Equal(t, store, records[0].StoreName)

	receipts, err := db.Storage.GetReceiptsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Contains(t, receipts[0].Result, "たまねぎ")
}

func TestAnalyzeImage_VisionErrorPropagates(t *testing.T) {
	visionMock := NewMockVision(nil)
	visionMock.SetError(errors.New("model overloaded"))
	engine, db := newTestEngine(t, referencePrices(), visionMock)
	ctx := context.Background()

	_, err := engine.AnalyzeImage(ctx, "u1", []byte("fake-jpeg"))
	assert.ErrorIs(t, err, common.ErrAnalysisFailed)

	records, err := db.Storage.GetSavingsRecordsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAnalyzeImage_NoAnalyzerConfigured(t *testing.T) {
	engine, _ := newTestEngine(t, referencePrices(), nil)

	_, err := engine.AnalyzeImage(context.Background(), "u1", []byte("fake-jpeg"))
	assert.ErrorIs(t, err, common.ErrVisionUnavailable)
}

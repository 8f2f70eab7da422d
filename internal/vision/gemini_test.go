package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/model"
)

const analysisJSON = `{
	"purchase_date": "2025-05-30",
	"store_name": "スーパーみどり",
	"items": [
		{
			"raw_name": "タマネギ 3コ",
			"canonical_name": "たまねぎ",
			"input": {"price": 100, "quantity": 3, "unit": "個"},
			"normalization": {
				"market_unit": "kg",
				"market_unit_price": 418,
				"estimated_weight_g": 600,
				"note": "玉ねぎ1個を200gと推定"
			},
			"market_comparison": {
				"market_equivalent_value": 251,
				"diff_amount": -49,
				"rate": 1.2,
				"judgement": "STANDARD",
				"amount_saved_yen": 0,
				"amount_overpaid_yen": 49
			}
		}
	],
	"summary": {
		"total_payment": 300,
		"total_luxury_items_cost": 0,
		"total_overpaid_amount": 49,
		"total_saved_amount": 0
	}
}`

func geminiReply(text string) string {
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	out, _ := json.Marshal(payload)
	return string(out)
}

func marketData() []model.MarketPrice {
	return []model.MarketPrice{
		{ItemName: "たまねぎ", Price: 418, Unit: "kg"},
		{ItemName: "牛乳", Price: 250, Unit: "本(1000ml)"},
	}
}

func newTestVisionClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		Model:         "gemini-flash-latest",
		FallbackModel: "gemini-1.5-pro",
		Timeout:       5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestAnalyzeReceipt_Success(t *testing.T) {
	var gotPrompt string
	client := newTestVisionClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-flash-latest:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body struct {
			Contents []struct {
				Parts []map[string]any `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		require.Len(t, body.Contents[0].Parts, 2)
		gotPrompt, _ = body.Contents[0].Parts[0]["text"].(string)

		_, _ = w.Write([]byte(geminiReply(analysisJSON)))
	})

	analysis, err := client.AnalyzeReceipt(context.Background(), []byte("fake-jpeg"), marketData())
	require.NoError(t, err)

	assert.Equal(t, "2025-05-30", analysis.PurchaseDate)
	require.NotNil(t, analysis.StoreName)
	assert.Equal(t, "スーパーみどり", *analysis.StoreName)
	require.Len(t, analysis.Items, 1)
	assert.Equal(t, "たまねぎ", analysis.Items[0].CanonicalName)
	assert.Equal(t, model.VisionVerdictStandard, analysis.Items[0].Comparison.Judgement)
	assert.Equal(t, 49, analysis.Summary.TotalOverpaidAmount)

	// The market context made it into the prompt.
	assert.Contains(t, gotPrompt, "たまねぎ")
	assert.Contains(t, gotPrompt, "418")
	assert.NotContains(t, gotPrompt, "{{MARKET_DATA_JSON}}")
}

func TestAnalyzeReceipt_FallsBackOnPrimaryFailure(t *testing.T) {
	var models []string
	client := newTestVisionClient(t, func(w http.ResponseWriter, r *http.Request) {
		models = append(models, r.URL.Path)
		if strings.Contains(r.URL.Path, "gemini-flash-latest") {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(geminiReply(analysisJSON)))
	})

	analysis, err := client.AnalyzeReceipt(context.Background(), []byte("fake-jpeg"), marketData())
	require.NoError(t, err)
	assert.Equal(t, "2025-05-30", analysis.PurchaseDate)
	require.Len(t, models, 2)
	assert.Contains(t, models[1], "gemini-1.5-pro")
}

func TestAnalyzeReceipt_BothModelsFail(t *testing.T) {
	client := newTestVisionClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	_, err := client.AnalyzeReceipt(context.Background(), []byte("fake-jpeg"), marketData())
	assert.Error(t, err)
}

func TestAnalyzeReceipt_EmptyImage(t *testing.T) {
	client := newTestVisionClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.AnalyzeReceipt(context.Background(), nil, marketData())
	assert.ErrorIs(t, err, common.ErrVisionUnavailable)
}

func TestAnalyzeReceipt_CodeFencedReply(t *testing.T) {
	client := newTestVisionClient(t, func(w http.ResponseWriter, r *http.Request) {
		fenced := fmt.Sprintf("```json\n%s\n```", analysisJSON)
		_, _ = w.Write([]byte(geminiReply(fenced)))
	})

	analysis, err := client.AnalyzeReceipt(context.Background(), []byte("fake-jpeg"), marketData())
	require.NoError(t, err)
	assert.Len(t, analysis.Items, 1)
}

func TestDetectMIMEType(t *testing.T) {
	assert.Equal(t, "image/png", detectMIMEType([]byte("\x89PNG\r\n\x1a\nrest")))
	assert.Equal(t, "image/webp", detectMIMEType([]byte("RIFFxxxxWEBP")))
	assert.Equal(t, "image/jpeg", detectMIMEType([]byte{0xFF, 0xD8, 0xFF}))
}

// Package vision calls the external image-inference service that reads a
// receipt photo and judges each line against supplied market prices. The
// service's content understanding is a black box; this package only owns the
// transport and the structured reply.
package vision

import (
	"context"
	"time"

	"github.com/okaimono/sage/internal/model"
)

// Client analyzes receipt images against market-price context.
type Client interface {
	// AnalyzeReceipt sends the image and market data and returns the
	// service's structured analysis.
	AnalyzeReceipt(ctx context.Context, image []byte, market []model.MarketPrice) (*model.VisionAnalysis, error)
}

// Config holds vision service connection settings.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	FallbackModel string
	Timeout       time.Duration
}

// NewClient creates the Gemini-backed vision client.
func NewClient(cfg Config) (Client, error) {
	return newGeminiClient(cfg)
}

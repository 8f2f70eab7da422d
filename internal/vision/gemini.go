package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/model"
)

const (
	defaultBaseURL       = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel         = "gemini-flash-latest"
	defaultFallbackModel = "gemini-1.5-pro"
)

type geminiClient struct {
	httpClient    *http.Client
	apiKey        string
	baseURL       string
	model         string
	fallbackModel string
}

func newGeminiClient(cfg Config) (*geminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vision API key is required: %w", common.ErrMissingConfig)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	m := cfg.Model
	if m == "" {
		m = defaultModel
	}
	fallback := cfg.FallbackModel
	if fallback == "" {
		fallback = defaultFallbackModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &geminiClient{
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		model:         m,
		fallbackModel: fallback,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// AnalyzeReceipt sends the image with the market context to the primary
// model, falling back to the secondary model when the primary fails.
func (c *geminiClient) AnalyzeReceipt(ctx context.Context, image []byte, market []model.MarketPrice) (*model.VisionAnalysis, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", common.ErrVisionUnavailable)
	}

	prompt, err := buildPrompt(market)
	if err != nil {
		return nil, err
	}

	analysis, err := c.generate(ctx, c.model, prompt, image)
	if err == nil {
		return analysis, nil
	}
	if c.fallbackModel == "" || c.fallbackModel == c.model {
		return nil, err
	}

	slog.Warn("Vision model failed, trying fallback",
		"model", c.model,
		"fallback", c.fallbackModel,
		"error", err)
	return c.generate(ctx, c.fallbackModel, prompt, image)
}

func (c *geminiClient) generate(ctx context.Context, modelName, prompt string, image []byte) (*model.VisionAnalysis, error) {
	requestBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": prompt},
					{
						"inline_data": map[string]string{
							"mime_type": detectMIMEType(image),
							"data":      base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, modelName, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrVisionUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, common.ErrRateLimit
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	text := response.text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty completion", common.ErrVisionUnavailable)
	}
	return parseAnalysis(text)
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *geminiResponse) text() string {
	var sb strings.Builder
	for _, candidate := range r.Candidates {
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		break
	}
	return strings.TrimSpace(sb.String())
}

// detectMIMEType sniffs the image container from magic bytes. JPEG is the
// overwhelmingly common case for receipt photos.
func detectMIMEType(image []byte) string {
	switch {
	case len(image) >= 8 && string(image[:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	case len(image) >= 4 && string(image[:4]) == "RIFF":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

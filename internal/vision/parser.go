package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okaimono/sage/internal/model"
)

// parseAnalysis decodes the service's reply, tolerating markdown code fences
// the models sometimes wrap JSON in despite instructions.
func parseAnalysis(text string) (*model.VisionAnalysis, error) {
	payload := stripCodeFence(text)

	var analysis model.VisionAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	if analysis.PurchaseDate == "" && len(analysis.Items) == 0 {
		return nil, fmt.Errorf("analysis JSON carries no items and no purchase date")
	}
	return &analysis, nil
}

// stripCodeFence unwraps ```json ... ``` or ``` ... ``` blocks.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	return text
}

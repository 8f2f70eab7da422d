package engine

import (
	"context"
	"sync"

	"github.com/okaimono/sage/internal/model"
)

// MockVision is a test implementation of the VisionAnalyzer interface.
type MockVision struct {
	analysis   *model.VisionAnalysis
	err        error
	lastMarket []model.MarketPrice
	calls      int
	mu         sync.Mutex
}

// NewMockVision creates a mock vision analyzer returning the given analysis.
func NewMockVision(analysis *model.VisionAnalysis) *MockVision {
	return &MockVision{analysis: analysis}
}

// SetError makes every subsequent call fail with err.
func (m *MockVision) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// AnalyzeReceipt returns the configured analysis, recording the call.
func (m *MockVision) AnalyzeReceipt(_ context.Context, _ []byte, market []model.MarketPrice) (*model.VisionAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastMarket = append([]model.MarketPrice{}, market...)
	if m.err != nil {
		return nil, m.err
	}
	return m.analysis, nil
}

// Calls returns how many analyses were requested.
func (m *MockVision) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastMarket returns the market context of the most recent call.
func (m *MockVision) LastMarket() []model.MarketPrice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMarket
}

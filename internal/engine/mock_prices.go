package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/estat"
)

// MockPriceSource is a test implementation of the PriceSource interface
// backed by a fixed price table.
type MockPriceSource struct {
	prices map[string]estat.PriceInfo
	err    error
	calls  []string
	mu     sync.Mutex
}

// NewMockPriceSource creates a mock price source over the given table.
func NewMockPriceSource(prices map[string]estat.PriceInfo) *MockPriceSource {
	if prices == nil {
		prices = make(map[string]estat.PriceInfo)
	}
	return &MockPriceSource{prices: prices}
}

// SetError makes every subsequent lookup fail with err.
func (m *MockPriceSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// LookupPrice returns the configured price for the canonical name, or
// common.ErrNotFound when the table has none.
func (m *MockPriceSource) LookupPrice(_ context.Context, canonical string) (*estat.PriceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, canonical)
	if m.err != nil {
		return nil, m.err
	}
	info, ok := m.prices[canonical]
	if !ok {
		return nil, fmt.Errorf("no reference price for %q: %w", canonical, common.ErrNotFound)
	}
	info.Canonical = canonical
	return &info, nil
}

// Calls returns the canonical names looked up so far.
func (m *MockPriceSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

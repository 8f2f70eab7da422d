package model

import (
	"fmt"
	"time"
)

// SavingsRecord summarizes one completed receipt analysis for a user.
// Amounts are whole yen and always non-negative; the net figure is derived
// at ranking time.
type SavingsRecord struct {
	CreatedAt           time.Time
	UserID              string
	PurchaseDate        string
	StoreName           string
	TotalSavedAmount    int
	TotalOverpaidAmount int
	ItemCount           int
	ID                  int64
}

// Validate reports whether the record can participate in aggregation.
func (r *SavingsRecord) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("savings record missing user id")
	}
	if r.TotalSavedAmount < 0 {
		return fmt.Errorf("negative saved amount %d", r.TotalSavedAmount)
	}
	if r.TotalOverpaidAmount < 0 {
		return fmt.Errorf("negative overpaid amount %d", r.TotalOverpaidAmount)
	}
	return nil
}

// Profile holds a user's display identity. Nickname is optional; records
// without one simply rank with a null nickname.
type Profile struct {
	ID       string
	Nickname *string
}

// Receipt is one persisted analysis result, owned by the storage layer.
type Receipt struct {
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ID           string
	UserID       string
	PurchaseDate string
	StoreName    string
	Result       string // analysis result JSON as returned to the caller
}

// AnalysisSummary aggregates the per-item judgments of a single receipt.
type AnalysisSummary struct {
	TotalPayment        float64 `json:"total_payment"`
	TotalSavedAmount    int     `json:"total_saved_amount"`
	TotalOverpaidAmount int     `json:"total_overpaid_amount"`
}

// AnalysisResult is the full outcome of analyzing one receipt.
type AnalysisResult struct {
	PurchaseDate string          `json:"purchase_date"`
	StoreName    string          `json:"store_name,omitempty"`
	Currency     string          `json:"currency"`
	Items        []ItemResult    `json:"items"`
	Summary      AnalysisSummary `json:"summary"`
}

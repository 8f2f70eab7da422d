// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/okaimono/sage/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Savings record operations
	SaveSavingsRecord(ctx context.Context, record *model.SavingsRecord) error
	GetAllSavingsRecords(ctx context.Context) ([]model.SavingsRecord, error)
	GetSavingsRecordsByUser(ctx context.Context, userID string) ([]model.SavingsRecord, error)

	// Profile operations
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpsertProfile(ctx context.Context, profile *model.Profile) error
	GetAllProfiles(ctx context.Context) ([]model.Profile, error)

	// Receipt history operations
	SaveReceipt(ctx context.Context, receipt *model.Receipt) (*model.Receipt, error)
	GetReceiptsByUser(ctx context.Context, userID string) ([]model.Receipt, error)
	GetReceiptByID(ctx context.Context, id, userID string) (*model.Receipt, error)
	UpdateReceiptResult(ctx context.Context, id, userID, result string) (*model.Receipt, error)
	DeleteReceipt(ctx context.Context, id, userID string) error
	DeleteReceiptsByUser(ctx context.Context, userID string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

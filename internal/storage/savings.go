package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okaimono/sage/internal/model"
)

// SaveSavingsRecord persists one completed receipt analysis summary.
func (s *SQLiteStorage) SaveSavingsRecord(ctx context.Context, record *model.SavingsRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSavingsRecord(record); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO savings_records (
			user_id, purchase_date, store_name,
			total_saved_amount, total_overpaid_amount, item_count
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		record.UserID,
		record.PurchaseDate,
		nullString(record.StoreName),
		record.TotalSavedAmount,
		record.TotalOverpaidAmount,
		record.ItemCount,
	)
	if err != nil {
		return fmt.Errorf("failed to save savings record: %w", err)
	}

	if id, idErr := result.LastInsertId(); idErr == nil {
		record.ID = id
	}
	return nil
}

// GetAllSavingsRecords returns the full snapshot used by ranking
// aggregation.
func (s *SQLiteStorage) GetAllSavingsRecords(ctx context.Context) ([]model.SavingsRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, purchase_date, store_name,
		       total_saved_amount, total_overpaid_amount, item_count, created_at
		FROM savings_records
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSavingsRecords(rows)
}

// GetSavingsRecordsByUser returns one user's records, oldest first.
func (s *SQLiteStorage) GetSavingsRecordsByUser(ctx context.Context, userID string) ([]model.SavingsRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, purchase_date, store_name,
		       total_saved_amount, total_overpaid_amount, item_count, created_at
		FROM savings_records
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings records for user: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSavingsRecords(rows)
}

func scanSavingsRecords(rows *sql.Rows) ([]model.SavingsRecord, error) {
	var records []model.SavingsRecord
	for rows.Next() {
		var rec model.SavingsRecord
		var store sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.PurchaseDate, &store,
			&rec.TotalSavedAmount, &rec.TotalOverpaidAmount, &rec.ItemCount, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan savings record: %w", err)
		}
		rec.StoreName = store.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating savings records: %w", err)
	}
	return records, nil
}

// nullString maps empty strings to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

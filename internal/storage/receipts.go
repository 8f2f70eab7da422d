package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/okaimono/sage/internal/model"
)

// SaveReceipt stores one analysis result for later review. A fresh ID is
// assigned when the receipt has none.
func (s *SQLiteStorage) SaveReceipt(ctx context.Context, receipt *model.Receipt) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateReceipt(receipt); err != nil {
		return nil, err
	}

	if receipt.ID == "" {
		receipt.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO receipts (id, user_id, purchase_date, store_name, result)
		VALUES (?, ?, ?, ?, ?)
	`,
		receipt.ID,
		receipt.UserID,
		nullString(receipt.PurchaseDate),
		nullString(receipt.StoreName),
		receipt.Result,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	return s.GetReceiptByID(ctx, receipt.ID, receipt.UserID)
}

// GetReceiptsByUser returns a user's receipt history, newest first.
func (s *SQLiteStorage) GetReceiptsByUser(ctx context.Context, userID string) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, purchase_date, store_name, result, created_at, updated_at
		FROM receipts
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var receipts []model.Receipt
	for rows.Next() {
		receipt, scanErr := scanReceipt(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		receipts = append(receipts, *receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating receipts: %w", err)
	}
	return receipts, nil
}

// GetReceiptByID returns one receipt scoped to its owner.
func (s *SQLiteStorage) GetReceiptByID(ctx context.Context, id, userID string) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, purchase_date, store_name, result, created_at, updated_at
		FROM receipts
		WHERE id = ? AND user_id = ?
	`, id, userID)

	receipt, err := scanReceiptRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReceiptNotFound
	}
	return receipt, err
}

// UpdateReceiptResult replaces the stored result payload of a receipt the
// user owns.
func (s *SQLiteStorage) UpdateReceiptResult(ctx context.Context, id, userID, result string) (*model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(result, "result"); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE receipts
		SET result = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`, result, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrReceiptNotFound
	}

	return s.GetReceiptByID(ctx, id, userID)
}

// DeleteReceipt removes one receipt the user owns. Deleting a receipt that
// does not exist is not an error, matching the API it backs.
func (s *SQLiteStorage) DeleteReceipt(ctx context.Context, id, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM receipts WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	return nil
}

// DeleteReceiptsByUser clears a user's entire receipt history.
func (s *SQLiteStorage) DeleteReceiptsByUser(ctx context.Context, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM receipts WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete receipts: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceiptInto(scanner rowScanner) (*model.Receipt, error) {
	var receipt model.Receipt
	var purchaseDate, storeName sql.NullString
	err := scanner.Scan(
		&receipt.ID, &receipt.UserID, &purchaseDate, &storeName,
		&receipt.Result, &receipt.CreatedAt, &receipt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	receipt.PurchaseDate = purchaseDate.String
	receipt.StoreName = storeName.String
	return &receipt, nil
}

func scanReceipt(rows *sql.Rows) (*model.Receipt, error) {
	receipt, err := scanReceiptInto(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan receipt: %w", err)
	}
	return receipt, nil
}

func scanReceiptRow(row *sql.Row) (*model.Receipt, error) {
	receipt, err := scanReceiptInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan receipt: %w", err)
	}
	return receipt, nil
}

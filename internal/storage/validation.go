package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okaimono/sage/internal/model"
)

// Validation errors.
var (
	ErrNilContext          = errors.New("context cannot be nil")
	ErrEmptyString         = errors.New("string parameter cannot be empty")
	ErrNilParameter        = errors.New("parameter cannot be nil")
	ErrInvalidSavings      = errors.New("invalid savings record")
	ErrInvalidProfile      = errors.New("invalid profile")
	ErrInvalidReceipt      = errors.New("invalid receipt")
	ErrReceiptNotFound     = errors.New("receipt not found or not owned by user")
	ErrNicknameTooLong     = errors.New("nickname must be at most 50 characters")
	ErrNicknameEmptyString = errors.New("nickname cannot be blank when set")
)

// maxNicknameLength bounds nicknames the same way the profile API does.
const maxNicknameLength = 50

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSavingsRecord validates a savings record before insertion.
func validateSavingsRecord(record *model.SavingsRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSavings, err)
	}
	if record.PurchaseDate == "" {
		return fmt.Errorf("%w: missing purchase date", ErrInvalidSavings)
	}
	return nil
}

// validateProfile validates a profile before upsert.
func validateProfile(profile *model.Profile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if profile.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProfile)
	}
	if profile.Nickname != nil {
		nick := *profile.Nickname
		if strings.TrimSpace(nick) == "" {
			return ErrNicknameEmptyString
		}
		if len([]rune(nick)) > maxNicknameLength {
			return ErrNicknameTooLong
		}
	}
	return nil
}

// validateReceipt validates a receipt before insertion.
func validateReceipt(receipt *model.Receipt) error {
	if receipt == nil {
		return fmt.Errorf("%w: receipt", ErrNilParameter)
	}
	if receipt.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidReceipt)
	}
	if receipt.Result == "" {
		return fmt.Errorf("%w: missing result payload", ErrInvalidReceipt)
	}
	return nil
}

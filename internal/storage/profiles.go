package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okaimono/sage/internal/common"
	"github.com/okaimono/sage/internal/model"
)

// GetProfile returns a user's profile, or common.ErrNotFound when none
// exists yet.
func (s *SQLiteStorage) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var profile model.Profile
	var nickname sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, nickname FROM profiles WHERE id = ?
	`, userID).Scan(&profile.ID, &nickname)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", userID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if nickname.Valid {
		profile.Nickname = &nickname.String
	}
	return &profile, nil
}

// UpsertProfile creates or updates a profile row.
func (s *SQLiteStorage) UpsertProfile(ctx context.Context, profile *model.Profile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}

	var nickname any
	if profile.Nickname != nil {
		nickname = *profile.Nickname
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, nickname) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			nickname = excluded.nickname,
			updated_at = CURRENT_TIMESTAMP
	`, profile.ID, nickname)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetAllProfiles returns every profile; the ranking aggregator uses this to
// attach nicknames.
func (s *SQLiteStorage) GetAllProfiles(ctx context.Context) ([]model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, nickname FROM profiles`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var profiles []model.Profile
	for rows.Next() {
		var profile model.Profile
		var nickname sql.NullString
		if err := rows.Scan(&profile.ID, &nickname); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		if nickname.Valid {
			profile.Nickname = &nickname.String
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating profiles: %w", err)
	}
	return profiles, nil
}

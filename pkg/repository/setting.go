package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/lushtech/eldercare-web/pkg/domain"
)

// SettingRepository handles setting-related database operations
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSetting retrieves a setting value, empty string if not set
func (r *SettingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	rec, err := r.GetSettingRecord(ctx, key)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.Value, nil
}

// GetSettingRecord retrieves a setting with its update time, nil if not set
func (r *SettingRepository) GetSettingRecord(ctx context.Context, key string) (*domain.Setting, error) {
	var rec domain.Setting
	err := r.db.GetContext(ctx, &rec, "SELECT key, value, updated_at FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // missing setting is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &rec, nil
}

// SetSetting stores a setting value
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`
		if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("set setting: %w", err)}
		}
		return nil
	}, errCritical)
}

// ApplicationSettings returns the current application settings, defaults for anything not stored
func (r *SettingRepository) ApplicationSettings(ctx context.Context) (domain.SettingsDTO, error) {
	settings := domain.DefaultSettings()
	value, err := r.GetSetting(ctx, domain.SettingKeyMinConfidence)
	if err != nil {
		return domain.SettingsDTO{}, err
	}
	if value == "" {
		return settings, nil
	}
	confidence, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return domain.SettingsDTO{}, fmt.Errorf("parse %s %q: %w", domain.SettingKeyMinConfidence, value, err)
	}
	settings.Confidence = confidence
	return settings, nil
}

// SetApplicationSettings stores new application settings
func (r *SettingRepository) SetApplicationSettings(ctx context.Context, settings domain.SettingsDTO) error {
	value := strconv.FormatFloat(settings.Confidence, 'g', -1, 64)
	if err := r.SetSetting(ctx, domain.SettingKeyMinConfidence, value); err != nil {
		return fmt.Errorf("set application settings: %w", err)
	}
	return nil
}

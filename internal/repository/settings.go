package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"rentledger/internal/domain"
)

// Settings document keys.
const (
	SettingsPaymentRules     = "paymentRules"
	SettingsBusinessInfo     = "businessInfo"
	SettingsReminderMessages = "reminderMessages"
)

// SettingsRepository stores named configuration documents as JSON,
// mirroring the document-per-key settings collection of the store.
type SettingsRepository struct {
	db DBTX
}

func NewSettingsRepository(db DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, key string, out any) error {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (r *SettingsRepository) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, data,
	)
	return err
}

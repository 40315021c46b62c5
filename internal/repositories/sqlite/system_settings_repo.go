package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
)

type systemSettingsRepository struct {
	db *sql.DB
}

func (r *systemSettingsRepository) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	var (
		feeRecipient, updatedBy string
		roundCount, updatedAt   int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT fee_recipient, round_count, updated_at, updated_by FROM system_settings WHERE id = 1`,
	).Scan(&feeRecipient, &roundCount, &updatedAt, &updatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.SystemSettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.SystemSettings{
		FeeRecipient: models.Address(feeRecipient),
		RoundCount:   fromDbInt(roundCount),
		UpdatedAt:    fromUnix(updatedAt),
		UpdatedBy:    models.Address(updatedBy),
	}, nil
}

func (r *systemSettingsRepository) UpdateSettings(ctx context.Context, settings *models.SystemSettings) error {
	settings.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO system_settings (id, fee_recipient, round_count, updated_at, updated_by)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			fee_recipient = excluded.fee_recipient,
			round_count = excluded.round_count,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by`,
		string(settings.FeeRecipient), toDbInt(settings.RoundCount),
		toUnix(settings.UpdatedAt), string(settings.UpdatedBy),
	)
	return err
}

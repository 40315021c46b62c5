package badgerdb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

const settingsKey = "system-settings"

type systemSettingsRepository struct {
	store *badgerhold.Store
}

func (r *systemSettingsRepository) GetSettings(_ context.Context) (*models.SystemSettings, error) {
	var settings models.SystemSettings
	if err := r.store.Get(settingsKey, &settings); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return &models.SystemSettings{}, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *systemSettingsRepository) UpdateSettings(_ context.Context, settings *models.SystemSettings) error {
	settings.UpdatedAt = time.Now()
	return r.store.Upsert(settingsKey, *settings)
}

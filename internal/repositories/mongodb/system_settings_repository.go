package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingsID = "settings"

// SystemSettingsRepository implements repositories.SystemSettingsRepository
type SystemSettingsRepository struct {
	collection *mongo.Collection
}

type settingsDocument struct {
	ID           string    `bson:"_id"`
	FeeRecipient string    `bson:"feeRecipient"`
	RoundCount   int64     `bson:"roundCount"`
	UpdatedAt    time.Time `bson:"updatedAt"`
	UpdatedBy    string    `bson:"updatedBy,omitempty"`
}

// NewSystemSettingsRepository creates a new SystemSettingsRepository
func NewSystemSettingsRepository(db *mongo.Database) repositories.SystemSettingsRepository {
	return &SystemSettingsRepository{
		collection: db.Collection("system_settings"),
	}
}

// GetSettings retrieves the current system settings
func (r *SystemSettingsRepository) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	var doc settingsDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		// Nothing stored yet: no fee recipient and no rounds
		return &models.SystemSettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.SystemSettings{
		FeeRecipient: models.Address(doc.FeeRecipient),
		RoundCount:   uint64(doc.RoundCount),
		UpdatedAt:    doc.UpdatedAt,
		UpdatedBy:    models.Address(doc.UpdatedBy),
	}, nil
}

// UpdateSettings replaces the settings document, creating it on first use
func (r *SystemSettingsRepository) UpdateSettings(ctx context.Context, settings *models.SystemSettings) error {
	settings.UpdatedAt = time.Now()
	doc := settingsDocument{
		ID:           settingsID,
		FeeRecipient: string(settings.FeeRecipient),
		RoundCount:   int64(settings.RoundCount),
		UpdatedAt:    settings.UpdatedAt,
		UpdatedBy:    string(settings.UpdatedBy),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": settingsID}, doc, opts)
	return err
}

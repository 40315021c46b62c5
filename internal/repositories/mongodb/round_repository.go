package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoundRepository implements repositories.RoundRepository
type RoundRepository struct {
	collection *mongo.Collection
}

// NewRoundRepository creates a new RoundRepository
func NewRoundRepository(db *mongo.Database) repositories.RoundRepository {
	return &RoundRepository{
		collection: db.Collection("rounds"),
	}
}

// Create inserts a new round
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	round.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, newRoundDocument(round))
	return err
}

// FindByID finds a round by its sequential id
func (r *RoundRepository) FindByID(ctx context.Context, id uint64) (*models.Round, error) {
	var doc roundDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": int64(id)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

// Update replaces a round
func (r *RoundRepository) Update(ctx context.Context, round *models.Round) error {
	round.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": int64(round.ID)}, newRoundDocument(round))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindAll returns every round ordered by id
func (r *RoundRepository) FindAll(ctx context.Context) ([]*models.Round, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []roundDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	// Return empty slice instead of nil
	rounds := make([]*models.Round, 0, len(docs))
	for i := range docs {
		rounds = append(rounds, docs[i].toModel())
	}
	return rounds, nil
}

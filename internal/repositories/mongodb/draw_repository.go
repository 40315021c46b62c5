package mongodb

import (
	"context"
	"errors"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DrawRequestRepository implements repositories.DrawRequestRepository
type DrawRequestRepository struct {
	collection *mongo.Collection
}

// NewDrawRequestRepository creates a new DrawRequestRepository
func NewDrawRequestRepository(db *mongo.Database) repositories.DrawRequestRepository {
	return &DrawRequestRepository{
		collection: db.Collection("draw_requests"),
	}
}

// EnsureIndexes makes roundId unique so a round can never hold two requests
func (r *DrawRequestRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "roundId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create stores a new pending draw request
func (r *DrawRequestRepository) Create(ctx context.Context, req *models.DrawRequest) error {
	_, err := r.collection.InsertOne(ctx, newDrawRequestDocument(req))
	return err
}

// FindByRequestID finds a draw request by the oracle request id
func (r *DrawRequestRepository) FindByRequestID(ctx context.Context, requestID string) (*models.DrawRequest, error) {
	return r.findOne(ctx, bson.M{"_id": requestID})
}

// FindByRoundID finds the draw request issued for a round
func (r *DrawRequestRepository) FindByRoundID(ctx context.Context, roundID uint64) (*models.DrawRequest, error) {
	return r.findOne(ctx, bson.M{"roundId": int64(roundID)})
}

// Update replaces a draw request
func (r *DrawRequestRepository) Update(ctx context.Context, req *models.DrawRequest) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": req.RequestID}, newDrawRequestDocument(req))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *DrawRequestRepository) findOne(ctx context.Context, filter bson.M) (*models.DrawRequest, error) {
	var doc drawRequestDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventCounterID = "events"

// EventRepository implements repositories.EventRepository
type EventRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *mongo.Database) repositories.EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
		counters:   db.Collection("counters"),
	}
}

// Append allocates the next sequence number from the counters collection
// and inserts the event under it
func (r *EventRepository) Append(ctx context.Context, event *models.Event) error {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": eventCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return fmt.Errorf("failed to allocate event sequence: %w", err)
	}

	event.Seq = uint64(counter.Seq)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err = r.collection.InsertOne(ctx, newEventDocument(event))
	return err
}

// FindAfter returns events with a sequence number greater than afterSeq
func (r *EventRepository) FindAfter(ctx context.Context, afterSeq uint64, limit int) ([]*models.Event, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$gt": int64(afterSeq)}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	events := make([]*models.Event, 0, len(docs))
	for i := range docs {
		events = append(events, docs[i].toModel())
	}
	return events, nil
}

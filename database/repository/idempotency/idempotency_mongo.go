package idemRepo

import (
	"context"
	"fmt"
	"time"

	"reserva/database"
	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIdempotencyRepo implements IdempotencyRepository using MongoDB.
type MongoIdempotencyRepo struct {
	coll *mongo.Collection
}

// NewMongoIdempotencyRepo creates a new instance of IdempotencyRepository using MongoDB.
func NewMongoIdempotencyRepo() IdempotencyRepository {
	coll := database.DB().Collection("idempotency")
	repo := &MongoIdempotencyRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create idempotency indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoIdempotencyRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Get retrieves a record by key. Returns nil when the key was never seen.
func (r *MongoIdempotencyRepo) Get(key string) (*models.IdempotencyRecord, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var record models.IdempotencyRecord
	if err := r.coll.FindOne(ctx, bson.M{"key": key}).Decode(&record); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch idempotency record: %w", err)
	}
	return &record, nil
}

// PutPending upserts a key in state pending without demoting an existing
// sent record.
func (r *MongoIdempotencyRepo) PutPending(key string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"key":        key,
			"status":     models.IdempotencyPending,
			"created_at": now,
			"updated_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"key": key}, update, opts); err != nil {
		return fmt.Errorf("failed to record pending idempotency key: %w", err)
	}
	return nil
}

// MarkSent flips a key to sent after successful delivery.
func (r *MongoIdempotencyRepo) MarkSent(key string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": models.IdempotencySent, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"key": key}, update)
	if err != nil {
		return fmt.Errorf("failed to mark idempotency key sent: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("idempotency key not found")
	}
	return nil
}

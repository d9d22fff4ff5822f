package queueRepo

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

// MongoQueueRepo implements QueueRepository using MongoDB.
type MongoQueueRepo struct {
	coll *mongo.Collection
}

// NewMongoQueueRepo creates a new instance of QueueRepository using MongoDB.
func NewMongoQueueRepo() QueueRepository {
	coll := database.DB().Collection("outboundQueue")
	repo := &MongoQueueRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create queue indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoQueueRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Insert parks a freshly failed message as pending.
func (r *MongoQueueRepo) Insert(item *models.OutboundQueueItem) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to insert queue item: %w", err)
	}
	return nil
}

// FetchPending retrieves up to limit pending items, oldest first. FIFO order
// bounds how stale the oldest unresolved message can get.
func (r *MongoQueueRepo) FetchPending(limit int) ([]models.OutboundQueueItem, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"status": models.QueuePending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending queue items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.OutboundQueueItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode queue items: %w", err)
	}
	return items, nil
}

// MarkSent finalizes a delivered item.
func (r *MongoQueueRepo) MarkSent(id string) error {
	return r.update(id, bson.M{
		"status":     models.QueueSent,
		"last_error": "",
		"updated_at": time.Now(),
	})
}

// MarkFailure records a failed attempt. When terminal, the item leaves the
// automatic retry cycle for good.
func (r *MongoQueueRepo) MarkFailure(id string, attempts int, lastError string, terminal bool) error {
	status := models.QueuePending
	if terminal {
		status = models.QueueFailed
	}
	return r.update(id, bson.M{
		"status":     status,
		"attempts":   attempts,
		"last_error": lastError,
		"updated_at": time.Now(),
	})
}

// ResetForRetry re-arms a terminally failed item.
func (r *MongoQueueRepo) ResetForRetry(id string) error {
	return r.update(id, bson.M{
		"status":     models.QueuePending,
		"attempts":   0,
		"last_error": "",
		"updated_at": time.Now(),
	})
}

// ListByStatus retrieves up to limit items in the given status, oldest first.
func (r *MongoQueueRepo) ListByStatus(status models.QueueStatus, limit int) ([]models.OutboundQueueItem, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.OutboundQueueItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode queue items: %w", err)
	}
	return items, nil
}

func (r *MongoQueueRepo) update(id string, set bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update queue item %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("queue item with id %s not found", id)
	}
	return nil
}

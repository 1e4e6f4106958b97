package mongo

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollectionName = "activity_log"

// mongoActivityRepository implements repository.ActivityRepository
type mongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new Activity repository backed by MongoDB.
func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

// Create appends an activity entry. Entries are never updated or deleted.
func (r *mongoActivityRepository) Create(ctx context.Context, entry *domain.ActivityEntry) (primitive.ObjectID, error) {
	if entry.Type == "" || entry.ClientName == "" {
		return primitive.NilObjectID, errors.New("activity entry requires type and clientName")
	}

	entry.ID = primitive.NewObjectID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted activity ID")
	}
	return insertedID, nil
}

// ListRecent retrieves the newest entries, most recent first.
func (r *mongoActivityRepository) ListRecent(ctx context.Context, limit int64) ([]domain.ActivityEntry, error) {
	var entries []domain.ActivityEntry
	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Watch opens a change stream on the activity collection and pushes each newly
// inserted entry to the returned channel. The channel is closed when the
// context is cancelled or the stream ends. Requires MongoDB to run as a
// replica set (change streams are unavailable on standalone servers).
func (r *mongoActivityRepository) Watch(ctx context.Context) (<-chan domain.ActivityEntry, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"operationType": "insert"}}},
	}

	stream, err := r.collection.Watch(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	out := make(chan domain.ActivityEntry)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var event struct {
				FullDocument domain.ActivityEntry `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				log.Printf("WARN: failed to decode activity change event: %v", err)
				continue
			}
			select {
			case out <- event.FullDocument:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("WARN: activity change stream closed with error: %v", err)
		}
	}()

	return out, nil
}

// EnsureActivityIndexes creates necessary indexes. Call during startup.
func EnsureActivityIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}

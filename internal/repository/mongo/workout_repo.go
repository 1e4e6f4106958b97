package mongo

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository backed by MongoDB.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.DayID == primitive.NilObjectID || workout.ProgramID == primitive.NilObjectID || workout.Title == "" {
		return primitive.NilObjectID, errors.New("workout requires dayId, programId, and title")
	}

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByDayID retrieves all workouts of a day, sorted ascending by order index.
func (r *mongoWorkoutRepository) GetByDayID(ctx context.Context, dayID primitive.ObjectID) ([]domain.Workout, error) {
	var workouts []domain.Workout
	filter := bson.M{"dayId": dayID}
	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// CountByDayID counts the workouts of a day with a fresh query against the
// store. This is the authoritative read behind the day deletion guard.
func (r *mongoWorkoutRepository) CountByDayID(ctx context.Context, dayID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"dayId": dayID})
}

// CountByVideoObjectKey counts the workouts referencing a demo-video object.
// Duplicated workouts carry the source's key, so a count above one means the
// object is shared.
func (r *mongoWorkoutRepository) CountByVideoObjectKey(ctx context.Context, objectKey string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"videoObjectKey": objectKey})
}

// MaxOrderIndex returns the highest order index currently used within a day,
// or -1 if the day has no workouts. Gaps from deletions are expected and fine.
func (r *mongoWorkoutRepository) MaxOrderIndex(ctx context.Context, dayID primitive.ObjectID) (int, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "orderIndex", Value: -1}})

	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"dayId": dayID}, findOptions).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return -1, nil
		}
		return 0, err
	}
	return workout.OrderIndex, nil
}

// Update modifies a workout's editable fields. DayID, ProgramID and OrderIndex
// are not changed here; reordering goes through SetOrderIndex.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}
	if workout.Title == "" {
		return errors.New("workout title cannot be empty")
	}

	filter := bson.M{"_id": workout.ID}
	update := bson.M{
		"$set": bson.M{
			"title":        workout.Title,
			"instructions": workout.Instructions,
			"equipmentIds": workout.EquipmentIDs,
			"updatedAt":    time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetOrderIndex writes only the orderIndex field. A reorder swap issues two of
// these, one per sibling; no other fields are touched.
func (r *mongoWorkoutRepository) SetOrderIndex(ctx context.Context, id primitive.ObjectID, orderIndex int) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"orderIndex": orderIndex,
			"updatedAt":  time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetVideoObjectKey writes only the demo-video object key.
func (r *mongoWorkoutRepository) SetVideoObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"videoObjectKey": objectKey,
			"updatedAt":      time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout. Sibling order indexes are not renumbered; the
// resulting gap is harmless because order is relative.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Sibling listing sorted by order
			Keys:    bson.D{{Key: "dayId", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
		{
			// Program-wide queries (duplication walks the tree per day, but
			// overview screens fetch by program)
			Keys:    bson.D{{Key: "programId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}

package mongo

import (
	"context"
	"errors"
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const scheduleCollectionName = "schedules"

// mongoScheduleRepository implements repository.ScheduleRepository
type mongoScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleRepository creates a new Schedule repository backed by MongoDB.
func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		collection: db.Collection(scheduleCollectionName),
	}
}

// Create inserts a session. No overlap or availability checks happen here.
func (r *mongoScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) (primitive.ObjectID, error) {
	if schedule.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	schedule.ID = primitive.NewObjectID()
	schedule.CreatedAt = time.Now().UTC()
	if schedule.Status == "" {
		schedule.Status = domain.ScheduleStatusScheduled
	}

	if _, err := r.collection.InsertOne(ctx, schedule); err != nil {
		return primitive.NilObjectID, err
	}
	return schedule.ID, nil
}

// GetByID retrieves a session by its ID.
func (r *mongoScheduleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Schedule, error) {
	var schedule domain.Schedule
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// List returns sessions matching the filter ordered by start time.
func (r *mongoScheduleRepository) List(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Schedule, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, scheduleQuery(filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	schedules := []domain.Schedule{}
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func scheduleQuery(filter domain.ScheduleFilter) bson.M {
	query := bson.M{}
	if filter.TrainerID != nil {
		query["trainerId"] = *filter.TrainerID
	}
	if filter.MemberID != nil {
		query["memberId"] = *filter.MemberID
	}
	if filter.Date != nil {
		start, end := domain.DayBounds(*filter.Date)
		query["startTime"] = bson.M{"$gte": start, "$lt": end}
	}
	return query
}

// Delete removes a session by ID.
func (r *mongoScheduleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureScheduleIndexes creates necessary indexes for the schedules collection.
func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "startTime", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "startTime", Value: 1}},
		},
	})
}

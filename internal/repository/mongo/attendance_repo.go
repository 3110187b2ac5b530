package mongo

import (
	"context"
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const attendanceCollectionName = "attendance"

// mongoAttendanceRepository implements repository.AttendanceRepository
type mongoAttendanceRepository struct {
	collection *mongo.Collection
}

// NewMongoAttendanceRepository creates a new Attendance repository backed by MongoDB.
func NewMongoAttendanceRepository(db *mongo.Database) repository.AttendanceRepository {
	return &mongoAttendanceRepository{
		collection: db.Collection(attendanceCollectionName),
	}
}

// Create inserts an attendance mark. Repeated marks for one session are kept as separate documents.
func (r *mongoAttendanceRepository) Create(ctx context.Context, attendance *domain.Attendance) (primitive.ObjectID, error) {
	if attendance.ScheduleID == primitive.NilObjectID || attendance.MemberID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	attendance.ID = primitive.NewObjectID()
	if attendance.Date.IsZero() {
		attendance.Date = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, attendance); err != nil {
		return primitive.NilObjectID, err
	}
	return attendance.ID, nil
}

// List returns attendance marks matching the filter, newest first.
func (r *mongoAttendanceRepository) List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error) {
	query := bson.M{}
	if filter.ScheduleID != nil {
		query["scheduleId"] = *filter.ScheduleID
	}
	if filter.MemberID != nil {
		query["memberId"] = *filter.MemberID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []domain.Attendance{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureAttendanceIndexes creates necessary indexes for the attendance collection.
func EnsureAttendanceIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// Not unique: the same member may be marked twice for a session.
			Keys: bson.D{{Key: "scheduleId", Value: 1}, {Key: "memberId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "memberId", Value: 1}, {Key: "date", Value: -1}},
		},
	})
}

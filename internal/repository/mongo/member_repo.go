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

const memberCollectionName = "members"

// mongoMemberRepository implements repository.MemberRepository
type mongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new Member repository backed by MongoDB.
func NewMongoMemberRepository(db *mongo.Database) repository.MemberRepository {
	return &mongoMemberRepository{
		collection: db.Collection(memberCollectionName),
	}
}

// Create inserts a new member profile.
func (r *mongoMemberRepository) Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if member.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	member.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, member); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return member.ID, nil
}

// GetByID retrieves a member by its ID.
func (r *mongoMemberRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByUserID retrieves the member profile belonging to a user.
func (r *mongoMemberRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

func (r *mongoMemberRepository) findOne(ctx context.Context, filter bson.M) (*domain.Member, error) {
	var member domain.Member
	if err := r.collection.FindOne(ctx, filter).Decode(&member); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// List returns members matching the filter, oldest first.
func (r *mongoMemberRepository) List(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	query := bson.M{}
	if filter.TrainerID != nil {
		query["trainerId"] = *filter.TrainerID
	}
	if filter.WorkoutPlanID != nil {
		query["workoutPlanId"] = *filter.WorkoutPlanID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	members := []domain.Member{}
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// SetTrainer overwrites the member's trainer reference.
func (r *mongoMemberRepository) SetTrainer(ctx context.Context, id, trainerID primitive.ObjectID) (*domain.Member, error) {
	return r.updateOne(ctx, id, bson.M{"trainerId": trainerID})
}

// SetWorkoutPlan overwrites the member's workout plan reference.
func (r *mongoMemberRepository) SetWorkoutPlan(ctx context.Context, id, planID primitive.ObjectID) (*domain.Member, error) {
	return r.updateOne(ctx, id, bson.M{"workoutPlanId": planID})
}

// UpdateBodyMetrics stores the result of a BMI calculation.
func (r *mongoMemberRepository) UpdateBodyMetrics(ctx context.Context, id primitive.ObjectID, metrics domain.BodyMetrics) (*domain.Member, error) {
	return r.updateOne(ctx, id, bson.M{
		"height":      metrics.Height,
		"weight":      metrics.Weight,
		"bmi":         metrics.BMI,
		"bmiCategory": string(metrics.Category),
	})
}

func (r *mongoMemberRepository) updateOne(ctx context.Context, id primitive.ObjectID, set bson.M) (*domain.Member, error) {
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var member domain.Member
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&member)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// Delete removes a member and returns the document as it was before deletion.
func (r *mongoMemberRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	var member domain.Member
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&member); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// EnsureMemberIndexes creates necessary indexes for the members collection.
func EnsureMemberIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Trainer's member list
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			// Derived "assigned members" view of a plan
			Keys:    bson.D{{Key: "workoutPlanId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
}

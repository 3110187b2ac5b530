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

const trainerCollectionName = "trainers"

// mongoTrainerRepository implements repository.TrainerRepository
type mongoTrainerRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainerRepository creates a new Trainer repository backed by MongoDB.
func NewMongoTrainerRepository(db *mongo.Database) repository.TrainerRepository {
	return &mongoTrainerRepository{
		collection: db.Collection(trainerCollectionName),
	}
}

// Create inserts a new trainer profile.
func (r *mongoTrainerRepository) Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	if trainer.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	trainer.ID = primitive.NewObjectID()
	if trainer.Availability == nil {
		trainer.Availability = []domain.AvailabilityEntry{}
	}
	now := time.Now().UTC()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, trainer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return trainer.ID, nil
}

// GetByID retrieves a trainer by its ID.
func (r *mongoTrainerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByUserID retrieves the trainer profile belonging to a user.
func (r *mongoTrainerRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

func (r *mongoTrainerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Trainer, error) {
	var trainer domain.Trainer
	if err := r.collection.FindOne(ctx, filter).Decode(&trainer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &trainer, nil
}

// List returns every trainer, oldest first.
func (r *mongoTrainerRepository) List(ctx context.Context) ([]domain.Trainer, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trainers := []domain.Trainer{}
	if err = cursor.All(ctx, &trainers); err != nil {
		return nil, err
	}
	return trainers, nil
}

// ReplaceAvailability stores availability verbatim as the trainer's whole list.
func (r *mongoTrainerRepository) ReplaceAvailability(ctx context.Context, id primitive.ObjectID, availability []domain.AvailabilityEntry) (*domain.Trainer, error) {
	if availability == nil {
		availability = []domain.AvailabilityEntry{}
	}
	update := bson.M{"$set": bson.M{
		"availability": availability,
		"updatedAt":    time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var trainer domain.Trainer
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&trainer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &trainer, nil
}

// Delete removes a trainer profile. Members still pointing at it are left untouched.
func (r *mongoTrainerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrainerIndexes creates necessary indexes for the trainers collection.
func EnsureTrainerIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}

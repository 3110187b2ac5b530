package service

import (
	"context"
	"errors"
	"strings"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID primitive.ObjectID
	Role   domain.Role
}

var validate = validator.New()

// ParseID converts a hex string into an ObjectID, failing with a validation error.
func ParseID(raw, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, validationError("Invalid %s", field)
	}
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if validate.Var(email, "required,email") != nil {
		return validationError("Valid email is required")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return validationError("Password must be at least 6 characters")
	}
	return nil
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return validationError("Name must be at least 2 characters")
	}
	return nil
}

// resolveMember looks a member up by member id, falling back to the id of its user.
func resolveMember(ctx context.Context, members repository.MemberRepository, id primitive.ObjectID) (*domain.Member, error) {
	member, err := members.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		member, err = members.GetByUserID(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	return member, err
}

// resolveTrainer looks a trainer up by trainer id, falling back to the id of its user.
func resolveTrainer(ctx context.Context, trainers repository.TrainerRepository, id primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := trainers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		trainer, err = trainers.GetByUserID(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTrainerNotFound
	}
	return trainer, err
}

func memberOf(ctx context.Context, members repository.MemberRepository, actor Actor) (*domain.Member, error) {
	member, err := members.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	return member, err
}

func trainerOf(ctx context.Context, trainers repository.TrainerRepository, actor Actor) (*domain.Trainer, error) {
	trainer, err := trainers.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTrainerNotFound
	}
	return trainer, err
}

package service

import (
	"context"
	"errors"
	"strings"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/notify"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateTrainerInput is used by admins to create a trainer together with its login.
type CreateTrainerInput struct {
	Name     string
	Email    string
	Password string
}

type TrainerService interface {
	List(ctx context.Context) ([]TrainerDetails, error)
	// Get accepts a trainer id or the id of the trainer's user.
	Get(ctx context.Context, id primitive.ObjectID) (*TrainerDetails, error)
	GetMine(ctx context.Context, actor Actor) (*TrainerDetails, error)
	MyMembers(ctx context.Context, actor Actor) ([]MemberDetails, error)
	Create(ctx context.Context, in CreateTrainerInput) (*TrainerDetails, error)
	// Delete removes the trainer record only; members keep their reference.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ReplaceAvailability stores entries verbatim. Trainers may only replace their own.
	ReplaceAvailability(ctx context.Context, actor Actor, trainerID primitive.ObjectID, entries []domain.AvailabilityEntry) (*TrainerDetails, error)
	ReplaceOwnAvailability(ctx context.Context, actor Actor, entries []domain.AvailabilityEntry) (*TrainerDetails, error)
	AddAvailabilitySlot(ctx context.Context, actor Actor, trainerID primitive.ObjectID, date, slot string) (*TrainerDetails, error)
	RemoveAvailabilitySlot(ctx context.Context, actor Actor, trainerID primitive.ObjectID, date, slot string) (*TrainerDetails, error)
}

type trainerService struct {
	repos    repository.Repositories
	accounts accountCreator
	populate populator
}

func NewTrainerService(repos repository.Repositories, notifier notify.Notifier) TrainerService {
	return &trainerService{
		repos:    repos,
		accounts: accountCreator{repos: repos, notifier: notifier},
		populate: populator{repos: repos},
	}
}

func (s *trainerService) List(ctx context.Context) ([]TrainerDetails, error) {
	trainers, err := s.repos.Trainers.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.populate.trainers(ctx, trainers)
}

func (s *trainerService) Get(ctx context.Context, id primitive.ObjectID) (*TrainerDetails, error) {
	trainer, err := resolveTrainer(ctx, s.repos.Trainers, id)
	if err != nil {
		return nil, err
	}
	return s.populate.trainer(ctx, *trainer)
}

func (s *trainerService) GetMine(ctx context.Context, actor Actor) (*TrainerDetails, error) {
	trainer, err := trainerOf(ctx, s.repos.Trainers, actor)
	if err != nil {
		return nil, err
	}
	return s.populate.trainer(ctx, *trainer)
}

func (s *trainerService) MyMembers(ctx context.Context, actor Actor) ([]MemberDetails, error) {
	trainer, err := trainerOf(ctx, s.repos.Trainers, actor)
	if err != nil {
		return nil, err
	}
	members, err := s.repos.Members.List(ctx, domain.MemberFilter{TrainerID: &trainer.ID})
	if err != nil {
		return nil, err
	}
	return s.populate.members(ctx, members)
}

func (s *trainerService) Create(ctx context.Context, in CreateTrainerInput) (*TrainerDetails, error) {
	acc, err := s.accounts.create(ctx, in.Name, in.Email, in.Password, domain.RoleTrainer)
	if err != nil {
		return nil, err
	}
	return &TrainerDetails{Trainer: *acc.Trainer, User: acc.User}, nil
}

func (s *trainerService) Delete(ctx context.Context, id primitive.ObjectID) error {
	trainer, err := resolveTrainer(ctx, s.repos.Trainers, id)
	if err != nil {
		return err
	}
	if err := s.repos.Trainers.Delete(ctx, trainer.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainerNotFound
		}
		return err
	}
	return nil
}

func (s *trainerService) ReplaceAvailability(ctx context.Context, actor Actor, trainerID primitive.ObjectID, entries []domain.AvailabilityEntry) (*TrainerDetails, error) {
	trainer, err := s.editable(ctx, actor, trainerID)
	if err != nil {
		return nil, err
	}
	return s.replace(ctx, trainer.ID, entries)
}

func (s *trainerService) ReplaceOwnAvailability(ctx context.Context, actor Actor, entries []domain.AvailabilityEntry) (*TrainerDetails, error) {
	trainer, err := trainerOf(ctx, s.repos.Trainers, actor)
	if err != nil {
		return nil, err
	}
	return s.replace(ctx, trainer.ID, entries)
}

func (s *trainerService) AddAvailabilitySlot(ctx context.Context, actor Actor, trainerID primitive.ObjectID, date, slot string) (*TrainerDetails, error) {
	date, slot, err := slotArgs(date, slot)
	if err != nil {
		return nil, err
	}
	trainer, err := s.editable(ctx, actor, trainerID)
	if err != nil {
		return nil, err
	}
	return s.replace(ctx, trainer.ID, domain.AddSlot(trainer.Availability, date, slot))
}

func (s *trainerService) RemoveAvailabilitySlot(ctx context.Context, actor Actor, trainerID primitive.ObjectID, date, slot string) (*TrainerDetails, error) {
	date, slot, err := slotArgs(date, slot)
	if err != nil {
		return nil, err
	}
	trainer, err := s.editable(ctx, actor, trainerID)
	if err != nil {
		return nil, err
	}
	return s.replace(ctx, trainer.ID, domain.RemoveSlot(trainer.Availability, date, slot))
}

// editable resolves the trainer and checks the actor may change its availability.
func (s *trainerService) editable(ctx context.Context, actor Actor, trainerID primitive.ObjectID) (*domain.Trainer, error) {
	trainer, err := resolveTrainer(ctx, s.repos.Trainers, trainerID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleTrainer && trainer.UserID != actor.UserID {
		return nil, ErrAccessDenied
	}
	return trainer, nil
}

func (s *trainerService) replace(ctx context.Context, trainerID primitive.ObjectID, entries []domain.AvailabilityEntry) (*TrainerDetails, error) {
	updated, err := s.repos.Trainers.ReplaceAvailability(ctx, trainerID, entries)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return s.populate.trainer(ctx, *updated)
}

func slotArgs(date, slot string) (string, string, error) {
	date, slot = strings.TrimSpace(date), strings.TrimSpace(slot)
	if date == "" || slot == "" {
		return "", "", validationError("date and slot are required")
	}
	return date, slot, nil
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/notify"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateMemberInput is used by admins to create a member together with its login.
type CreateMemberInput struct {
	Name          string
	Email         string
	Password      string
	TrainerID     *primitive.ObjectID
	WorkoutPlanID *primitive.ObjectID
}

type MemberService interface {
	List(ctx context.Context) ([]MemberDetails, error)
	// Get accepts a member id or the id of the member's user.
	Get(ctx context.Context, id primitive.ObjectID) (*MemberDetails, error)
	GetMine(ctx context.Context, actor Actor) (*MemberDetails, error)
	// ListByTrainer accepts a trainer id or the id of the trainer's user.
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]MemberDetails, error)
	Create(ctx context.Context, in CreateMemberInput) (*MemberDetails, error)
	// Delete removes the member record and then its user.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type memberService struct {
	repos       repository.Repositories
	accounts    accountCreator
	assignments AssignmentService
	populate    populator
}

func NewMemberService(repos repository.Repositories, notifier notify.Notifier, assignments AssignmentService) MemberService {
	return &memberService{
		repos:       repos,
		accounts:    accountCreator{repos: repos, notifier: notifier},
		assignments: assignments,
		populate:    populator{repos: repos},
	}
}

func (s *memberService) List(ctx context.Context) ([]MemberDetails, error) {
	members, err := s.repos.Members.List(ctx, domain.MemberFilter{})
	if err != nil {
		return nil, err
	}
	return s.populate.members(ctx, members)
}

func (s *memberService) Get(ctx context.Context, id primitive.ObjectID) (*MemberDetails, error) {
	member, err := resolveMember(ctx, s.repos.Members, id)
	if err != nil {
		return nil, err
	}
	return s.populate.member(ctx, *member)
}

func (s *memberService) GetMine(ctx context.Context, actor Actor) (*MemberDetails, error) {
	member, err := memberOf(ctx, s.repos.Members, actor)
	if err != nil {
		return nil, err
	}
	return s.populate.member(ctx, *member)
}

func (s *memberService) ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]MemberDetails, error) {
	trainer, err := resolveTrainer(ctx, s.repos.Trainers, trainerID)
	if err != nil {
		return nil, err
	}
	members, err := s.repos.Members.List(ctx, domain.MemberFilter{TrainerID: &trainer.ID})
	if err != nil {
		return nil, err
	}
	return s.populate.members(ctx, members)
}

// Create validates the requested assignments before creating the account so
// a bad trainer or plan id leaves nothing behind.
func (s *memberService) Create(ctx context.Context, in CreateMemberInput) (*MemberDetails, error) {
	if in.TrainerID != nil {
		if _, err := s.repos.Trainers.GetByID(ctx, *in.TrainerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrTrainerNotFound
			}
			return nil, err
		}
	}
	if in.WorkoutPlanID != nil {
		if _, err := s.repos.WorkoutPlans.GetByID(ctx, *in.WorkoutPlanID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrWorkoutPlanNotFound
			}
			return nil, err
		}
	}

	acc, err := s.accounts.create(ctx, in.Name, in.Email, in.Password, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	if in.TrainerID != nil || in.WorkoutPlanID != nil {
		return s.assignments.UpdateMemberAssignments(ctx, acc.Member.ID, in.TrainerID, in.WorkoutPlanID)
	}
	return s.populate.member(ctx, *acc.Member)
}

func (s *memberService) Delete(ctx context.Context, id primitive.ObjectID) error {
	member, err := resolveMember(ctx, s.repos.Members, id)
	if err != nil {
		return err
	}

	// Phase 1: the member record.
	deleted, err := s.repos.Members.Delete(ctx, member.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	// Phase 2: its user. Phase 1 is not undone when this fails.
	err = s.repos.Users.Delete(ctx, deleted.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.ErrorContext(ctx, "member deleted but user remains",
			"member_id", deleted.ID.Hex(), "orphaned_user_id", deleted.UserID.Hex(), "error", err)
		return &PartialDeleteError{MemberID: deleted.ID, UserID: deleted.UserID, Err: err}
	}
	return nil
}

package service

import (
	"context"
	"errors"

	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BulkItemResult is the outcome for one member of a bulk assignment.
type BulkItemResult struct {
	MemberID string `json:"memberId"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// BulkResult lists per-member outcomes. Successful items stay applied even
// when others fail.
type BulkResult struct {
	Results   []BulkItemResult `json:"results"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

type AssignmentService interface {
	AssignTrainer(ctx context.Context, memberID, trainerID primitive.ObjectID) (*MemberDetails, error)
	AssignWorkoutPlan(ctx context.Context, memberID, planID primitive.ObjectID) (*MemberDetails, error)
	// AssignMemberToTrainer and AssignMemberToPlan are the same writes
	// addressed from the trainer or plan side.
	AssignMemberToTrainer(ctx context.Context, trainerID, memberID primitive.ObjectID) (*MemberDetails, error)
	AssignMemberToPlan(ctx context.Context, planID, memberID primitive.ObjectID) (*MemberDetails, error)
	BulkAssignTrainer(ctx context.Context, memberIDs []string, trainerID primitive.ObjectID) (*BulkResult, error)
	BulkAssignWorkoutPlan(ctx context.Context, memberIDs []string, planID primitive.ObjectID) (*BulkResult, error)
	// UpdateMemberAssignments applies whichever of trainer and plan are non-nil.
	UpdateMemberAssignments(ctx context.Context, memberID primitive.ObjectID, trainerID, planID *primitive.ObjectID) (*MemberDetails, error)
}

type assignmentService struct {
	repos    repository.Repositories
	populate populator
}

func NewAssignmentService(repos repository.Repositories) AssignmentService {
	return &assignmentService{repos: repos, populate: populator{repos: repos}}
}

// AssignTrainer overwrites the member's trainer. Both ids may also be user ids.
func (s *assignmentService) AssignTrainer(ctx context.Context, memberID, trainerID primitive.ObjectID) (*MemberDetails, error) {
	trainer, err := resolveTrainer(ctx, s.repos.Trainers, trainerID)
	if err != nil {
		return nil, err
	}
	return s.setTrainer(ctx, memberID, trainer.ID)
}

func (s *assignmentService) setTrainer(ctx context.Context, memberID, trainerID primitive.ObjectID) (*MemberDetails, error) {
	member, err := resolveMember(ctx, s.repos.Members, memberID)
	if err != nil {
		return nil, err
	}
	updated, err := s.repos.Members.SetTrainer(ctx, member.ID, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return s.populate.member(ctx, *updated)
}

func (s *assignmentService) AssignWorkoutPlan(ctx context.Context, memberID, planID primitive.ObjectID) (*MemberDetails, error) {
	if err := s.planExists(ctx, planID); err != nil {
		return nil, err
	}
	return s.setPlan(ctx, memberID, planID)
}

func (s *assignmentService) setPlan(ctx context.Context, memberID, planID primitive.ObjectID) (*MemberDetails, error) {
	member, err := resolveMember(ctx, s.repos.Members, memberID)
	if err != nil {
		return nil, err
	}
	updated, err := s.repos.Members.SetWorkoutPlan(ctx, member.ID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return s.populate.member(ctx, *updated)
}

func (s *assignmentService) AssignMemberToTrainer(ctx context.Context, trainerID, memberID primitive.ObjectID) (*MemberDetails, error) {
	return s.AssignTrainer(ctx, memberID, trainerID)
}

func (s *assignmentService) AssignMemberToPlan(ctx context.Context, planID, memberID primitive.ObjectID) (*MemberDetails, error) {
	return s.AssignWorkoutPlan(ctx, memberID, planID)
}

func (s *assignmentService) planExists(ctx context.Context, planID primitive.ObjectID) error {
	_, err := s.repos.WorkoutPlans.GetByID(ctx, planID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutPlanNotFound
	}
	return err
}

func (s *assignmentService) BulkAssignTrainer(ctx context.Context, memberIDs []string, trainerID primitive.ObjectID) (*BulkResult, error) {
	if len(memberIDs) == 0 {
		return nil, validationError("memberIds must not be empty")
	}
	trainer, err := resolveTrainer(ctx, s.repos.Trainers, trainerID)
	if err != nil {
		return nil, err
	}
	return s.bulk(ctx, memberIDs, func(id primitive.ObjectID) error {
		_, err := s.setTrainer(ctx, id, trainer.ID)
		return err
	}), nil
}

func (s *assignmentService) BulkAssignWorkoutPlan(ctx context.Context, memberIDs []string, planID primitive.ObjectID) (*BulkResult, error) {
	if len(memberIDs) == 0 {
		return nil, validationError("memberIds must not be empty")
	}
	if err := s.planExists(ctx, planID); err != nil {
		return nil, err
	}
	return s.bulk(ctx, memberIDs, func(id primitive.ObjectID) error {
		_, err := s.setPlan(ctx, id, planID)
		return err
	}), nil
}

// bulk applies fn to each member in order. Failures are recorded and do not
// stop or undo the rest.
func (s *assignmentService) bulk(ctx context.Context, memberIDs []string, fn func(primitive.ObjectID) error) *BulkResult {
	result := &BulkResult{Results: make([]BulkItemResult, 0, len(memberIDs))}
	for _, raw := range memberIDs {
		item := BulkItemResult{MemberID: raw}
		id, err := ParseID(raw, "member id")
		if err == nil {
			err = fn(id)
		}
		if err != nil {
			item.Error = err.Error()
			var kind *kindError
			if !errors.As(err, &kind) {
				item.Error = "Server error"
			}
			result.Failed++
		} else {
			item.Success = true
			result.Succeeded++
		}
		result.Results = append(result.Results, item)
	}
	return result
}

func (s *assignmentService) UpdateMemberAssignments(ctx context.Context, memberID primitive.ObjectID, trainerID, planID *primitive.ObjectID) (*MemberDetails, error) {
	member, err := resolveMember(ctx, s.repos.Members, memberID)
	if err != nil {
		return nil, err
	}
	// Check every reference before writing anything.
	var trainerRef primitive.ObjectID
	if trainerID != nil {
		trainer, err := resolveTrainer(ctx, s.repos.Trainers, *trainerID)
		if err != nil {
			return nil, err
		}
		trainerRef = trainer.ID
	}
	if planID != nil {
		if err := s.planExists(ctx, *planID); err != nil {
			return nil, err
		}
	}

	if trainerID == nil && planID == nil {
		return s.populate.member(ctx, *member)
	}

	var details *MemberDetails
	if trainerID != nil {
		if details, err = s.setTrainer(ctx, member.ID, trainerRef); err != nil {
			return nil, err
		}
	}
	if planID != nil {
		if details, err = s.setPlan(ctx, member.ID, *planID); err != nil {
			return nil, err
		}
	}
	return details, nil
}

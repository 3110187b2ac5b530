package service

import (
	"context"
	"errors"
	"strings"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlanInput holds the editable fields of a plan.
type WorkoutPlanInput struct {
	Title         string
	Description   string
	DurationWeeks *int
	Exercises     []domain.PlanExercise
}

type WorkoutPlanService interface {
	List(ctx context.Context) ([]domain.WorkoutPlan, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	Create(ctx context.Context, actor Actor, in WorkoutPlanInput) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, id primitive.ObjectID, in WorkoutPlanInput) (*domain.WorkoutPlan, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// GetMine returns the plan assigned to the calling member.
	GetMine(ctx context.Context, actor Actor) (*domain.WorkoutPlan, error)
	// Members lists the members currently pointing at the plan.
	Members(ctx context.Context, planID primitive.ObjectID) ([]MemberDetails, error)
}

type workoutPlanService struct {
	repos    repository.Repositories
	populate populator
}

func NewWorkoutPlanService(repos repository.Repositories) WorkoutPlanService {
	return &workoutPlanService{repos: repos, populate: populator{repos: repos}}
}

func (s *workoutPlanService) List(ctx context.Context) ([]domain.WorkoutPlan, error) {
	return s.repos.WorkoutPlans.List(ctx)
}

func (s *workoutPlanService) Get(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.repos.WorkoutPlans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *workoutPlanService) Create(ctx context.Context, actor Actor, in WorkoutPlanInput) (*domain.WorkoutPlan, error) {
	in, err := cleanPlanInput(in)
	if err != nil {
		return nil, err
	}
	plan := &domain.WorkoutPlan{
		Title:         in.Title,
		Description:   in.Description,
		DurationWeeks: in.DurationWeeks,
		Exercises:     in.Exercises,
		CreatedBy:     actor.UserID,
	}
	if _, err := s.repos.WorkoutPlans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *workoutPlanService) Update(ctx context.Context, id primitive.ObjectID, in WorkoutPlanInput) (*domain.WorkoutPlan, error) {
	in, err := cleanPlanInput(in)
	if err != nil {
		return nil, err
	}
	plan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Title = in.Title
	plan.Description = in.Description
	plan.DurationWeeks = in.DurationWeeks
	plan.Exercises = in.Exercises

	if err := s.repos.WorkoutPlans.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *workoutPlanService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repos.WorkoutPlans.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutPlanNotFound
		}
		return err
	}
	return nil
}

func (s *workoutPlanService) GetMine(ctx context.Context, actor Actor) (*domain.WorkoutPlan, error) {
	member, err := memberOf(ctx, s.repos.Members, actor)
	if err != nil {
		return nil, err
	}
	if !member.HasWorkoutPlan() {
		return nil, ErrNoWorkoutPlan
	}
	plan, err := s.repos.WorkoutPlans.GetByID(ctx, *member.WorkoutPlanID)
	if err != nil {
		// The plan was deleted after being assigned.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoWorkoutPlan
		}
		return nil, err
	}
	return plan, nil
}

func (s *workoutPlanService) Members(ctx context.Context, planID primitive.ObjectID) ([]MemberDetails, error) {
	if _, err := s.Get(ctx, planID); err != nil {
		return nil, err
	}
	members, err := s.repos.Members.List(ctx, domain.MemberFilter{WorkoutPlanID: &planID})
	if err != nil {
		return nil, err
	}
	return s.populate.members(ctx, members)
}

func cleanPlanInput(in WorkoutPlanInput) (WorkoutPlanInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		return in, validationError("Title is required")
	}
	if in.DurationWeeks != nil && *in.DurationWeeks <= 0 {
		return in, validationError("Duration must be a positive number of weeks")
	}
	exercises := make([]domain.PlanExercise, 0, len(in.Exercises))
	for i, ex := range in.Exercises {
		ex.Name = strings.TrimSpace(ex.Name)
		if ex.Name == "" {
			return in, validationError("Exercise %d: name is required", i+1)
		}
		if ex.Sets < 0 || ex.Reps < 0 {
			return in, validationError("Exercise %d: sets and reps cannot be negative", i+1)
		}
		exercises = append(exercises, ex)
	}
	in.Exercises = exercises
	return in, nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the format of the schedule date filter.
const DateLayout = "2006-01-02"

// CreateScheduleInput books a session. Zero times mean "missing".
type CreateScheduleInput struct {
	TrainerID primitive.ObjectID
	MemberID  *primitive.ObjectID
	StartTime time.Time
	EndTime   time.Time
	Title     string
}

// ScheduleQuery is the raw filter from the list endpoint.
type ScheduleQuery struct {
	TrainerID string
	MemberID  string
	Date      string
}

type ScheduleService interface {
	// Create persists the session without checking availability or overlaps.
	Create(ctx context.Context, actor Actor, in CreateScheduleInput) (*ScheduleDetails, error)
	List(ctx context.Context, query ScheduleQuery) ([]ScheduleDetails, error)
	ListMine(ctx context.Context, actor Actor) ([]ScheduleDetails, error)
	ListForTrainer(ctx context.Context, actor Actor) ([]ScheduleDetails, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type scheduleService struct {
	repos    repository.Repositories
	populate populator
}

func NewScheduleService(repos repository.Repositories) ScheduleService {
	return &scheduleService{repos: repos, populate: populator{repos: repos}}
}

func (s *scheduleService) Create(ctx context.Context, actor Actor, in CreateScheduleInput) (*ScheduleDetails, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.TrainerID.IsZero() || in.StartTime.IsZero() || in.EndTime.IsZero() || in.Title == "" {
		return nil, validationError("trainerId, startTime, endTime and title are required")
	}

	trainer, err := resolveTrainer(ctx, s.repos.Trainers, in.TrainerID)
	if err != nil {
		return nil, err
	}

	schedule := &domain.Schedule{
		TrainerID: trainer.ID,
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
		Title:     in.Title,
		Status:    domain.ScheduleStatusScheduled,
	}

	switch {
	case in.MemberID != nil:
		member, err := resolveMember(ctx, s.repos.Members, *in.MemberID)
		if err != nil {
			return nil, err
		}
		schedule.MemberID = &member.ID
	case actor.Role == domain.RoleMember:
		// Members book for themselves unless told otherwise.
		member, err := memberOf(ctx, s.repos.Members, actor)
		if err != nil {
			return nil, err
		}
		schedule.MemberID = &member.ID
	}

	if _, err := s.repos.Schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return s.populate.schedule(ctx, *schedule)
}

func (s *scheduleService) List(ctx context.Context, query ScheduleQuery) ([]ScheduleDetails, error) {
	var filter domain.ScheduleFilter
	if query.TrainerID != "" {
		id, err := ParseID(query.TrainerID, "trainerId")
		if err != nil {
			return nil, err
		}
		filter.TrainerID = &id
	}
	if query.MemberID != "" {
		id, err := ParseID(query.MemberID, "memberId")
		if err != nil {
			return nil, err
		}
		filter.MemberID = &id
	}
	if query.Date != "" {
		day, err := time.Parse(DateLayout, query.Date)
		if err != nil {
			return nil, validationError("date must be formatted as YYYY-MM-DD")
		}
		filter.Date = &day
	}
	return s.list(ctx, filter)
}

func (s *scheduleService) ListMine(ctx context.Context, actor Actor) ([]ScheduleDetails, error) {
	member, err := memberOf(ctx, s.repos.Members, actor)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, domain.ScheduleFilter{MemberID: &member.ID})
}

func (s *scheduleService) ListForTrainer(ctx context.Context, actor Actor) ([]ScheduleDetails, error) {
	trainer, err := trainerOf(ctx, s.repos.Trainers, actor)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, domain.ScheduleFilter{TrainerID: &trainer.ID})
}

func (s *scheduleService) list(ctx context.Context, filter domain.ScheduleFilter) ([]ScheduleDetails, error) {
	schedules, err := s.repos.Schedules.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.populate.schedules(ctx, schedules)
}

func (s *scheduleService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repos.Schedules.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	return nil
}

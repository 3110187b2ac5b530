package service

import (
	"context"
	"errors"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerDetails is a trainer joined with its user.
type TrainerDetails struct {
	Trainer domain.Trainer
	User    *domain.User
}

// MemberDetails is a member joined with its user, trainer and workout plan.
// References that no longer resolve are left nil.
type MemberDetails struct {
	Member      domain.Member
	User        *domain.User
	Trainer     *TrainerDetails
	WorkoutPlan *domain.WorkoutPlan
}

type ScheduleDetails struct {
	Schedule domain.Schedule
	Trainer  *TrainerDetails
	Member   *MemberDetails
}

type AttendanceDetails struct {
	Attendance domain.Attendance
	Schedule   *domain.Schedule
	Member     *MemberDetails
}

// populator resolves references between records the way a join would.
type populator struct {
	repos repository.Repositories
}

func (p populator) user(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := p.repos.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (p populator) trainer(ctx context.Context, t domain.Trainer) (*TrainerDetails, error) {
	user, err := p.user(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	return &TrainerDetails{Trainer: t, User: user}, nil
}

func (p populator) trainerByID(ctx context.Context, id primitive.ObjectID) (*TrainerDetails, error) {
	t, err := p.repos.Trainers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.trainer(ctx, *t)
}

func (p populator) trainers(ctx context.Context, ts []domain.Trainer) ([]TrainerDetails, error) {
	out := make([]TrainerDetails, 0, len(ts))
	for _, t := range ts {
		d, err := p.trainer(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (p populator) member(ctx context.Context, m domain.Member) (*MemberDetails, error) {
	user, err := p.user(ctx, m.UserID)
	if err != nil {
		return nil, err
	}
	details := &MemberDetails{Member: m, User: user}

	if m.HasTrainer() {
		if details.Trainer, err = p.trainerByID(ctx, *m.TrainerID); err != nil {
			return nil, err
		}
	}
	if m.HasWorkoutPlan() {
		plan, err := p.repos.WorkoutPlans.GetByID(ctx, *m.WorkoutPlanID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			details.WorkoutPlan = plan
		}
	}
	return details, nil
}

func (p populator) memberByID(ctx context.Context, id primitive.ObjectID) (*MemberDetails, error) {
	m, err := p.repos.Members.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.member(ctx, *m)
}

func (p populator) members(ctx context.Context, ms []domain.Member) ([]MemberDetails, error) {
	out := make([]MemberDetails, 0, len(ms))
	for _, m := range ms {
		d, err := p.member(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (p populator) schedule(ctx context.Context, s domain.Schedule) (*ScheduleDetails, error) {
	trainer, err := p.trainerByID(ctx, s.TrainerID)
	if err != nil {
		return nil, err
	}
	details := &ScheduleDetails{Schedule: s, Trainer: trainer}
	if s.MemberID != nil {
		if details.Member, err = p.memberByID(ctx, *s.MemberID); err != nil {
			return nil, err
		}
	}
	return details, nil
}

func (p populator) schedules(ctx context.Context, ss []domain.Schedule) ([]ScheduleDetails, error) {
	out := make([]ScheduleDetails, 0, len(ss))
	for _, s := range ss {
		d, err := p.schedule(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (p populator) attendance(ctx context.Context, records []domain.Attendance) ([]AttendanceDetails, error) {
	out := make([]AttendanceDetails, 0, len(records))
	for _, a := range records {
		d := AttendanceDetails{Attendance: a}
		sched, err := p.repos.Schedules.GetByID(ctx, a.ScheduleID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			d.Schedule = sched
		}
		if d.Member, err = p.memberByID(ctx, a.MemberID); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

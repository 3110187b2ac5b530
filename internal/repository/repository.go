package repository

import (
	"context"

	"gymdesk/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
	ErrInvalid   = RepositoryError("invalid document")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MemberRepository defines the interface for interacting with member profiles.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Member, error)
	List(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error)
	SetTrainer(ctx context.Context, id, trainerID primitive.ObjectID) (*domain.Member, error)
	SetWorkoutPlan(ctx context.Context, id, planID primitive.ObjectID) (*domain.Member, error)
	UpdateBodyMetrics(ctx context.Context, id primitive.ObjectID, metrics domain.BodyMetrics) (*domain.Member, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) // Returns the deleted document
}

// TrainerRepository defines the interface for interacting with trainer profiles.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Trainer, error)
	List(ctx context.Context) ([]domain.Trainer, error)
	ReplaceAvailability(ctx context.Context, id primitive.ObjectID, availability []domain.AvailabilityEntry) (*domain.Trainer, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutPlanRepository defines the interface for interacting with workout plans.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	List(ctx context.Context) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ScheduleRepository defines the interface for interacting with booked sessions.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.Schedule) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Schedule, error)
	List(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Schedule, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AttendanceRepository defines the interface for interacting with attendance marks.
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *domain.Attendance) (primitive.ObjectID, error)
	List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error)
}

// Repositories bundles every store so backends can be swapped as a unit.
type Repositories struct {
	Users        UserRepository
	Members      MemberRepository
	Trainers     TrainerRepository
	WorkoutPlans WorkoutPlanRepository
	Schedules    ScheduleRepository
	Attendance   AttendanceRepository
}

// Package memory provides in-process implementations of the repository
// interfaces. It backs the "memory" database driver and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one lock.
type Store struct {
	mu          sync.RWMutex
	users       map[primitive.ObjectID]domain.User
	members     map[primitive.ObjectID]domain.Member
	trainers    map[primitive.ObjectID]domain.Trainer
	plans       map[primitive.ObjectID]domain.WorkoutPlan
	schedules   map[primitive.ObjectID]domain.Schedule
	attendance  map[primitive.ObjectID]domain.Attendance
	now         func() time.Time
	insertOrder map[primitive.ObjectID]int
	seq         int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:       make(map[primitive.ObjectID]domain.User),
		members:     make(map[primitive.ObjectID]domain.Member),
		trainers:    make(map[primitive.ObjectID]domain.Trainer),
		plans:       make(map[primitive.ObjectID]domain.WorkoutPlan),
		schedules:   make(map[primitive.ObjectID]domain.Schedule),
		attendance:  make(map[primitive.ObjectID]domain.Attendance),
		now:         func() time.Time { return time.Now().UTC() },
		insertOrder: make(map[primitive.ObjectID]int),
	}
}

// NewRepositories returns a fresh store wired as a repository bundle.
func NewRepositories() repository.Repositories {
	return NewStore().Repositories()
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:        &userRepo{s},
		Members:      &memberRepo{s},
		Trainers:     &trainerRepo{s},
		WorkoutPlans: &planRepo{s},
		Schedules:    &scheduleRepo{s},
		Attendance:   &attendanceRepo{s},
	}
}

// newID must be called with the write lock held.
func (s *Store) newID() primitive.ObjectID {
	id := primitive.NewObjectID()
	s.seq++
	s.insertOrder[id] = s.seq
	return id
}

// byInsertion sorts ids in insertion order. Read lock must be held.
func (s *Store) byInsertion(ids []primitive.ObjectID) {
	sort.Slice(ids, func(i, j int) bool { return s.insertOrder[ids[i]] < s.insertOrder[ids[j]] })
}

// --- Users ---

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = r.s.newID()
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) Update(_ context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return &u, nil
}

func (r *userRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// --- Members ---

type memberRepo struct{ s *Store }

func (r *memberRepo) Create(_ context.Context, member *domain.Member) (primitive.ObjectID, error) {
	if member.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if m.UserID == member.UserID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	member.ID = r.s.newID()
	member.CreatedAt = r.s.now()
	member.UpdatedAt = member.CreatedAt
	r.s.members[member.ID] = cloneMember(*member)
	return member.ID, nil
}

func (r *memberRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneMember(m)
	return &out, nil
}

func (r *memberRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.members {
		if m.UserID == userID {
			out := cloneMember(m)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memberRepo) List(_ context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]primitive.ObjectID, 0, len(r.s.members))
	for id, m := range r.s.members {
		if filter.TrainerID != nil && (m.TrainerID == nil || *m.TrainerID != *filter.TrainerID) {
			continue
		}
		if filter.WorkoutPlanID != nil && (m.WorkoutPlanID == nil || *m.WorkoutPlanID != *filter.WorkoutPlanID) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.byInsertion(ids)

	members := make([]domain.Member, 0, len(ids))
	for _, id := range ids {
		members = append(members, cloneMember(r.s.members[id]))
	}
	return members, nil
}

func (r *memberRepo) SetTrainer(_ context.Context, id, trainerID primitive.ObjectID) (*domain.Member, error) {
	return r.mutate(id, func(m *domain.Member) { m.TrainerID = &trainerID })
}

func (r *memberRepo) SetWorkoutPlan(_ context.Context, id, planID primitive.ObjectID) (*domain.Member, error) {
	return r.mutate(id, func(m *domain.Member) { m.WorkoutPlanID = &planID })
}

func (r *memberRepo) UpdateBodyMetrics(_ context.Context, id primitive.ObjectID, metrics domain.BodyMetrics) (*domain.Member, error) {
	return r.mutate(id, func(m *domain.Member) {
		height, weight, bmi := metrics.Height, metrics.Weight, metrics.BMI
		m.Height = &height
		m.Weight = &weight
		m.BMI = &bmi
		m.BMICategory = string(metrics.Category)
	})
}

func (r *memberRepo) mutate(id primitive.ObjectID, fn func(*domain.Member)) (*domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m = cloneMember(m)
	fn(&m)
	m.UpdatedAt = r.s.now()
	r.s.members[id] = m
	out := cloneMember(m)
	return &out, nil
}

func (r *memberRepo) Delete(_ context.Context, id primitive.ObjectID) (*domain.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.members, id)
	return &m, nil
}

func cloneMember(m domain.Member) domain.Member {
	if m.TrainerID != nil {
		id := *m.TrainerID
		m.TrainerID = &id
	}
	if m.WorkoutPlanID != nil {
		id := *m.WorkoutPlanID
		m.WorkoutPlanID = &id
	}
	return m
}

// --- Trainers ---

type trainerRepo struct{ s *Store }

func (r *trainerRepo) Create(_ context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	if trainer.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.trainers {
		if t.UserID == trainer.UserID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	if trainer.Availability == nil {
		trainer.Availability = []domain.AvailabilityEntry{}
	}
	trainer.ID = r.s.newID()
	trainer.CreatedAt = r.s.now()
	trainer.UpdatedAt = trainer.CreatedAt
	r.s.trainers[trainer.ID] = cloneTrainer(*trainer)
	return trainer.ID, nil
}

func (r *trainerRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.trainers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneTrainer(t)
	return &out, nil
}

func (r *trainerRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Trainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.trainers {
		if t.UserID == userID {
			out := cloneTrainer(t)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *trainerRepo) List(_ context.Context) ([]domain.Trainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]primitive.ObjectID, 0, len(r.s.trainers))
	for id := range r.s.trainers {
		ids = append(ids, id)
	}
	r.s.byInsertion(ids)

	trainers := make([]domain.Trainer, 0, len(ids))
	for _, id := range ids {
		trainers = append(trainers, cloneTrainer(r.s.trainers[id]))
	}
	return trainers, nil
}

func (r *trainerRepo) ReplaceAvailability(_ context.Context, id primitive.ObjectID, availability []domain.AvailabilityEntry) (*domain.Trainer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trainers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Availability = availability
	if t.Availability == nil {
		t.Availability = []domain.AvailabilityEntry{}
	}
	t.UpdatedAt = r.s.now()
	t = cloneTrainer(t)
	r.s.trainers[id] = t
	out := cloneTrainer(t)
	return &out, nil
}

func (r *trainerRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trainers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.trainers, id)
	return nil
}

func cloneTrainer(t domain.Trainer) domain.Trainer {
	avail := make([]domain.AvailabilityEntry, len(t.Availability))
	for i, entry := range t.Availability {
		avail[i] = domain.AvailabilityEntry{Date: entry.Date, Slots: append([]string{}, entry.Slots...)}
	}
	t.Availability = avail
	return t
}

// --- Workout plans ---

type planRepo struct{ s *Store }

func (r *planRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.Title == "" || plan.CreatedBy == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if plan.Exercises == nil {
		plan.Exercises = []domain.PlanExercise{}
	}
	plan.ID = r.s.newID()
	plan.CreatedAt = r.s.now()
	plan.UpdatedAt = plan.CreatedAt
	r.s.plans[plan.ID] = clonePlan(*plan)
	return plan.ID, nil
}

func (r *planRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := clonePlan(p)
	return &out, nil
}

// List returns plans newest first, matching the mongo store.
func (r *planRepo) List(_ context.Context) ([]domain.WorkoutPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]primitive.ObjectID, 0, len(r.s.plans))
	for id := range r.s.plans {
		ids = append(ids, id)
	}
	r.s.byInsertion(ids)

	plans := make([]domain.WorkoutPlan, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		plans = append(plans, clonePlan(r.s.plans[ids[i]]))
	}
	return plans, nil
}

func (r *planRepo) Update(_ context.Context, plan *domain.WorkoutPlan) error {
	if plan.ID == primitive.NilObjectID {
		return repository.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.plans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Title = plan.Title
	existing.Description = plan.Description
	existing.DurationWeeks = plan.DurationWeeks
	existing.Exercises = plan.Exercises
	if existing.Exercises == nil {
		existing.Exercises = []domain.PlanExercise{}
	}
	existing.UpdatedAt = r.s.now()
	plan.UpdatedAt = existing.UpdatedAt
	r.s.plans[plan.ID] = clonePlan(existing)
	return nil
}

func (r *planRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.plans, id)
	return nil
}

func clonePlan(p domain.WorkoutPlan) domain.WorkoutPlan {
	p.Exercises = append([]domain.PlanExercise{}, p.Exercises...)
	if p.DurationWeeks != nil {
		d := *p.DurationWeeks
		p.DurationWeeks = &d
	}
	return p
}

// --- Schedules ---

type scheduleRepo struct{ s *Store }

func (r *scheduleRepo) Create(_ context.Context, schedule *domain.Schedule) (primitive.ObjectID, error) {
	if schedule.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if schedule.Status == "" {
		schedule.Status = domain.ScheduleStatusScheduled
	}
	schedule.ID = r.s.newID()
	schedule.CreatedAt = r.s.now()
	r.s.schedules[schedule.ID] = cloneSchedule(*schedule)
	return schedule.ID, nil
}

func (r *scheduleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Schedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sc, ok := r.s.schedules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneSchedule(sc)
	return &out, nil
}

// List returns matching sessions ordered by start time.
func (r *scheduleRepo) List(_ context.Context, filter domain.ScheduleFilter) ([]domain.Schedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	schedules := []domain.Schedule{}
	for _, sc := range r.s.schedules {
		if filter.Matches(&sc) {
			schedules = append(schedules, cloneSchedule(sc))
		}
	}
	sort.SliceStable(schedules, func(i, j int) bool {
		if schedules[i].StartTime.Equal(schedules[j].StartTime) {
			return r.s.insertOrder[schedules[i].ID] < r.s.insertOrder[schedules[j].ID]
		}
		return schedules[i].StartTime.Before(schedules[j].StartTime)
	})
	return schedules, nil
}

func (r *scheduleRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schedules[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.schedules, id)
	return nil
}

func cloneSchedule(sc domain.Schedule) domain.Schedule {
	if sc.MemberID != nil {
		id := *sc.MemberID
		sc.MemberID = &id
	}
	return sc
}

// --- Attendance ---

type attendanceRepo struct{ s *Store }

func (r *attendanceRepo) Create(_ context.Context, attendance *domain.Attendance) (primitive.ObjectID, error) {
	if attendance.ScheduleID == primitive.NilObjectID || attendance.MemberID == primitive.NilObjectID {
		return primitive.NilObjectID, repository.ErrInvalid
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	attendance.ID = r.s.newID()
	if attendance.Date.IsZero() {
		attendance.Date = r.s.now()
	}
	r.s.attendance[attendance.ID] = *attendance
	return attendance.ID, nil
}

// List returns matching marks, newest first.
func (r *attendanceRepo) List(_ context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	records := []domain.Attendance{}
	for _, a := range r.s.attendance {
		if filter.ScheduleID != nil && a.ScheduleID != *filter.ScheduleID {
			continue
		}
		if filter.MemberID != nil && a.MemberID != *filter.MemberID {
			continue
		}
		records = append(records, a)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return r.s.insertOrder[records[i].ID] > r.s.insertOrder[records[j].ID]
	})
	return records, nil
}

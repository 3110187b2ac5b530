package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/notify"
	"gymdesk/gym-app/internal/repository"
	"gymdesk/gym-app/internal/repository/memory"
	"gymdesk/gym-app/internal/revocation"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

// recordingNotifier captures notifications instead of sending them.
type recordingNotifier struct {
	mu              sync.Mutex
	welcomed        []notify.Recipient
	passwordChanged []notify.Recipient
	err             error
}

func (n *recordingNotifier) Welcome(_ context.Context, to notify.Recipient) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomed = append(n.welcomed, to)
	return n.err
}

func (n *recordingNotifier) PasswordChanged(_ context.Context, to notify.Recipient) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.passwordChanged = append(n.passwordChanged, to)
	return n.err
}

type testEnv struct {
	repos       repository.Repositories
	notifier    *recordingNotifier
	revoked     *revocation.MemoryStore
	auth        AuthService
	users       UserService
	members     MemberService
	assignments AssignmentService
	trainers    TrainerService
	plans       WorkoutPlanService
	schedules   ScheduleService
	attendance  AttendanceService
	bmi         BMIService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := memory.NewRepositories()
	notifier := &recordingNotifier{}
	revoked := revocation.NewMemoryStore()
	assignments := NewAssignmentService(repos)
	return &testEnv{
		repos:       repos,
		notifier:    notifier,
		revoked:     revoked,
		auth:        NewAuthService(repos, revoked, notifier, AuthConfig{JWTSecret: testSecret, JWTExpiration: time.Hour}),
		users:       NewUserService(repos.Users, nil, 0),
		members:     NewMemberService(repos, notifier, assignments),
		assignments: assignments,
		trainers:    NewTrainerService(repos, notifier),
		plans:       NewWorkoutPlanService(repos),
		schedules:   NewScheduleService(repos),
		attendance:  NewAttendanceService(repos),
		bmi:         NewBMIService(repos.Members),
	}
}

func (e *testEnv) newMember(t *testing.T, name, email string) *MemberDetails {
	t.Helper()
	m, err := e.members.Create(context.Background(), CreateMemberInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return m
}

func (e *testEnv) newTrainer(t *testing.T, name, email string) *TrainerDetails {
	t.Helper()
	tr, err := e.trainers.Create(context.Background(), CreateTrainerInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	return tr
}

func (e *testEnv) newPlan(t *testing.T, title string) *domain.WorkoutPlan {
	t.Helper()
	plan, err := e.plans.Create(context.Background(), Actor{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}, WorkoutPlanInput{Title: title})
	require.NoError(t, err)
	return plan
}

func memberActor(m *MemberDetails) Actor {
	return Actor{UserID: m.Member.UserID, Role: domain.RoleMember}
}

func trainerActor(tr *TrainerDetails) Actor {
	return Actor{UserID: tr.Trainer.UserID, Role: domain.RoleTrainer}
}

var adminActor = Actor{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

// failingUsers wraps a UserRepository and fails Delete.
type failingUsers struct {
	repository.UserRepository
	deleteErr error
}

func (f failingUsers) Delete(context.Context, primitive.ObjectID) error {
	return f.deleteErr
}

var errBoom = errors.New("boom")

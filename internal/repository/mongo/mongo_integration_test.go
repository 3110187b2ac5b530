//go:build integration

package mongo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// startMongo runs a throwaway mongod and returns repositories on a fresh database.
func startMongo(t *testing.T) repository.Repositories {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate mongo container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	client, err := ConnectDB(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = DisconnectDB(client) })

	db := client.Database("gym_test")
	EnsureIndexes(ctx, db)
	return NewRepositories(db)
}

func TestMongo_Repositories(t *testing.T) {
	repos := startMongo(t)
	ctx := context.Background()

	t.Run("users are unique by email", func(t *testing.T) {
		_, err := repos.Users.Create(ctx, &domain.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "h", Role: domain.RoleMember})
		require.NoError(t, err)
		_, err = repos.Users.Create(ctx, &domain.User{Name: "Ann 2", Email: "ann@example.com", PasswordHash: "h", Role: domain.RoleMember})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		_, err = repos.Users.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("member assignments and filter", func(t *testing.T) {
		trainerID, err := repos.Trainers.Create(ctx, &domain.Trainer{UserID: primitive.NewObjectID()})
		require.NoError(t, err)
		memberID, err := repos.Members.Create(ctx, &domain.Member{UserID: primitive.NewObjectID()})
		require.NoError(t, err)

		m, err := repos.Members.SetTrainer(ctx, memberID, trainerID)
		require.NoError(t, err)
		require.NotNil(t, m.TrainerID)
		assert.Equal(t, trainerID, *m.TrainerID)

		list, err := repos.Members.List(ctx, domain.MemberFilter{TrainerID: &trainerID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, memberID, list[0].ID)

		m, err = repos.Members.UpdateBodyMetrics(ctx, memberID, domain.BodyMetrics{Height: 180, Weight: 75, BMI: 23.15, Category: domain.BMINormal})
		require.NoError(t, err)
		require.NotNil(t, m.BMI)
		assert.Equal(t, 23.15, *m.BMI)

		deleted, err := repos.Members.Delete(ctx, memberID)
		require.NoError(t, err)
		assert.Equal(t, memberID, deleted.ID)
		_, err = repos.Members.GetByID(ctx, memberID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("availability is replaced verbatim", func(t *testing.T) {
		id, err := repos.Trainers.Create(ctx, &domain.Trainer{UserID: primitive.NewObjectID()})
		require.NoError(t, err)

		entries := []domain.AvailabilityEntry{{Date: "2026-01-05", Slots: []string{"09:00", "09:00"}}}
		tr, err := repos.Trainers.ReplaceAvailability(ctx, id, entries)
		require.NoError(t, err)
		assert.Equal(t, entries, tr.Availability)
	})

	t.Run("schedules filtered by day", func(t *testing.T) {
		trainerID := primitive.NewObjectID()
		day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		for _, start := range []time.Time{day.Add(9 * time.Hour), day.Add(9 * time.Hour), day.Add(33 * time.Hour)} {
			_, err := repos.Schedules.Create(ctx, &domain.Schedule{
				TrainerID: trainerID,
				StartTime: start,
				EndTime:   start.Add(time.Hour),
				Title:     "Session",
				Status:    domain.ScheduleStatusScheduled,
			})
			require.NoError(t, err)
		}

		onDay, err := repos.Schedules.List(ctx, domain.ScheduleFilter{TrainerID: &trainerID, Date: &day})
		require.NoError(t, err)
		assert.Len(t, onDay, 2)
	})
}

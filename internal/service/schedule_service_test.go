package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestScheduleCreate_DoubleBookingAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.newTrainer(t, "Tom", "tom@example.com")
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		_, err := env.schedules.Create(ctx, adminActor, CreateScheduleInput{
			TrainerID: tr.Trainer.ID,
			StartTime: start.Add(time.Duration(i) * 30 * time.Minute),
			EndTime:   start.Add(time.Hour + time.Duration(i)*30*time.Minute),
			Title:     "PT",
		})
		require.NoError(t, err)
	}

	list, err := env.schedules.List(ctx, ScheduleQuery{TrainerID: tr.Trainer.ID.Hex()})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestScheduleCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.newTrainer(t, "Tom", "tom@example.com")
	start := time.Now()

	tests := []struct {
		name    string
		in      CreateScheduleInput
		wantErr error
	}{
		{name: "missing title", in: CreateScheduleInput{TrainerID: tr.Trainer.ID, StartTime: start, EndTime: start.Add(time.Hour)}, wantErr: ErrValidation},
		{name: "missing trainer", in: CreateScheduleInput{StartTime: start, EndTime: start.Add(time.Hour), Title: "PT"}, wantErr: ErrValidation},
		{name: "missing end", in: CreateScheduleInput{TrainerID: tr.Trainer.ID, StartTime: start, Title: "PT"}, wantErr: ErrValidation},
		{name: "unknown trainer", in: CreateScheduleInput{TrainerID: primitive.NewObjectID(), StartTime: start, EndTime: start.Add(time.Hour), Title: "PT"}, wantErr: ErrTrainerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.schedules.Create(ctx, adminActor, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := env.schedules.List(ctx, ScheduleQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestScheduleCreate_MemberBooksForSelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.newTrainer(t, "Tom", "tom@example.com")
	m := env.newMember(t, "Ann", "ann@example.com")
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	got, err := env.schedules.Create(ctx, memberActor(m), CreateScheduleInput{
		TrainerID: tr.Trainer.UserID, StartTime: start, EndTime: start.Add(time.Hour), Title: "PT",
	})
	require.NoError(t, err)
	require.NotNil(t, got.Schedule.MemberID)
	assert.Equal(t, m.Member.ID, *got.Schedule.MemberID)
	assert.Equal(t, tr.Trainer.ID, got.Schedule.TrainerID)
	assert.Equal(t, "Tom", got.Trainer.User.Name)
	assert.Equal(t, "Ann", got.Member.User.Name)

	mine, err := env.schedules.ListMine(ctx, memberActor(m))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	forTrainer, err := env.schedules.ListForTrainer(ctx, trainerActor(tr))
	require.NoError(t, err)
	assert.Len(t, forTrainer, 1)
}

func TestScheduleList_DateFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.newTrainer(t, "Tom", "tom@example.com")
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	for _, start := range []time.Time{day.Add(9 * time.Hour), day.Add(23 * time.Hour), day.Add(33 * time.Hour)} {
		_, err := env.schedules.Create(ctx, adminActor, CreateScheduleInput{
			TrainerID: tr.Trainer.ID, StartTime: start, EndTime: start.Add(time.Hour), Title: "PT",
		})
		require.NoError(t, err)
	}

	list, err := env.schedules.List(ctx, ScheduleQuery{Date: "2025-03-14"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.schedules.List(ctx, ScheduleQuery{Date: "14/03/2025"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.schedules.List(ctx, ScheduleQuery{TrainerID: "xyz"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScheduleDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.newTrainer(t, "Tom", "tom@example.com")
	start := time.Now()
	got, err := env.schedules.Create(ctx, adminActor, CreateScheduleInput{
		TrainerID: tr.Trainer.ID, StartTime: start, EndTime: start.Add(time.Hour), Title: "PT",
	})
	require.NoError(t, err)

	require.NoError(t, env.schedules.Delete(ctx, got.Schedule.ID))
	assert.ErrorIs(t, env.schedules.Delete(ctx, got.Schedule.ID), ErrScheduleNotFound)
}

package service

import (
	"context"
	"testing"

	"gymdesk/gym-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceAvailability_Verbatim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.newTrainer(t, "Tom", "tom@example.com")

	// Duplicates, unsorted dates and free-form strings are stored as given.
	entries := []domain.AvailabilityEntry{
		{Date: "2025-03-15", Slots: []string{"10:00", "09:00", "10:00"}},
		{Date: "someday", Slots: []string{}},
		{Date: "2025-03-14", Slots: []string{"morning"}},
	}
	got, err := env.trainers.ReplaceAvailability(ctx, trainerActor(tr), tr.Trainer.ID, entries)
	require.NoError(t, err)
	assert.Equal(t, entries, got.Trainer.Availability)

	got, err = env.trainers.ReplaceOwnAvailability(ctx, trainerActor(tr), []domain.AvailabilityEntry{})
	require.NoError(t, err)
	assert.Empty(t, got.Trainer.Availability)
}

func TestReplaceAvailability_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tom := env.newTrainer(t, "Tom", "tom@example.com")
	tina := env.newTrainer(t, "Tina", "tina@example.com")
	entries := []domain.AvailabilityEntry{{Date: "2025-03-14", Slots: []string{"09:00"}}}

	_, err := env.trainers.ReplaceAvailability(ctx, trainerActor(tina), tom.Trainer.ID, entries)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.trainers.ReplaceAvailability(ctx, adminActor, tom.Trainer.ID, entries)
	assert.NoError(t, err)
}

func TestAvailabilitySlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.newTrainer(t, "Tom", "tom@example.com")
	actor := trainerActor(tr)

	_, err := env.trainers.AddAvailabilitySlot(ctx, actor, tr.Trainer.ID, "2025-03-14", "09:00")
	require.NoError(t, err)
	_, err = env.trainers.AddAvailabilitySlot(ctx, actor, tr.Trainer.ID, "2025-03-14", "09:00")
	require.NoError(t, err)
	got, err := env.trainers.AddAvailabilitySlot(ctx, actor, tr.Trainer.UserID, "2025-03-14", "10:00")
	require.NoError(t, err)
	assert.Equal(t, []domain.AvailabilityEntry{{Date: "2025-03-14", Slots: []string{"09:00", "10:00"}}}, got.Trainer.Availability)

	_, err = env.trainers.RemoveAvailabilitySlot(ctx, actor, tr.Trainer.ID, "2025-03-14", "09:00")
	require.NoError(t, err)
	got, err = env.trainers.RemoveAvailabilitySlot(ctx, actor, tr.Trainer.ID, "2025-03-14", "10:00")
	require.NoError(t, err)
	assert.Empty(t, got.Trainer.Availability)

	_, err = env.trainers.AddAvailabilitySlot(ctx, actor, tr.Trainer.ID, "", "10:00")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTrainerMyMembersAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.newTrainer(t, "Tom", "tom@example.com")
	m := env.newMember(t, "Ann", "ann@example.com")
	_, err := env.assignments.AssignTrainer(ctx, m.Member.ID, tr.Trainer.ID)
	require.NoError(t, err)

	mine, err := env.trainers.MyMembers(ctx, trainerActor(tr))
	require.NoError(t, err)
	require.Len(t, mine, 1)

	me, err := env.trainers.GetMine(ctx, trainerActor(tr))
	require.NoError(t, err)
	assert.Equal(t, "Tom", me.User.Name)

	list, err := env.trainers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, env.trainers.Delete(ctx, tr.Trainer.ID))
	_, err = env.trainers.Get(ctx, tr.Trainer.ID)
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	// No cascade: the member keeps a dangling reference that populates as nil.
	details, err := env.members.Get(ctx, m.Member.ID)
	require.NoError(t, err)
	assert.True(t, details.Member.HasTrainer())
	assert.Nil(t, details.Trainer)
}

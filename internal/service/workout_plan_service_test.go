package service

import (
	"context"
	"testing"

	"gymdesk/gym-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWorkoutPlanCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	weeks := 8

	plan, err := env.plans.Create(ctx, adminActor, WorkoutPlanInput{
		Title:         "  Strength ",
		DurationWeeks: &weeks,
		Exercises:     []domain.PlanExercise{{Name: "Squat", Sets: 5, Reps: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Strength", plan.Title)
	assert.Equal(t, adminActor.UserID, plan.CreatedBy)

	updated, err := env.plans.Update(ctx, plan.ID, WorkoutPlanInput{Title: "Strength II"})
	require.NoError(t, err)
	assert.Equal(t, "Strength II", updated.Title)
	assert.Nil(t, updated.DurationWeeks)
	assert.Empty(t, updated.Exercises)

	got, err := env.plans.Get(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Strength II", got.Title)

	require.NoError(t, env.plans.Delete(ctx, plan.ID))
	_, err = env.plans.Get(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrWorkoutPlanNotFound)
	assert.ErrorIs(t, env.plans.Delete(ctx, plan.ID), ErrWorkoutPlanNotFound)
	_, err = env.plans.Update(ctx, plan.ID, WorkoutPlanInput{Title: "x"})
	assert.ErrorIs(t, err, ErrWorkoutPlanNotFound)
}

func TestWorkoutPlanValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	zero := 0

	tests := []struct {
		name string
		in   WorkoutPlanInput
	}{
		{name: "blank title", in: WorkoutPlanInput{Title: "  "}},
		{name: "zero duration", in: WorkoutPlanInput{Title: "A", DurationWeeks: &zero}},
		{name: "unnamed exercise", in: WorkoutPlanInput{Title: "A", Exercises: []domain.PlanExercise{{Sets: 3}}}},
		{name: "negative reps", in: WorkoutPlanInput{Title: "A", Exercises: []domain.PlanExercise{{Name: "Row", Reps: -1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.plans.Create(ctx, adminActor, tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	list, err := env.plans.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWorkoutPlanGetMine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMember(t, "Ann", "ann@example.com")

	_, err := env.plans.GetMine(ctx, memberActor(m))
	assert.ErrorIs(t, err, ErrNoWorkoutPlan)

	plan := env.newPlan(t, "Strength")
	_, err = env.assignments.AssignWorkoutPlan(ctx, m.Member.ID, plan.ID)
	require.NoError(t, err)

	mine, err := env.plans.GetMine(ctx, memberActor(m))
	require.NoError(t, err)
	assert.Equal(t, plan.ID, mine.ID)

	// Deleting the plan leaves a dangling reference, reported as no plan.
	require.NoError(t, env.plans.Delete(ctx, plan.ID))
	_, err = env.plans.GetMine(ctx, memberActor(m))
	assert.ErrorIs(t, err, ErrNoWorkoutPlan)

	_, err = env.plans.Members(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrWorkoutPlanNotFound)
}

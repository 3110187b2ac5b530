package service

import (
	"context"
	"math"
	"testing"
	"time"

	"gymdesk/gym-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBMICalculate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMember(t, "Ann", "ann@example.com")

	tests := []struct {
		name     string
		height   float64
		weight   float64
		wantBMI  float64
		wantCat  domain.BMICategory
		wantFail bool
	}{
		{name: "boundary normal", height: 170, weight: 53.465, wantBMI: 18.5, wantCat: domain.BMINormal},
		{name: "underweight", height: 100, weight: 17.99, wantBMI: 17.99, wantCat: domain.BMIUnderweight},
		{name: "just under normal is not rounded up", height: 100, weight: 18.496, wantBMI: 18.496, wantCat: domain.BMIUnderweight},
		{name: "just under obese is not rounded up", height: 100, weight: 29.997, wantBMI: 29.997, wantCat: domain.BMIOverweight},
		{name: "overweight boundary", height: 100, weight: 25, wantBMI: 25, wantCat: domain.BMIOverweight},
		{name: "obese boundary", height: 100, weight: 30, wantBMI: 30, wantCat: domain.BMIObese},
		{name: "zero height", height: 0, weight: 70, wantFail: true},
		{name: "negative weight", height: 170, weight: -1, wantFail: true},
		{name: "NaN", height: math.NaN(), weight: 70, wantFail: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.bmi.Calculate(ctx, memberActor(m), nil, tt.height, tt.weight)
			if tt.wantFail {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantBMI, res.BMI, 1e-9)
			assert.Equal(t, tt.wantCat, res.Category)

			stored, err := env.bmi.Get(ctx, m.Member.ID)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantBMI, stored.BMI, 1e-9)
			assert.Equal(t, tt.height, stored.Height)
		})
	}
}

func TestBMICalculate_InvalidPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMember(t, "Ann", "ann@example.com")

	_, err := env.bmi.Calculate(ctx, memberActor(m), nil, 0, 0)
	require.ErrorIs(t, err, ErrValidation)

	stored, err := env.repos.Members.GetByID(ctx, m.Member.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.BMI)
	assert.Nil(t, stored.Height)
}

func TestBMICalculate_ExplicitMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	m := env.newMember(t, "Ann", "ann@example.com")

	res, err := env.bmi.Calculate(ctx, adminActor, &m.Member.UserID, 180, 75)
	require.NoError(t, err)
	assert.Equal(t, m.Member.ID, res.MemberID)
	assert.InDelta(t, 23.15, res.BMI, 0.005)

	missing := primitive.NewObjectID()
	_, err = env.bmi.Calculate(ctx, adminActor, &missing, 180, 75)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = env.bmi.Get(ctx, missing)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestAttendance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tr := env.newTrainer(t, "Tom", "tom@example.com")
	m := env.newMember(t, "Ann", "ann@example.com")
	start := time.Now()
	sched, err := env.schedules.Create(ctx, memberActor(m), CreateScheduleInput{
		TrainerID: tr.Trainer.ID, StartTime: start, EndTime: start.Add(time.Hour), Title: "PT",
	})
	require.NoError(t, err)

	yes, no := true, false
	_, err = env.attendance.Mark(ctx, memberActor(m), sched.Schedule.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.attendance.Mark(ctx, memberActor(m), primitive.NewObjectID(), &yes)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	_, err = env.attendance.Mark(ctx, memberActor(m), sched.Schedule.ID, &yes)
	require.NoError(t, err)
	rec, err := env.attendance.Mark(ctx, memberActor(m), sched.Schedule.ID, &no)
	require.NoError(t, err, "repeated marks are kept")
	assert.Equal(t, m.Member.ID, rec.MemberID)

	list, err := env.attendance.List(ctx, AttendanceQuery{ScheduleID: sched.Schedule.ID.Hex()})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "PT", list[0].Schedule.Title)
	assert.Equal(t, "Ann", list[0].Member.User.Name)

	_, err = env.attendance.List(ctx, AttendanceQuery{MemberID: "bad"})
	assert.ErrorIs(t, err, ErrValidation)
}

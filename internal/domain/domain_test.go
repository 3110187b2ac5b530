package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"admin", "Trainer", " member "} {
		role, err := ParseRole(raw)
		require.NoError(t, err, raw)
		assert.True(t, role.Valid())
	}

	_, err := ParseRole("client")
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.False(t, Role("superuser").Valid())
}

func TestRoleValid_IsExact(t *testing.T) {
	for _, r := range AllRoles {
		assert.True(t, r.Valid(), r)
	}
	for _, r := range []Role{" Admin ", "ADMIN", "Trainer", "member\n", ""} {
		assert.False(t, r.Valid(), "%q", r)
	}
}

func TestAddSlot(t *testing.T) {
	base := []AvailabilityEntry{{Date: "2025-03-14", Slots: []string{"09:00"}}}

	merged := AddSlot(base, "2025-03-14", "10:00")
	require.Len(t, merged, 1)
	assert.Equal(t, []string{"09:00", "10:00"}, merged[0].Slots)
	assert.Equal(t, []string{"09:00"}, base[0].Slots, "input must not be modified")

	again := AddSlot(merged, "2025-03-14", "10:00")
	assert.Equal(t, []string{"09:00", "10:00"}, again[0].Slots)

	added := AddSlot(base, "2025-03-15", "08:00")
	require.Len(t, added, 2)
	assert.Equal(t, AvailabilityEntry{Date: "2025-03-15", Slots: []string{"08:00"}}, added[1])
}

func TestRemoveSlot(t *testing.T) {
	base := []AvailabilityEntry{
		{Date: "2025-03-14", Slots: []string{"09:00", "10:00"}},
		{Date: "2025-03-15", Slots: []string{"08:00"}},
	}

	out := RemoveSlot(base, "2025-03-14", "09:00")
	require.Len(t, out, 2)
	assert.Equal(t, []string{"10:00"}, out[0].Slots)

	out = RemoveSlot(out, "2025-03-15", "08:00")
	require.Len(t, out, 1)
	assert.Equal(t, "2025-03-14", out[0].Date)

	assert.Len(t, base[0].Slots, 2, "input must not be modified")
}

func TestScheduleFilterMatches(t *testing.T) {
	trainerID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()
	start := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)
	s := &Schedule{TrainerID: trainerID, MemberID: &memberID, StartTime: start, EndTime: start.Add(time.Hour)}

	other := primitive.NewObjectID()
	sameDay := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	nextDay := sameDay.AddDate(0, 0, 1)

	assert.True(t, ScheduleFilter{}.Matches(s))
	assert.True(t, ScheduleFilter{TrainerID: &trainerID, MemberID: &memberID, Date: &sameDay}.Matches(s))
	assert.False(t, ScheduleFilter{TrainerID: &other}.Matches(s))
	assert.False(t, ScheduleFilter{MemberID: &other}.Matches(s))
	assert.False(t, ScheduleFilter{Date: &nextDay}.Matches(s))

	noMember := &Schedule{TrainerID: trainerID, StartTime: start}
	assert.False(t, ScheduleFilter{MemberID: &memberID}.Matches(noMember))
}

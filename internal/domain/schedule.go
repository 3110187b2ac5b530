package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleStatus type for session lifecycle
type ScheduleStatus string

// Sessions are only ever booked; nothing moves them past this status.
const ScheduleStatusScheduled ScheduleStatus = "scheduled"

// Schedule is one booked session between a trainer and, optionally, a member.
// Sessions for the same trainer may overlap; nothing checks them against availability.
type Schedule struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	MemberID  *primitive.ObjectID `bson:"memberId,omitempty" json:"memberId,omitempty"`
	StartTime time.Time           `bson:"startTime" json:"startTime"`
	EndTime   time.Time           `bson:"endTime" json:"endTime"`
	Title     string              `bson:"title" json:"title"`
	Status    ScheduleStatus      `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// ScheduleFilter narrows schedule listings. Date matches the UTC calendar day of StartTime.
type ScheduleFilter struct {
	TrainerID *primitive.ObjectID
	MemberID  *primitive.ObjectID
	Date      *time.Time
}

// DayBounds returns [start, end) of the UTC day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Matches reports whether s satisfies the filter. Used by the in-memory store;
// the mongo store builds the equivalent query document.
func (f ScheduleFilter) Matches(s *Schedule) bool {
	if f.TrainerID != nil && s.TrainerID != *f.TrainerID {
		return false
	}
	if f.MemberID != nil && (s.MemberID == nil || *s.MemberID != *f.MemberID) {
		return false
	}
	if f.Date != nil {
		start, end := DayBounds(*f.Date)
		st := s.StartTime.UTC()
		if st.Before(start) || !st.Before(end) {
			return false
		}
	}
	return true
}

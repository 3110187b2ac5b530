package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance records whether a member attended a scheduled session.
// The same (schedule, member) pair may be marked more than once.
type Attendance struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ScheduleID primitive.ObjectID `bson:"scheduleId" json:"scheduleId"`
	MemberID   primitive.ObjectID `bson:"memberId" json:"memberId"`
	Attended   bool               `bson:"attended" json:"attended"`
	Date       time.Time          `bson:"date" json:"date"`
}

// AttendanceFilter narrows attendance listings. Nil fields are ignored.
type AttendanceFilter struct {
	ScheduleID *primitive.ObjectID
	MemberID   *primitive.ObjectID
}

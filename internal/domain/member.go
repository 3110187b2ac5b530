package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is the gym-member profile attached 1:1 to a User with role member.
type Member struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"userId" json:"userId"`
	TrainerID     *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`         // At most one trainer
	WorkoutPlanID *primitive.ObjectID `bson:"workoutPlanId,omitempty" json:"workoutPlanId,omitempty"` // At most one plan

	// Written only by the BMI calculation.
	Height      *float64 `bson:"height,omitempty" json:"height,omitempty"` // cm
	Weight      *float64 `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	BMI         *float64 `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BMICategory string   `bson:"bmiCategory,omitempty" json:"bmiCategory,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasTrainer reports whether a trainer is currently assigned.
func (m *Member) HasTrainer() bool {
	return m.TrainerID != nil && *m.TrainerID != primitive.NilObjectID
}

// HasWorkoutPlan reports whether a workout plan is currently assigned.
func (m *Member) HasWorkoutPlan() bool {
	return m.WorkoutPlanID != nil && *m.WorkoutPlanID != primitive.NilObjectID
}

// BodyMetrics is the result of a BMI calculation, persisted onto a Member.
type BodyMetrics struct {
	Height   float64
	Weight   float64
	BMI      float64
	Category BMICategory
}

// MemberFilter narrows member listings. Nil fields are ignored.
type MemberFilter struct {
	TrainerID     *primitive.ObjectID
	WorkoutPlanID *primitive.ObjectID
}

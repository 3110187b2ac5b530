// internal/domain/workout_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanExercise is one line of a workout plan.
type PlanExercise struct {
	Name  string `bson:"name" json:"name"`
	Sets  int    `bson:"sets" json:"sets"`
	Reps  int    `bson:"reps" json:"reps"`
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutPlan is a reusable plan. Many members may point at the same plan;
// the plan itself does not keep a list of them.
type WorkoutPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	DurationWeeks *int               `bson:"durationWeeks,omitempty" json:"durationWeeks,omitempty"`
	Exercises     []PlanExercise     `bson:"exercises" json:"exercises"`
	CreatedBy     primitive.ObjectID `bson:"createdBy" json:"createdBy"` // User who created the plan
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

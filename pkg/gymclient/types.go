package gymclient

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type AvailabilityEntry struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type Trainer struct {
	ID           string              `json:"id"`
	UserID       string              `json:"userId"`
	User         *User               `json:"user,omitempty"`
	Availability []AvailabilityEntry `json:"availability"`
}

type Exercise struct {
	Name  string `json:"name"`
	Sets  int    `json:"sets"`
	Reps  int    `json:"reps"`
	Notes string `json:"notes,omitempty"`
}

type WorkoutPlan struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DurationWeeks *int       `json:"durationWeeks,omitempty"`
	Exercises     []Exercise `json:"exercises"`
}

type Member struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	User          *User        `json:"user,omitempty"`
	TrainerID     *string      `json:"trainerId,omitempty"`
	Trainer       *Trainer     `json:"trainer,omitempty"`
	WorkoutPlanID *string      `json:"workoutPlanId,omitempty"`
	WorkoutPlan   *WorkoutPlan `json:"workoutPlan,omitempty"`
	Height        *float64     `json:"height,omitempty"`
	Weight        *float64     `json:"weight,omitempty"`
	BMI           *float64     `json:"bmi,omitempty"`
	BMICategory   string       `json:"bmiCategory,omitempty"`
}

type Schedule struct {
	ID        string    `json:"id"`
	TrainerID string    `json:"trainerId"`
	Trainer   *Trainer  `json:"trainer,omitempty"`
	MemberID  *string   `json:"memberId,omitempty"`
	Member    *Member   `json:"member,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
}

type NewSchedule struct {
	TrainerID string    `json:"trainerId"`
	MemberID  *string   `json:"memberId,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Title     string    `json:"title"`
}

type Attendance struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"scheduleId"`
	MemberID   string    `json:"memberId"`
	Attended   bool      `json:"attended"`
	Date       time.Time `json:"date"`
}

type BMI struct {
	MemberID string  `json:"memberId"`
	Height   float64 `json:"height"`
	Weight   float64 `json:"weight"`
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
}

type BulkItem struct {
	MemberID string `json:"memberId"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

type BulkResult struct {
	Results   []BulkItem `json:"results"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
}

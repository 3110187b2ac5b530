package api

import (
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Avatar    string      `json:"avatar,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type TrainerResponse struct {
	ID           string                     `json:"id"`
	UserID       string                     `json:"userId"`
	User         *UserResponse              `json:"user,omitempty"`
	Availability []domain.AvailabilityEntry `json:"availability"`
	CreatedAt    time.Time                  `json:"createdAt"`
	UpdatedAt    time.Time                  `json:"updatedAt"`
}

type MemberResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"userId"`
	User          *UserResponse        `json:"user,omitempty"`
	TrainerID     *string              `json:"trainerId,omitempty"`
	Trainer       *TrainerResponse     `json:"trainer,omitempty"`
	WorkoutPlanID *string              `json:"workoutPlanId,omitempty"`
	WorkoutPlan   *WorkoutPlanResponse `json:"workoutPlan,omitempty"`
	Height        *float64             `json:"height,omitempty"`
	Weight        *float64             `json:"weight,omitempty"`
	BMI           *float64             `json:"bmi,omitempty"`
	BMICategory   string               `json:"bmiCategory,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type WorkoutPlanResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description,omitempty"`
	DurationWeeks *int                  `json:"durationWeeks,omitempty"`
	Exercises     []domain.PlanExercise `json:"exercises"`
	CreatedBy     string                `json:"createdBy"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

type ScheduleResponse struct {
	ID        string                `json:"id"`
	TrainerID string                `json:"trainerId"`
	Trainer   *TrainerResponse      `json:"trainer,omitempty"`
	MemberID  *string               `json:"memberId,omitempty"`
	Member    *MemberResponse       `json:"member,omitempty"`
	StartTime time.Time             `json:"startTime"`
	EndTime   time.Time             `json:"endTime"`
	Title     string                `json:"title"`
	Status    domain.ScheduleStatus `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
}

type AttendanceResponse struct {
	ID         string            `json:"id"`
	ScheduleID string            `json:"scheduleId"`
	Schedule   *ScheduleResponse `json:"schedule,omitempty"`
	MemberID   string            `json:"memberId"`
	Member     *MemberResponse   `json:"member,omitempty"`
	Attended   bool              `json:"attended"`
	Date       time.Time         `json:"date"`
}

type BMIResponse struct {
	MemberID string             `json:"memberId"`
	Height   float64            `json:"height"`
	Weight   float64            `json:"weight"`
	BMI      float64            `json:"bmi"`
	Category domain.BMICategory `json:"category"`
}

func hexPtr(id *primitive.ObjectID) *string {
	if id == nil || id.IsZero() {
		return nil
	}
	s := id.Hex()
	return &s
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func MapTrainerToResponse(t *service.TrainerDetails) *TrainerResponse {
	if t == nil {
		return nil
	}
	availability := t.Trainer.Availability
	if availability == nil {
		availability = []domain.AvailabilityEntry{}
	}
	return &TrainerResponse{
		ID:           t.Trainer.ID.Hex(),
		UserID:       t.Trainer.UserID.Hex(),
		User:         MapUserToResponse(t.User),
		Availability: availability,
		CreatedAt:    t.Trainer.CreatedAt,
		UpdatedAt:    t.Trainer.UpdatedAt,
	}
}

func MapTrainersToResponse(trainers []service.TrainerDetails) []*TrainerResponse {
	out := make([]*TrainerResponse, 0, len(trainers))
	for i := range trainers {
		out = append(out, MapTrainerToResponse(&trainers[i]))
	}
	return out
}

func MapWorkoutPlanToResponse(plan *domain.WorkoutPlan) *WorkoutPlanResponse {
	if plan == nil {
		return nil
	}
	exercises := plan.Exercises
	if exercises == nil {
		exercises = []domain.PlanExercise{}
	}
	return &WorkoutPlanResponse{
		ID:            plan.ID.Hex(),
		Title:         plan.Title,
		Description:   plan.Description,
		DurationWeeks: plan.DurationWeeks,
		Exercises:     exercises,
		CreatedBy:     plan.CreatedBy.Hex(),
		CreatedAt:     plan.CreatedAt,
		UpdatedAt:     plan.UpdatedAt,
	}
}

func MapWorkoutPlansToResponse(plans []domain.WorkoutPlan) []*WorkoutPlanResponse {
	out := make([]*WorkoutPlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, MapWorkoutPlanToResponse(&plans[i]))
	}
	return out
}

func MapMemberToResponse(m *service.MemberDetails) *MemberResponse {
	if m == nil {
		return nil
	}
	return &MemberResponse{
		ID:            m.Member.ID.Hex(),
		UserID:        m.Member.UserID.Hex(),
		User:          MapUserToResponse(m.User),
		TrainerID:     hexPtr(m.Member.TrainerID),
		Trainer:       MapTrainerToResponse(m.Trainer),
		WorkoutPlanID: hexPtr(m.Member.WorkoutPlanID),
		WorkoutPlan:   MapWorkoutPlanToResponse(m.WorkoutPlan),
		Height:        m.Member.Height,
		Weight:        m.Member.Weight,
		BMI:           m.Member.BMI,
		BMICategory:   m.Member.BMICategory,
		CreatedAt:     m.Member.CreatedAt,
		UpdatedAt:     m.Member.UpdatedAt,
	}
}

func MapMembersToResponse(members []service.MemberDetails) []*MemberResponse {
	out := make([]*MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, MapMemberToResponse(&members[i]))
	}
	return out
}

func mapSchedule(s *domain.Schedule) *ScheduleResponse {
	if s == nil {
		return nil
	}
	return &ScheduleResponse{
		ID:        s.ID.Hex(),
		TrainerID: s.TrainerID.Hex(),
		MemberID:  hexPtr(s.MemberID),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Title:     s.Title,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

func MapScheduleToResponse(s *service.ScheduleDetails) *ScheduleResponse {
	if s == nil {
		return nil
	}
	resp := mapSchedule(&s.Schedule)
	resp.Trainer = MapTrainerToResponse(s.Trainer)
	resp.Member = MapMemberToResponse(s.Member)
	return resp
}

func MapSchedulesToResponse(schedules []service.ScheduleDetails) []*ScheduleResponse {
	out := make([]*ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		out = append(out, MapScheduleToResponse(&schedules[i]))
	}
	return out
}

func MapAttendanceToResponse(a *domain.Attendance) *AttendanceResponse {
	return &AttendanceResponse{
		ID:         a.ID.Hex(),
		ScheduleID: a.ScheduleID.Hex(),
		MemberID:   a.MemberID.Hex(),
		Attended:   a.Attended,
		Date:       a.Date,
	}
}

func MapAttendanceListToResponse(records []service.AttendanceDetails) []*AttendanceResponse {
	out := make([]*AttendanceResponse, 0, len(records))
	for i := range records {
		resp := MapAttendanceToResponse(&records[i].Attendance)
		resp.Schedule = mapSchedule(records[i].Schedule)
		resp.Member = MapMemberToResponse(records[i].Member)
		out = append(out, resp)
	}
	return out
}

func MapBMIToResponse(r *service.BMIResult) BMIResponse {
	return BMIResponse{
		MemberID: r.MemberID.Hex(),
		Height:   r.Height,
		Weight:   r.Weight,
		BMI:      r.BMI,
		Category: r.Category,
	}
}

// Mutations answer with a message next to the entity they produced.

type UserMessage struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}

type MemberMessage struct {
	Message string          `json:"message"`
	Member  *MemberResponse `json:"member"`
}

type TrainerMessage struct {
	Message string           `json:"message"`
	Trainer *TrainerResponse `json:"trainer"`
}

type WorkoutPlanMessage struct {
	Message     string               `json:"message"`
	WorkoutPlan *WorkoutPlanResponse `json:"workoutPlan"`
}

type ScheduleMessage struct {
	Message  string            `json:"message"`
	Schedule *ScheduleResponse `json:"schedule"`
}

type AttendanceMessage struct {
	Message    string              `json:"message"`
	Attendance *AttendanceResponse `json:"attendance"`
}

// BMIMessage keeps bmi and category at the top level.
type BMIMessage struct {
	Message string `json:"message"`
	BMIResponse
}

type BulkAssignResponse struct {
	Message string `json:"message"`
	*service.BulkResult
}

package api

import (
	"errors"
	"net/http"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/metrics"
	"gymdesk/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutPlanHandler struct {
	planService       service.WorkoutPlanService
	assignmentService service.AssignmentService
	metrics           *metrics.Recorder
}

func NewWorkoutPlanHandler(planService service.WorkoutPlanService, assignmentService service.AssignmentService, rec *metrics.Recorder) *WorkoutPlanHandler {
	return &WorkoutPlanHandler{planService: planService, assignmentService: assignmentService, metrics: rec}
}

// --- DTOs ---

type WorkoutPlanRequest struct {
	Title         string                `json:"title" binding:"required"`
	Description   string                `json:"description"`
	DurationWeeks *int                  `json:"durationWeeks"`
	Exercises     []domain.PlanExercise `json:"exercises"`
}

func (r WorkoutPlanRequest) input() service.WorkoutPlanInput {
	return service.WorkoutPlanInput{
		Title:         r.Title,
		Description:   r.Description,
		DurationWeeks: r.DurationWeeks,
		Exercises:     r.Exercises,
	}
}

type AssignPlanToMemberRequest struct {
	MemberID      string `json:"memberId" binding:"required"`
	WorkoutPlanID string `json:"workoutPlanId" binding:"required"`
}

// GET /api/workout-plans
func (h *WorkoutPlanHandler) List(c *gin.Context) {
	plans, err := h.planService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlansToResponse(plans))
}

// GET /api/workout-plans/:id
func (h *WorkoutPlanHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "workout plan id")
	if !ok {
		return
	}
	plan, err := h.planService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlanToResponse(plan))
}

// GET /api/workout-plans/me
func (h *WorkoutPlanHandler) GetMine(c *gin.Context) {
	plan, err := h.planService.GetMine(c.Request.Context(), mustActor(c))
	if errors.Is(err, service.ErrNoWorkoutPlan) {
		// Members without a plan get an empty object, not an error.
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlanToResponse(plan))
}

// POST /api/workout-plans
func (h *WorkoutPlanHandler) Create(c *gin.Context) {
	var req WorkoutPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.planService.Create(c.Request.Context(), mustActor(c), req.input())
	h.metrics.RecordEvent("plan_create", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, WorkoutPlanMessage{Message: "Workout plan created", WorkoutPlan: MapWorkoutPlanToResponse(plan)})
}

// PUT /api/workout-plans/:id
func (h *WorkoutPlanHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "workout plan id")
	if !ok {
		return
	}
	var req WorkoutPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.planService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, WorkoutPlanMessage{Message: "Workout plan updated", WorkoutPlan: MapWorkoutPlanToResponse(plan)})
}

// DELETE /api/workout-plans/:id
func (h *WorkoutPlanHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "workout plan id")
	if !ok {
		return
	}
	if err := h.planService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout plan deleted"})
}

// GET /api/workout-plans/:id/members
func (h *WorkoutPlanHandler) Members(c *gin.Context) {
	id, ok := pathID(c, "id", "workout plan id")
	if !ok {
		return
	}
	members, err := h.planService.Members(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMembersToResponse(members))
}

// Assign sets a member's plan, both ids in the body.
// POST /api/workout-plans/assign
func (h *WorkoutPlanHandler) Assign(c *gin.Context) {
	var req AssignPlanToMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	memberID, err := service.ParseID(req.MemberID, "member id")
	if err != nil {
		respondError(c, err)
		return
	}
	planID, err := service.ParseID(req.WorkoutPlanID, "workout plan id")
	if err != nil {
		respondError(c, err)
		return
	}
	member, err := h.assignmentService.AssignWorkoutPlan(c.Request.Context(), memberID, planID)
	h.metrics.RecordEvent("assign_plan", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MemberMessage{Message: "Workout plan assigned", Member: MapMemberToResponse(member)})
}

// AssignMember points a member at the plan in the path.
// POST /api/workout-plans/:id/assign-member
func (h *WorkoutPlanHandler) AssignMember(c *gin.Context) {
	planID, ok := pathID(c, "id", "workout plan id")
	if !ok {
		return
	}
	var req AssignMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	memberID, err := service.ParseID(req.MemberID, "member id")
	if err != nil {
		respondError(c, err)
		return
	}
	member, err := h.assignmentService.AssignMemberToPlan(c.Request.Context(), planID, memberID)
	h.metrics.RecordEvent("assign_plan", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MemberMessage{Message: "Workout plan assigned", Member: MapMemberToResponse(member)})
}

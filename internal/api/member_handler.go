package api

import (
	"net/http"
	"strings"

	"gymdesk/gym-app/internal/metrics"
	"gymdesk/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemberHandler struct {
	memberService     service.MemberService
	assignmentService service.AssignmentService
	metrics           *metrics.Recorder
}

func NewMemberHandler(memberService service.MemberService, assignmentService service.AssignmentService, rec *metrics.Recorder) *MemberHandler {
	return &MemberHandler{memberService: memberService, assignmentService: assignmentService, metrics: rec}
}

// --- DTOs ---

type CreateMemberRequest struct {
	Name          string  `json:"name" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	Password      string  `json:"password" binding:"required"`
	TrainerID     *string `json:"trainerId"`
	WorkoutPlanID *string `json:"workoutPlanId"`
}

// UpdateMemberRequest also accepts the assignedTrainer/workoutPlan names
// older admin screens send.
type UpdateMemberRequest struct {
	TrainerID       *string `json:"trainerId"`
	WorkoutPlanID   *string `json:"workoutPlanId"`
	AssignedTrainer *string `json:"assignedTrainer"`
	WorkoutPlan     *string `json:"workoutPlan"`
}

func (r UpdateMemberRequest) trainer() *string {
	if r.TrainerID != nil {
		return r.TrainerID
	}
	return r.AssignedTrainer
}

func (r UpdateMemberRequest) plan() *string {
	if r.WorkoutPlanID != nil {
		return r.WorkoutPlanID
	}
	return r.WorkoutPlan
}

type AssignTrainerRequest struct {
	TrainerID string `json:"trainerId" binding:"required"`
}

// AssignPlanRequest takes the plan as workoutPlanId or planId.
type AssignPlanRequest struct {
	WorkoutPlanID string `json:"workoutPlanId"`
	PlanID        string `json:"planId"`
}

func (r AssignPlanRequest) plan() string {
	return firstNonEmpty(r.WorkoutPlanID, r.PlanID)
}

type BulkAssignTrainerRequest struct {
	MemberIDs []string `json:"memberIds" binding:"required"`
	TrainerID string   `json:"trainerId" binding:"required"`
}

type BulkAssignPlanRequest struct {
	MemberIDs     []string `json:"memberIds" binding:"required"`
	WorkoutPlanID string   `json:"workoutPlanId"`
	PlanID        string   `json:"planId"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// optionalID parses an id that may be omitted or empty.
func optionalID(raw *string, field string) (*primitive.ObjectID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := service.ParseID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// GET /api/members
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.memberService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMembersToResponse(members))
}

// GET /api/members/me
func (h *MemberHandler) GetMine(c *gin.Context) {
	member, err := h.memberService.GetMine(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// GET /api/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "member id")
	if !ok {
		return
	}
	member, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// GET /api/members/trainer/:trainerId
func (h *MemberHandler) ListByTrainer(c *gin.Context) {
	trainerID, ok := pathID(c, "trainerId", "trainer id")
	if !ok {
		return
	}
	members, err := h.memberService.ListByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMembersToResponse(members))
}

// Create adds a member together with its login.
// POST /api/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req CreateMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	trainerID, err := optionalID(req.TrainerID, "trainer id")
	if err != nil {
		respondError(c, err)
		return
	}
	planID, err := optionalID(req.WorkoutPlanID, "workout plan id")
	if err != nil {
		respondError(c, err)
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), service.CreateMemberInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		TrainerID:     trainerID,
		WorkoutPlanID: planID,
	})
	h.metrics.RecordEvent("member_create", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MemberMessage{Message: "Member created", Member: MapMemberToResponse(member)})
}

// Update applies whichever assignments are supplied.
// PUT /api/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "member id")
	if !ok {
		return
	}
	var req UpdateMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	trainerID, err := optionalID(req.trainer(), "trainer id")
	if err != nil {
		respondError(c, err)
		return
	}
	planID, err := optionalID(req.plan(), "workout plan id")
	if err != nil {
		respondError(c, err)
		return
	}

	member, err := h.assignmentService.UpdateMemberAssignments(c.Request.Context(), id, trainerID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MemberMessage{Message: "Member updated", Member: MapMemberToResponse(member)})
}

// Delete removes the member and then its user.
// DELETE /api/members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "member id")
	if !ok {
		return
	}
	err := h.memberService.Delete(c.Request.Context(), id)
	h.metrics.RecordEvent("member_delete", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

// POST /api/members/:id/assign-trainer
func (h *MemberHandler) AssignTrainer(c *gin.Context) {
	id, ok := pathID(c, "id", "member id")
	if !ok {
		return
	}
	var req AssignTrainerRequest
	if !bindJSON(c, &req) {
		return
	}
	trainerID, err := service.ParseID(req.TrainerID, "trainer id")
	if err != nil {
		respondError(c, err)
		return
	}
	member, err := h.assignmentService.AssignTrainer(c.Request.Context(), id, trainerID)
	h.metrics.RecordEvent("assign_trainer", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MemberMessage{Message: "Trainer assigned", Member: MapMemberToResponse(member)})
}

// POST /api/members/:id/assign-plan
func (h *MemberHandler) AssignWorkoutPlan(c *gin.Context) {
	id, ok := pathID(c, "id", "member id")
	if !ok {
		return
	}
	var req AssignPlanRequest
	if !bindJSON(c, &req) || !requireField(c, req.plan(), "workoutPlanId") {
		return
	}
	planID, err := service.ParseID(req.plan(), "workout plan id")
	if err != nil {
		respondError(c, err)
		return
	}
	member, err := h.assignmentService.AssignWorkoutPlan(c.Request.Context(), id, planID)
	h.metrics.RecordEvent("assign_plan", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MemberMessage{Message: "Workout plan assigned", Member: MapMemberToResponse(member)})
}

// BulkAssignTrainer answers 200 with per-member results even when some fail.
// POST /api/assignments/trainer
func (h *MemberHandler) BulkAssignTrainer(c *gin.Context) {
	var req BulkAssignTrainerRequest
	if !bindJSON(c, &req) {
		return
	}
	trainerID, err := service.ParseID(req.TrainerID, "trainer id")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assignmentService.BulkAssignTrainer(c.Request.Context(), req.MemberIDs, trainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.RecordEvent("bulk_assign_trainer", result.Failed == 0)
	c.JSON(http.StatusOK, BulkAssignResponse{Message: "Trainer assignment finished", BulkResult: result})
}

// POST /api/assignments/plan
func (h *MemberHandler) BulkAssignWorkoutPlan(c *gin.Context) {
	var req BulkAssignPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan := firstNonEmpty(req.WorkoutPlanID, req.PlanID)
	if !requireField(c, plan, "workoutPlanId") {
		return
	}
	planID, err := service.ParseID(plan, "workout plan id")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assignmentService.BulkAssignWorkoutPlan(c.Request.Context(), req.MemberIDs, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.RecordEvent("bulk_assign_plan", result.Failed == 0)
	c.JSON(http.StatusOK, BulkAssignResponse{Message: "Workout plan assignment finished", BulkResult: result})
}

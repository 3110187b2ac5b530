package api

import (
	"context"
	"net/http"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/metrics"
	"gymdesk/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerHandler struct {
	trainerService    service.TrainerService
	assignmentService service.AssignmentService
	metrics           *metrics.Recorder
}

func NewTrainerHandler(trainerService service.TrainerService, assignmentService service.AssignmentService, rec *metrics.Recorder) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService, assignmentService: assignmentService, metrics: rec}
}

// --- DTOs ---

type CreateTrainerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AvailabilityRequest replaces the whole availability list. Entries are
// stored exactly as sent.
type AvailabilityRequest struct {
	Availability []domain.AvailabilityEntry `json:"availability" binding:"required"`
}

type SlotRequest struct {
	Date string `json:"date" binding:"required"`
	Slot string `json:"slot" binding:"required"`
}

type AssignMemberRequest struct {
	MemberID string `json:"memberId" binding:"required"`
}

// GET /api/trainers
func (h *TrainerHandler) List(c *gin.Context) {
	trainers, err := h.trainerService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainersToResponse(trainers))
}

// GET /api/trainers/me
func (h *TrainerHandler) GetMine(c *gin.Context) {
	trainer, err := h.trainerService.GetMine(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}

// GET /api/trainers/members
func (h *TrainerHandler) MyMembers(c *gin.Context) {
	members, err := h.trainerService.MyMembers(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMembersToResponse(members))
}

// GET /api/trainers/:id
func (h *TrainerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "trainer id")
	if !ok {
		return
	}
	trainer, err := h.trainerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}

// POST /api/trainers
func (h *TrainerHandler) Create(c *gin.Context) {
	var req CreateTrainerRequest
	if !bindJSON(c, &req) {
		return
	}
	trainer, err := h.trainerService.Create(c.Request.Context(), service.CreateTrainerInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	h.metrics.RecordEvent("trainer_create", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, TrainerMessage{Message: "Trainer created", Trainer: MapTrainerToResponse(trainer)})
}

// DELETE /api/trainers/:id
func (h *TrainerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "trainer id")
	if !ok {
		return
	}
	if err := h.trainerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trainer deleted"})
}

// UpdateOwnAvailability replaces the caller's availability.
// PUT /api/trainers/availability
func (h *TrainerHandler) UpdateOwnAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	trainer, err := h.trainerService.ReplaceOwnAvailability(c.Request.Context(), mustActor(c), req.Availability)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TrainerMessage{Message: "Availability updated", Trainer: MapTrainerToResponse(trainer)})
}

// UpdateAvailability replaces the availability of the trainer in the path.
// PUT /api/trainers/:id
func (h *TrainerHandler) UpdateAvailability(c *gin.Context) {
	id, ok := pathID(c, "id", "trainer id")
	if !ok {
		return
	}
	var req AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	trainer, err := h.trainerService.ReplaceAvailability(c.Request.Context(), mustActor(c), id, req.Availability)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TrainerMessage{Message: "Availability updated", Trainer: MapTrainerToResponse(trainer)})
}

// POST /api/trainers/:id/availability/slots
func (h *TrainerHandler) AddSlot(c *gin.Context) {
	h.changeSlot(c, h.trainerService.AddAvailabilitySlot)
}

// DELETE /api/trainers/:id/availability/slots
func (h *TrainerHandler) RemoveSlot(c *gin.Context) {
	h.changeSlot(c, h.trainerService.RemoveAvailabilitySlot)
}

type slotChange func(ctx context.Context, actor service.Actor, trainerID primitive.ObjectID, date, slot string) (*service.TrainerDetails, error)

func (h *TrainerHandler) changeSlot(c *gin.Context, change slotChange) {
	id, ok := pathID(c, "id", "trainer id")
	if !ok {
		return
	}
	var req SlotRequest
	if !bindJSON(c, &req) {
		return
	}
	trainer, err := change(c.Request.Context(), mustActor(c), id, req.Date, req.Slot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TrainerMessage{Message: "Availability updated", Trainer: MapTrainerToResponse(trainer)})
}

// AssignMember points a member at the trainer in the path.
// POST /api/trainers/:id/assign-member
func (h *TrainerHandler) AssignMember(c *gin.Context) {
	trainerID, ok := pathID(c, "id", "trainer id")
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
	member, err := h.assignmentService.AssignMemberToTrainer(c.Request.Context(), trainerID, memberID)
	h.metrics.RecordEvent("assign_trainer", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MemberMessage{Message: "Trainer assigned", Member: MapMemberToResponse(member)})
}

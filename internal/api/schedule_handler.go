package api

import (
	"net/http"
	"time"

	"gymdesk/gym-app/internal/metrics"
	"gymdesk/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	scheduleService   service.ScheduleService
	attendanceService service.AttendanceService
	metrics           *metrics.Recorder
}

func NewScheduleHandler(scheduleService service.ScheduleService, attendanceService service.AttendanceService, rec *metrics.Recorder) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, attendanceService: attendanceService, metrics: rec}
}

// --- DTOs ---

// CreateScheduleRequest leaves presence checks to the service so a missing
// field is reported with one message.
type CreateScheduleRequest struct {
	TrainerID string    `json:"trainerId"`
	MemberID  *string   `json:"memberId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Title     string    `json:"title"`
}

type MarkAttendanceRequest struct {
	ScheduleID string `json:"scheduleId"`
	Attended   *bool  `json:"attended"`
}

// POST /api/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	in := service.CreateScheduleInput{StartTime: req.StartTime, EndTime: req.EndTime, Title: req.Title}
	if req.TrainerID != "" {
		id, err := service.ParseID(req.TrainerID, "trainer id")
		if err != nil {
			respondError(c, err)
			return
		}
		in.TrainerID = id
	}
	memberID, err := optionalID(req.MemberID, "member id")
	if err != nil {
		respondError(c, err)
		return
	}
	in.MemberID = memberID

	schedule, err := h.scheduleService.Create(c.Request.Context(), mustActor(c), in)
	h.metrics.RecordEvent("schedule_create", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ScheduleMessage{Message: "Schedule created", Schedule: MapScheduleToResponse(schedule)})
}

// List accepts optional trainerId, memberId and date (YYYY-MM-DD) filters.
// GET /api/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	schedules, err := h.scheduleService.List(c.Request.Context(), service.ScheduleQuery{
		TrainerID: c.Query("trainerId"),
		MemberID:  c.Query("memberId"),
		Date:      c.Query("date"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSchedulesToResponse(schedules))
}

// GET /api/schedules/me
func (h *ScheduleHandler) ListMine(c *gin.Context) {
	schedules, err := h.scheduleService.ListMine(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSchedulesToResponse(schedules))
}

// GET /api/schedules/trainer
func (h *ScheduleHandler) ListForTrainer(c *gin.Context) {
	schedules, err := h.scheduleService.ListForTrainer(c.Request.Context(), mustActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSchedulesToResponse(schedules))
}

// DELETE /api/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "schedule id")
	if !ok {
		return
	}
	if err := h.scheduleService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}

// POST /api/attendance
func (h *ScheduleHandler) MarkAttendance(c *gin.Context) {
	var req MarkAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ScheduleID == "" {
		abortWithError(c, http.StatusBadRequest, "scheduleId is required")
		return
	}
	scheduleID, err := service.ParseID(req.ScheduleID, "schedule id")
	if err != nil {
		respondError(c, err)
		return
	}
	record, err := h.attendanceService.Mark(c.Request.Context(), mustActor(c), scheduleID, req.Attended)
	h.metrics.RecordEvent("attendance_mark", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AttendanceMessage{Message: "Attendance marked", Attendance: MapAttendanceToResponse(record)})
}

// GET /api/attendance
func (h *ScheduleHandler) ListAttendance(c *gin.Context) {
	records, err := h.attendanceService.List(c.Request.Context(), service.AttendanceQuery{
		ScheduleID: c.Query("scheduleId"),
		MemberID:   c.Query("memberId"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapAttendanceListToResponse(records))
}

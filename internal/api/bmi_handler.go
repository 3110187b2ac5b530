package api

import (
	"net/http"

	"gymdesk/gym-app/internal/metrics"
	"gymdesk/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

type BMIHandler struct {
	bmiService service.BMIService
	metrics    *metrics.Recorder
}

func NewBMIHandler(bmiService service.BMIService, rec *metrics.Recorder) *BMIHandler {
	return &BMIHandler{bmiService: bmiService, metrics: rec}
}

// CalculateBMIRequest: missing height or weight decode as zero and are
// rejected by the calculation.
type CalculateBMIRequest struct {
	MemberID *string `json:"memberId"`
	Height   float64 `json:"height"` // cm
	Weight   float64 `json:"weight"` // kg
}

// Calculate stores BMI on the requested member, or on the caller's own
// record when memberId is omitted.
// POST /api/BMI/calculate
func (h *BMIHandler) Calculate(c *gin.Context) {
	var req CalculateBMIRequest
	if !bindJSON(c, &req) {
		return
	}
	memberID, err := optionalID(req.MemberID, "member id")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.bmiService.Calculate(c.Request.Context(), mustActor(c), memberID, req.Height, req.Weight)
	h.metrics.RecordEvent("bmi_calculate", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, BMIMessage{Message: "BMI calculated", BMIResponse: MapBMIToResponse(result)})
}

// GET /api/BMI/:id
func (h *BMIHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "member id")
	if !ok {
		return
	}
	result, err := h.bmiService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapBMIToResponse(result))
}

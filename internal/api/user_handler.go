package api

import (
	"net/http"
	"time"

	"gymdesk/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Avatar   *string `json:"avatar"`
	Password *string `json:"password"`
}

type AvatarUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type AvatarUploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	AvatarURL string    `json:"avatarUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), mustActor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), mustActor(c).UserID, service.ProfileUpdate{
		Name:     req.Name,
		Avatar:   req.Avatar,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserMessage{Message: "Profile updated", User: MapUserToResponse(user)})
}

// AvatarUploadURL returns a presigned PUT URL for a new avatar image.
// POST /api/user/avatar/upload-url
func (h *UserHandler) AvatarUploadURL(c *gin.Context) {
	var req AvatarUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	upload, err := h.userService.AvatarUploadURL(c.Request.Context(), mustActor(c).UserID, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AvatarUploadResponse{
		UploadURL: upload.UploadURL,
		ObjectKey: upload.ObjectKey,
		AvatarURL: upload.AvatarURL,
		ExpiresAt: upload.ExpiresAt,
	})
}

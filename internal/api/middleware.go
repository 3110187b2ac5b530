package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"gymdesk/gym-app/internal/authz"
	"gymdesk/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
	contextClaimsKey   = "tokenClaims"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
// Verification, including revocation, is delegated to the auth service.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "No token provided")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		claims, err := authService.VerifyToken(c.Request.Context(), parts[1])
		if errors.Is(err, service.ErrUnauthenticated) {
			abortWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		if err != nil {
			// Revocation store unreachable; the token may still be good.
			respondError(c, err)
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Set(contextClaimsKey, claims)
		c.Next()
	}
}

// RoleMiddleware checks the caller's role against the policy for op.
// Must run AFTER AuthMiddleware.
func RoleMiddleware(op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		if !authz.Allowed(op, actor.Role) {
			slog.InfoContext(c.Request.Context(), "access_denied",
				"operation", string(op), "role", actor.Role.String(), "user_id", actor.UserID.Hex())
			abortWithError(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http_request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// Recovery answers panics with the generic server error body.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic_recovered",
			"panic", recovered, "path", c.Request.URL.Path)
		abortWithError(c, http.StatusInternalServerError, "Server error")
	})
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"message": message})
}

// respondError maps a service error to its status code. Errors outside the
// known kinds are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	var partial *service.PartialDeleteError
	switch {
	case errors.As(err, &partial):
		abortWithError(c, http.StatusInternalServerError, partial.Error())
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "request_failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusInternalServerError, "Server error")
	}
}

// actorFromContext returns the identity AuthMiddleware attached.
func actorFromContext(c *gin.Context) (service.Actor, bool) {
	raw, exists := c.Get(contextClaimsKey)
	if !exists {
		return service.Actor{}, false
	}
	claims, ok := raw.(*service.TokenClaims)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: claims.UserID, Role: claims.Role}, true
}

// mustActor is for handlers mounted behind AuthMiddleware.
func mustActor(c *gin.Context) service.Actor {
	actor, _ := actorFromContext(c)
	return actor
}

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+bindingMessage(err))
		return false
	}
	return true
}

// bindingMessage turns a binding failure into text that names JSON fields
// rather than Go types.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, ", ")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field + " has the wrong type"
	}
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	return "malformed JSON body"
}

var jsonNamesOnce sync.Once

// useJSONFieldNames makes gin's validator report fields by their JSON name.
func useJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// requireField answers 400 when a value bound without a binding tag is empty.
func requireField(c *gin.Context, value, field string) bool {
	if strings.TrimSpace(value) == "" {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+field+" is required")
		return false
	}
	return true
}

// pathID parses an ObjectID path parameter and answers 400 when malformed.
func pathID(c *gin.Context, param, field string) (primitive.ObjectID, bool) {
	id, err := service.ParseID(c.Param(param), field)
	if err != nil {
		respondError(c, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

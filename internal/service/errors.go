package service

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Kinds ---
// Every error a service returns on purpose wraps exactly one of these.
// Anything else is an unexpected failure.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("unavailable")
)

// kindError carries a client-facing message and the kind it belongs to.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func validationError(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

// --- Error Definitions ---
var (
	ErrUserNotFound        = newError(ErrNotFound, "User not found")
	ErrMemberNotFound      = newError(ErrNotFound, "Member not found")
	ErrTrainerNotFound     = newError(ErrNotFound, "Trainer not found")
	ErrWorkoutPlanNotFound = newError(ErrNotFound, "Workout plan not found")
	ErrNoWorkoutPlan       = newError(ErrNotFound, "No workout plan assigned")
	ErrScheduleNotFound    = newError(ErrNotFound, "Schedule not found")

	ErrEmailExists         = newError(ErrConflict, "Email already exists")
	ErrInvalidCredentials  = newError(ErrUnauthenticated, "Invalid credentials")
	ErrInvalidToken        = newError(ErrUnauthenticated, "Invalid token")
	ErrAccessDenied        = newError(ErrForbidden, "Access denied")
	ErrAdminSignupDisabled = newError(ErrForbidden, "Admin registration is disabled")
	ErrUploadsDisabled     = newError(ErrUnavailable, "Avatar uploads are not configured")

	// ErrPartialDelete reports a cascade that removed the member record
	// but could not remove its user.
	ErrPartialDelete = errors.New("partial delete")
)

// PartialDeleteError names the user left behind by a failed cascade.
type PartialDeleteError struct {
	MemberID primitive.ObjectID
	UserID   primitive.ObjectID
	Err      error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("Member %s deleted but user %s could not be removed", e.MemberID.Hex(), e.UserID.Hex())
}

func (e *PartialDeleteError) Unwrap() []error { return []error{ErrPartialDelete, e.Err} }

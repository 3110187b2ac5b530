package domain

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleMember  Role = "member"
)

// ErrUnknownRole is returned by ParseRole for anything outside the closed role set.
var ErrUnknownRole = errors.New("unknown role")

// AllRoles lists every role the system knows about.
var AllRoles = []Role{RoleAdmin, RoleTrainer, RoleMember}

// ParseRole converts a raw role string (as found in requests or tokens) into a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleTrainer:
		return RoleTrainer, nil
	case RoleMember:
		return RoleMember, nil
	}
	return "", ErrUnknownRole
}

// Valid reports whether r is exactly one of the known roles. Raw input
// goes through ParseRole first.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTrainer || r == RoleMember
}

func (r Role) String() string {
	return string(r)
}

// User is the login identity. Members and trainers point back at it by userId.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique index
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`      // Not changed after creation
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserUpdate carries the optional profile fields a user may change about themselves.
// Nil means "leave as is".
type UserUpdate struct {
	Name         *string
	Avatar       *string
	PasswordHash *string
}

// Empty reports whether the update would not touch any field.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Avatar == nil && u.PasswordHash == nil
}

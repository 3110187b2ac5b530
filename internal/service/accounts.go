package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/notify"
	"gymdesk/gym-app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// account is a freshly created login together with its role profile.
type account struct {
	User    *domain.User
	Member  *domain.Member
	Trainer *domain.Trainer
}

// accountCreator creates a user and the matching member or trainer record.
// Shared by registration and the admin create-member/create-trainer screens.
type accountCreator struct {
	repos    repository.Repositories
	notifier notify.Notifier
}

func (a accountCreator) create(ctx context.Context, name, email, password string, role domain.Role) (*account, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, validationError("Invalid role")
	}

	_, err := a.repos.Users.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if _, err = a.repos.Users.Create(ctx, user); err != nil {
		// Lost the race against a concurrent registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	acc := &account{User: user}
	switch role {
	case domain.RoleMember:
		acc.Member = &domain.Member{UserID: user.ID}
		_, err = a.repos.Members.Create(ctx, acc.Member)
	case domain.RoleTrainer:
		acc.Trainer = &domain.Trainer{UserID: user.ID}
		_, err = a.repos.Trainers.Create(ctx, acc.Trainer)
	}
	if err != nil {
		if delErr := a.repos.Users.Delete(ctx, user.ID); delErr != nil {
			slog.ErrorContext(ctx, "failed to remove user after profile creation failed",
				"user_id", user.ID.Hex(), "error", delErr)
		}
		return nil, err
	}

	user.PasswordHash = ""
	a.welcome(ctx, user)
	return acc, nil
}

// welcome is best effort; a failed email never fails the request.
func (a accountCreator) welcome(ctx context.Context, user *domain.User) {
	if a.notifier == nil {
		return
	}
	err := a.notifier.Welcome(ctx, notify.Recipient{Name: user.Name, Email: user.Email, Role: user.Role.String()})
	if err != nil {
		slog.WarnContext(ctx, "welcome email failed", "user_id", user.ID.Hex(), "error", err)
	}
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/repository"
	"gymdesk/gym-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// ProfileUpdate holds the fields a user may change on their own profile.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Name     *string
	Avatar   *string
	Password *string
}

// AvatarUpload describes where the client should PUT the image and the
// avatar URL to save on the profile once the upload completes.
type AvatarUpload struct {
	UploadURL string
	ObjectKey string
	AvatarURL string
	ExpiresAt time.Time
}

type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error)
	AvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error)
}

type userService struct {
	users         repository.UserRepository
	files         storage.FileStorage // nil when uploads are not configured
	presignExpiry time.Duration
}

func NewUserService(users repository.UserRepository, files storage.FileStorage, presignExpiry time.Duration) UserService {
	if presignExpiry <= 0 {
		presignExpiry = storage.DefaultPresignedURLExpiry
	}
	return &userService{users: users, files: files, presignExpiry: presignExpiry}
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error) {
	var change domain.UserUpdate

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		change.Name = &name
	}
	if update.Avatar != nil {
		avatar := strings.TrimSpace(*update.Avatar)
		if validate.Var(avatar, "required,http_url") != nil {
			return nil, validationError("Avatar must be a valid URL")
		}
		change.Avatar = &avatar
	}
	if update.Password != nil {
		if err := validatePassword(*update.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		change.PasswordHash = &hashStr
	}

	if change.Empty() {
		return s.GetProfile(ctx, userID)
	}

	var previousAvatar string
	if change.Avatar != nil && s.files != nil {
		current, err := s.GetProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		previousAvatar = current.Avatar
	}

	user, err := s.users.Update(ctx, userID, change)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""

	if previousAvatar != "" && previousAvatar != user.Avatar {
		s.removeAvatar(ctx, userID, previousAvatar)
	}
	return user, nil
}

// removeAvatar deletes a replaced avatar when it lives in our bucket.
// The profile is already saved, so failures are only logged.
func (s *userService) removeAvatar(ctx context.Context, userID primitive.ObjectID, avatarURL string) {
	key, ok := storage.AvatarKeyFromURL(s.files, userID.Hex(), avatarURL)
	if !ok {
		return
	}
	if err := s.files.DeleteObject(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to remove replaced avatar", "user_id", userID.Hex(), "key", key, "error", err)
	}
}

func (s *userService) AvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error) {
	if s.files == nil {
		return nil, ErrUploadsDisabled
	}
	key, err := storage.AvatarObjectKey(userID.Hex(), contentType)
	if err != nil {
		return nil, validationError("Avatar must be a JPEG, PNG, WebP or GIF image")
	}
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, key, strings.ToLower(contentType), s.presignExpiry)
	if err != nil {
		return nil, err
	}
	return &AvatarUpload{
		UploadURL: uploadURL,
		ObjectKey: key,
		AvatarURL: s.files.ObjectURL(key),
		ExpiresAt: time.Now().Add(s.presignExpiry),
	}, nil
}

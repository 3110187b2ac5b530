package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gymdesk/gym-app/internal/domain"
	"gymdesk/gym-app/internal/notify"
	"gymdesk/gym-app/internal/repository"
	"gymdesk/gym-app/internal/revocation"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "gym-app"

// RegisterInput is a self-service registration. Role defaults to member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// TokenClaims is the verified identity carried by an access token.
type TokenClaims struct {
	UserID    primitive.ObjectID
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// AuthConfig configures token issuing and registration rules.
type AuthConfig struct {
	JWTSecret        string
	JWTExpiration    time.Duration
	AllowAdminSignup bool
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyToken(ctx context.Context, token string) (*TokenClaims, error)
	Logout(ctx context.Context, claims *TokenClaims) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	// EnsureAdmin creates an admin account unless one with that email exists.
	EnsureAdmin(ctx context.Context, name, email, password string) (created bool, err error)
}

// authService implements the AuthService interface.
type authService struct {
	repos    repository.Repositories
	accounts accountCreator
	revoked  revocation.Store
	notifier notify.Notifier
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(repos repository.Repositories, revoked revocation.Store, notifier notify.Notifier, cfg AuthConfig) AuthService {
	if cfg.JWTSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if cfg.JWTExpiration <= 0 {
		cfg.JWTExpiration = time.Hour
	}
	return &authService{
		repos:    repos,
		accounts: accountCreator{repos: repos, notifier: notifier},
		revoked:  revoked,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	role := domain.RoleMember
	if in.Role != "" {
		parsed, err := domain.ParseRole(in.Role)
		if err != nil {
			return nil, validationError("Invalid role")
		}
		role = parsed
	}
	if role == domain.RoleAdmin && !s.cfg.AllowAdminSignup {
		return nil, ErrAdminSignupDisabled
	}

	acc, err := s.accounts.create(ctx, in.Name, in.Email, in.Password, role)
	if err != nil {
		return nil, err
	}
	return acc.User, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationError("Email and password are required")
	}

	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	user.PasswordHash = ""
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// VerifyToken checks signature, expiry and revocation.
func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims := &jwtClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, err := domain.ParseRole(string(claims.Role))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	out := &TokenClaims{UserID: userID, Role: role, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *TokenClaims) error {
	if claims == nil || claims.TokenID == "" || s.revoked == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Sub(s.now()))
}

// ResetPassword sets a new password for the account with the given email.
func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	if _, err = s.repos.Users.Update(ctx, user.ID, domain.UserUpdate{PasswordHash: &hashStr}); err != nil {
		return err
	}

	if s.notifier != nil {
		recipient := notify.Recipient{Name: user.Name, Email: user.Email, Role: user.Role.String()}
		if err := s.notifier.PasswordChanged(ctx, recipient); err != nil {
			slog.WarnContext(ctx, "password changed email failed", "user_id", user.ID.Hex(), "error", err)
		}
	}
	return nil
}

func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.repos.Users.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if _, err = s.accounts.create(ctx, name, email, password, domain.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(s.cfg.JWTExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signedToken, expirationTime, nil
}

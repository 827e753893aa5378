package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/repositories"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/auth"
)

// LoginResult is a freshly issued session token
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
}

// AuthService handles admin login sessions
type AuthService struct {
	adminRepo   repositories.AdminRepository
	sessionRepo repositories.SessionRepository
	jwtService  *auth.JWTService
	bcryptCost  int
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	adminRepo repositories.AdminRepository,
	sessionRepo repositories.SessionRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
		bcryptCost:  auth.BcryptCost,
		logger:      logger,
		now:         time.Now,
	}
}

// WithBcryptCost overrides the hashing cost used for new admin passwords
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// Login checks the credentials and opens a new session.
// Unknown usernames and wrong passwords both yield apperrors.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			s.logger.Warn().Str("username", username).Msg("Login attempt for unknown admin")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading admin: %w", err)
	}

	if !auth.CheckPassword(admin.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		Username:  admin.Username,
		ExpiresAt: now.Add(s.jwtService.SessionTTL()),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	token, err := s.jwtService.GenerateSessionToken(session.ID, admin.ID, admin.Username, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", admin.Username).Str("sessionID", session.ID).Msg("Admin logged in")
	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt, Username: admin.Username}, nil
}

// Authenticate verifies a session token and returns the live session it names
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	if session.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if !session.Active(s.now()) {
		return nil, apperrors.ErrTokenExpired
	}
	return session, nil
}

// Logout revokes a session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Revoke(ctx, sessionID); err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return apperrors.ErrTokenInvalid
		}
		return fmt.Errorf("error revoking session: %w", err)
	}
	s.logger.Info().Str("sessionID", sessionID).Msg("Admin logged out")
	return nil
}

// CreateAdmin adds a new admin account
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperrors.ErrValidationFailed)
	}

	hash, err := auth.HashPasswordWithCost(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrAdminAlreadyExists) {
			return nil, apperrors.ErrAdminAlreadyExists
		}
		return nil, fmt.Errorf("error creating admin: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("Admin account created")
	return admin, nil
}

// EnsureAdmin creates the admin account unless one with that username already exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrAdminNotFound) {
		return false, fmt.Errorf("error loading admin: %w", err)
	}

	if _, err := s.CreateAdmin(ctx, username, password); err != nil {
		if errors.Is(err, apperrors.ErrAdminAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CleanupSessions deletes expired sessions
func (s *AuthService) CleanupSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"church_roster/internal/common"
	"church_roster/internal/common/security"
	"church_roster/internal/domain/model"
	"church_roster/internal/domain/repository"
	"church_roster/internal/platform/metrics"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	adminRepo   repository.AdminRepository
	sessionRepo repository.SessionRepository
	sessionTTL  time.Duration
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewAuthService(adminRepo repository.AdminRepository, sessionRepo repository.SessionRepository, sessionTTL time.Duration, m *metrics.Metrics) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		metrics:     m,
		now:         time.Now,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return common.NewValidationError("Username and password are required")
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return common.NewValidationError("Password must be at most 72 bytes")
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.Admin{
		Username:       req.Username,
		HashedPassword: hashedPassword,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		// Repo returns common.ErrDuplicateIdentity on a username collision
		s.metrics.Registration("failure")
		return fmt.Errorf("failed to create admin: %w", err)
	}
	s.metrics.Registration("success")
	return nil
}

// Login verifies the credentials and opens a new session for the admin.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*model.Session, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrAdminNotFound) {
			s.metrics.LoginAttempt("unknown_user")
			return nil, err
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, admin.HashedPassword) {
		s.metrics.LoginAttempt("invalid_password")
		return nil, common.ErrInvalidCredential
	}

	now := s.now()
	session := &model.Session{
		ID:        uuid.NewString(),
		Username:  admin.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	s.metrics.LoginAttempt("success")
	return session, nil
}

// CurrentSession resolves a live session by id. Unknown and expired ids
// yield common.ErrUnauthorized.
func (s *AuthService) CurrentSession(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessionRepo.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, common.ErrUnauthorized
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

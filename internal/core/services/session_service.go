package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/paintworks/pw_backend/internal/apperrors"
	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/core/policy"
	portssvc "github.com/paintworks/pw_backend/internal/core/ports/services"
	"github.com/paintworks/pw_backend/internal/platform/config"
	"github.com/paintworks/pw_backend/internal/utils"
)

// phoneSession is one pending SMS confirmation.
type phoneSession struct {
	Phone    string
	Code     string
	Attempts int
}

// sessionService keeps the per-session state that does not belong in the
// database: pending phone confirmations and the role a dual-role user picked.
// Both stores are TTL caches; a restart simply forces the flows to start over.
type sessionService struct {
	cfg         *config.Config
	userService portssvc.UserReaderSvc

	phoneSessions *gocache.Cache
	roleChoices   *gocache.Cache
}

// NewSessionService creates the in-memory session service.
func NewSessionService(cfg *config.Config, userService portssvc.UserReaderSvc) portssvc.SessionSvcFacade {
	return &sessionService{
		cfg:           cfg,
		userService:   userService,
		phoneSessions: gocache.New(cfg.OTPExpiryDuration, 2*cfg.OTPExpiryDuration),
		roleChoices:   gocache.New(12*time.Hour, time.Hour),
	}
}

func (s *sessionService) StartPhoneVerification(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", fmt.Errorf("phone number is required: %w", apperrors.ErrValidation)
	}

	code, err := utils.GenerateNumericCode(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate confirmation code: %w", err)
	}
	sessionID := uuid.NewString()
	s.phoneSessions.Set(sessionID, &phoneSession{Phone: phone, Code: code}, gocache.DefaultExpiration)

	// SMS delivery is handled out of band. Outside production the code is
	// logged so the flow can be exercised end to end.
	if !s.cfg.IsProduction {
		slog.InfoContext(ctx, "phone confirmation code issued",
			slog.String("phone", phone),
			slog.String("code", code),
		)
	}
	return sessionID, nil
}

func (s *sessionService) ConfirmPhoneVerification(ctx context.Context, sessionID string, code string) (string, error) {
	value, found := s.phoneSessions.Get(sessionID)
	if !found {
		return "", fmt.Errorf("confirmation session expired or unknown: %w", apperrors.ErrUnauthorized)
	}
	session := value.(*phoneSession)

	if subtle.ConstantTimeCompare([]byte(session.Code), []byte(strings.TrimSpace(code))) != 1 {
		session.Attempts++
		if session.Attempts >= s.cfg.OTPMaxAttempts {
			s.phoneSessions.Delete(sessionID)
			return "", fmt.Errorf("too many wrong codes: %w", apperrors.ErrUnauthorized)
		}
		return "", fmt.Errorf("wrong confirmation code: %w", apperrors.ErrUnauthorized)
	}

	s.phoneSessions.Delete(sessionID)
	return session.Phone, nil
}

func (s *sessionService) SetRoleChoice(ctx context.Context, userID string, role string) error {
	chosen := domain.Role(strings.ToLower(strings.TrimSpace(role)))
	if chosen != domain.RoleCustomer && chosen != domain.RoleEmployee {
		return fmt.Errorf("role must be customer or employee: %w", apperrors.ErrValidation)
	}
	s.roleChoices.Set(userID, chosen, gocache.DefaultExpiration)
	return nil
}

func (s *sessionService) ResolveLanding(ctx context.Context, userID string) (policy.Landing, error) {
	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user for landing resolution: %w", err)
	}

	var chosen domain.Role
	if value, found := s.roleChoices.Get(userID); found {
		chosen = value.(domain.Role)
	}
	return policy.ResolveLanding(*user, chosen), nil
}

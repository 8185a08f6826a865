package services

import (
	"context"
	"time"

	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/dto"
	"github.com/paintworks/pw_backend/internal/utils/listquery"
)

// UserReaderSvc defines read operations for user profiles
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.UserProfile, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error)

	// ListUsers retrieves users filtered, sorted and paginated per the given query.
	// Restricted to admins.
	ListUsers(ctx context.Context, spec listquery.Spec, requestingUserID string) (*listquery.Result[domain.UserProfile], error)
}

// UserWriterSvc defines write operations for user profiles
type UserWriterSvc interface {
	// RegisterUser creates a new local (email/password) user.
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.UserProfile, error)

	// UpdateUser updates profile basics of an existing user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.UserProfile, error)

	// UpdateUserRoles replaces a user's roles and employee types, subject to
	// the owner/admin permission rules.
	UpdateUserRoles(ctx context.Context, userID string, req dto.UpdateRolesRequest, requestingUserID string) (*domain.UserProfile, error)

	// UpdateRefreshToken updates the refresh token details for a user.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser marks a user as deleted (soft delete). Restricted to the
	// organisation owner, and never on the requesting user's own account.
	DeleteUser(ctx context.Context, userID string, requestingUserID string) error
}

// UserAuthSvc defines operations for user authentication and federated sign-in.
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.UserProfile, error)

	// GetOrCreateGoogleUser resolves a Google identity to a local profile,
	// seeding a customer profile on first sign-in.
	GetOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.UserProfile, error)

	// CreateGuestUser creates an anonymous profile with no credentials.
	CreateGuestUser(ctx context.Context) (*domain.UserProfile, error)

	// GetOrCreatePhoneUser resolves a verified phone number to a local
	// profile, seeding a customer profile on first sign-in.
	GetOrCreatePhoneUser(ctx context.Context, phone string) (*domain.UserProfile, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}

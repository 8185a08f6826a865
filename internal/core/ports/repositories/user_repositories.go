package repositories

import (
	"context"
	"time"

	"github.com/paintworks/pw_backend/internal/core/domain"
)

// UserReader defines read operations for user profile data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.UserProfile, error)

	// FindUserByEmail retrieves a user by their email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error)

	// FindUserByPhone retrieves a user by their phone number.
	FindUserByPhone(ctx context.Context, phone string) (*domain.UserProfile, error)

	// FindUsers retrieves all user profiles. Filtering and pagination happen
	// in the service layer.
	FindUsers(ctx context.Context) ([]domain.UserProfile, error)
}

// UserWriter defines write operations for user profile data
type UserWriter interface {
	// SaveUser persists a new user profile.
	SaveUser(ctx context.Context, user domain.UserProfile) error

	// UpdateUser updates an existing user profile.
	UpdateUser(ctx context.Context, user domain.UserProfile) error

	// UpdateRefreshTokenHash stores the hashed refresh token and its expiry for a user.
	UpdateRefreshTokenHash(ctx context.Context, userID string, tokenHash string, expiryTime time.Time) error

	// ClearRefreshTokenHash removes the stored refresh token for a user.
	ClearRefreshTokenHash(ctx context.Context, userID string) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// MarkUserDeleted marks a user as deleted (soft delete).
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}

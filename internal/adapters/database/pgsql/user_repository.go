package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paintworks/pw_backend/internal/apperrors"
	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/core/ports/repositories"
)

// UserRepository persists user profiles in PostgreSQL.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

var _ repositories.UserRepositoryFacade = (*UserRepository)(nil)

const userColumns = `
	user_id, name, email, phone, roles, employee_types, is_owner, is_admin,
	auth_provider, provider_user_id, password_hash,
	refresh_token_hash, refresh_token_expiry_time,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func (r *UserRepository) SaveUser(ctx context.Context, user domain.UserProfile) error {
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
    `
	_, err := r.db.Exec(ctx, query,
		user.UserID, user.Name, nullString(user.Email), nullString(user.Phone),
		rolesToStrings(user.Roles), typesToStrings(user.EmployeeTypes),
		user.IsOwner, user.IsAdmin,
		string(user.AuthProvider), nullString(user.ProviderUserID), user.PasswordHash,
		nullString(user.RefreshTokenHash), user.RefreshTokenExpiryTime,
		user.CreatedAt, user.CreatedBy, user.LastUpdatedAt, user.LastUpdatedBy,
		user.DeletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user already exists: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, apperrors.ErrEmptyID
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`
	return r.queryOne(ctx, query, userID)
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL;`
	return r.queryOne(ctx, query, email)
}

func (r *UserRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1 AND deleted_at IS NULL;`
	return r.queryOne(ctx, query, phone)
}

func (r *UserRepository) FindUsers(ctx context.Context) ([]domain.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL ORDER BY created_at DESC;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.UserProfile{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}
	return users, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user domain.UserProfile) error {
	query := `
        UPDATE users SET
            name = $2, email = $3, phone = $4, roles = $5, employee_types = $6,
            is_owner = $7, is_admin = $8, password_hash = $9,
            last_updated_at = $10, last_updated_by = $11
        WHERE user_id = $1 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		user.UserID, user.Name, nullString(user.Email), nullString(user.Phone),
		rolesToStrings(user.Roles), typesToStrings(user.EmployeeTypes),
		user.IsOwner, user.IsAdmin, user.PasswordHash,
		user.LastUpdatedAt, user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("email already in use: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.UserID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) UpdateRefreshTokenHash(ctx context.Context, userID string, tokenHash string, expiryTime time.Time) error {
	query := `
        UPDATE users SET refresh_token_hash = $2, refresh_token_expiry_time = $3
        WHERE user_id = $1 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query, userID, tokenHash, expiryTime)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) ClearRefreshTokenHash(ctx context.Context, userID string) error {
	query := `
        UPDATE users SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL
        WHERE user_id = $1 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE users
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE user_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query, deletedAt, deletedBy, userID)
	if err != nil {
		return fmt.Errorf("failed to mark user as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) queryOne(ctx context.Context, query string, arg any) (*domain.UserProfile, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func scanUser(row rowScanner) (*domain.UserProfile, error) {
	var (
		u             domain.UserProfile
		email         *string
		phone         *string
		roles         []string
		employeeTypes []string
		provider      string
		providerID    *string
		refreshHash   *string
	)
	err := row.Scan(
		&u.UserID, &u.Name, &email, &phone, &roles, &employeeTypes,
		&u.IsOwner, &u.IsAdmin,
		&provider, &providerID, &u.PasswordHash,
		&refreshHash, &u.RefreshTokenExpiryTime,
		&u.CreatedAt, &u.CreatedBy, &u.LastUpdatedAt, &u.LastUpdatedBy,
		&u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if email != nil {
		u.Email = *email
	}
	if phone != nil {
		u.Phone = *phone
	}
	if providerID != nil {
		u.ProviderUserID = *providerID
	}
	if refreshHash != nil {
		u.RefreshTokenHash = *refreshHash
	}
	u.AuthProvider = domain.AuthProvider(provider)
	u.Roles = stringsToRoles(roles)
	u.EmployeeTypes = stringsToTypes(employeeTypes)
	u.NormalizeRoles()
	return &u, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func stringsToRoles(values []string) []domain.Role {
	out := make([]domain.Role, len(values))
	for i, v := range values {
		out[i] = domain.Role(v)
	}
	return out
}

func typesToStrings(types []domain.EmployeeType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func stringsToTypes(values []string) []domain.EmployeeType {
	out := make([]domain.EmployeeType, len(values))
	for i, v := range values {
		out[i] = domain.EmployeeType(v)
	}
	return out
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paintworks/pw_backend/internal/apperrors"
	"github.com/paintworks/pw_backend/internal/core/domain"
	"github.com/paintworks/pw_backend/internal/core/policy"
	portsrepo "github.com/paintworks/pw_backend/internal/core/ports/repositories"
	portssvc "github.com/paintworks/pw_backend/internal/core/ports/services"
	"github.com/paintworks/pw_backend/internal/dto"
	"github.com/paintworks/pw_backend/internal/utils"
	"github.com/paintworks/pw_backend/internal/utils/listquery"
)

// UserService implements account management, local authentication and the
// federated sign-in profile resolution.
type UserService struct {
	userRepo portsrepo.UserRepositoryFacade
}

func NewUserService(userRepo portsrepo.UserRepositoryFacade) *UserService {
	return &UserService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// userListFields adapts user profiles to the list pipeline. Role filtering
// matches both top-level roles and employee types, so "admin" and "employee"
// both work as filter values.
var userListFields = listquery.Fields[domain.UserProfile]{
	SearchText: func(u domain.UserProfile) []string {
		return []string{u.Name, u.Email, u.Phone}
	},
	Roles: func(u domain.UserProfile) []string {
		tags := make([]string, 0, len(u.Roles)+len(u.EmployeeTypes))
		for _, r := range u.Roles {
			tags = append(tags, string(r))
		}
		for _, t := range u.EmployeeTypes {
			tags = append(tags, string(t))
		}
		return tags
	},
	SortString: map[string]func(domain.UserProfile) string{
		"name":  func(u domain.UserProfile) string { return u.Name },
		"email": func(u domain.UserProfile) string { return u.Email },
	},
	SortTime: map[string]func(domain.UserProfile) string{
		"createdAt": func(u domain.UserProfile) string { return u.CreatedAt.Format(time.RFC3339Nano) },
	},
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, spec listquery.Spec, requestingUserID string) (*listquery.Result[domain.UserProfile], error) {
	actor, err := s.requireUser(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		return nil, fmt.Errorf("listing users requires admin: %w", apperrors.ErrForbidden)
	}

	users, err := s.userRepo.FindUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	result := listquery.Apply(users, spec, userListFields)
	return &result, nil
}

func (s *UserService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.UserProfile, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s is taken: %w", req.Email, apperrors.ErrDuplicate)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := s.newProfile(domain.ProviderLocal)
	user.Name = req.Name
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.PasswordHash = &hash

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return &user, nil
}

func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a wrong password: do not leak which emails exist.
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if user.PasswordHash == nil || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *UserService) GetOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.UserProfile, error) {
	if info.Email == "" {
		return nil, fmt.Errorf("google profile has no email: %w", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		// Keep profile basics current on every sign-in.
		changed := false
		if info.Name != "" && user.Name != info.Name {
			user.Name = info.Name
			changed = true
		}
		if user.ProviderUserID == "" && info.ID != "" {
			user.ProviderUserID = info.ID
			changed = true
		}
		if changed {
			user.LastUpdatedAt = time.Now()
			user.LastUpdatedBy = user.UserID
			if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
				return nil, fmt.Errorf("failed to sync google profile basics: %w", err)
			}
		}
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	newUser := s.newProfile(domain.ProviderGoogle)
	newUser.Name = info.Name
	newUser.Email = strings.ToLower(strings.TrimSpace(info.Email))
	newUser.ProviderUserID = info.ID

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}
	return &newUser, nil
}

func (s *UserService) CreateGuestUser(ctx context.Context) (*domain.UserProfile, error) {
	user := s.newProfile(domain.ProviderAnonymous)
	user.Name = "Guest"

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create guest user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetOrCreatePhoneUser(ctx context.Context, phone string) (*domain.UserProfile, error) {
	user, err := s.userRepo.FindUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up phone user: %w", err)
	}

	newUser := s.newProfile(domain.ProviderPhone)
	newUser.Phone = phone

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create phone user: %w", err)
	}
	return &newUser, nil
}

func (s *UserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.UserProfile, error) {
	actor, err := s.requireUser(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	// Anyone may edit their own profile basics; beyond that the owner/admin
	// rules apply.
	if actor.UserID != target.UserID && !policy.CanEditUserAccount(*actor, *target) {
		return nil, fmt.Errorf("cannot edit user %s: %w", userID, apperrors.ErrForbidden)
	}

	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.Email != nil {
		target.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		target.Phone = *req.Phone
	}
	target.LastUpdatedAt = time.Now()
	target.LastUpdatedBy = actor.UserID

	if err := s.userRepo.UpdateUser(ctx, *target); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return target, nil
}

func (s *UserService) UpdateUserRoles(ctx context.Context, userID string, req dto.UpdateRolesRequest, requestingUserID string) (*domain.UserProfile, error) {
	actor, err := s.requireUser(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	if !policy.CanEditUserAccount(*actor, *target) {
		return nil, fmt.Errorf("cannot change roles of user %s: %w", userID, apperrors.ErrForbidden)
	}

	types := make([]domain.EmployeeType, 0, len(req.EmployeeTypes))
	for _, raw := range req.EmployeeTypes {
		t, ok := domain.ParseEmployeeType(raw)
		if !ok {
			return nil, fmt.Errorf("unknown employee type %q: %w", raw, apperrors.ErrValidation)
		}
		if t == domain.TypeOwner && !target.IsOwner && !policy.CanAssignOwner(*actor) {
			return nil, fmt.Errorf("only the owner can assign ownership: %w", apperrors.ErrForbidden)
		}
		types = append(types, t)
	}
	if target.IsOwner && !containsType(types, domain.TypeOwner) && !policy.CanAssignOwner(*actor) {
		return nil, fmt.Errorf("only the owner can revoke ownership: %w", apperrors.ErrForbidden)
	}

	roles := make([]domain.Role, 0, len(req.Roles))
	for _, raw := range req.Roles {
		roles = append(roles, domain.Role(strings.ToLower(strings.TrimSpace(raw))))
	}

	target.Roles = roles
	target.EmployeeTypes = types
	target.NormalizeRoles()
	target.LastUpdatedAt = time.Now()
	target.LastUpdatedBy = actor.UserID

	if err := s.userRepo.UpdateUser(ctx, *target); err != nil {
		return nil, fmt.Errorf("failed to update roles of user %s: %w", userID, err)
	}
	return target, nil
}

func (s *UserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshTokenHash(ctx, userID, refreshTokenHash, refreshTokenExpiryTime); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (s *UserService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshTokenHash(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	actor, err := s.requireUser(ctx, requestingUserID)
	if err != nil {
		return err
	}
	target, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	if !policy.CanDeleteUserAccount(*actor, *target) {
		return fmt.Errorf("cannot delete user %s: %w", userID, apperrors.ErrForbidden)
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), actor.UserID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

// requireUser loads the requesting user's profile. A missing requester means
// the credentials no longer map to an account.
func (s *UserService) requireUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	actor, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrEmptyID) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load requesting user: %w", err)
	}
	return actor, nil
}

// newProfile seeds the profile created on first sign-in for any provider.
func (s *UserService) newProfile(provider domain.AuthProvider) domain.UserProfile {
	now := time.Now()
	user := domain.NewCustomerProfile()
	user.UserID = uuid.NewString()
	user.AuthProvider = provider
	user.CreatedAt = now
	user.CreatedBy = user.UserID
	user.LastUpdatedAt = now
	user.LastUpdatedBy = user.UserID
	return user
}

func containsType(types []domain.EmployeeType, want domain.EmployeeType) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

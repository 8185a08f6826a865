package services

import (
	"context"

	"github.com/paintworks/pw_backend/internal/core/policy"
)

// PhoneVerificationSvc defines the two-step phone sign-in confirmation flow.
// Codes and pending sessions live in an in-memory TTL store and are lost on
// restart, which simply forces the caller to start over.
type PhoneVerificationSvc interface {
	// StartPhoneVerification generates a confirmation code for the phone
	// number and returns the session ID that must accompany the confirm call.
	StartPhoneVerification(ctx context.Context, phone string) (sessionID string, err error)

	// ConfirmPhoneVerification checks the submitted code against the pending
	// session and returns the verified phone number. Too many wrong attempts
	// invalidate the session.
	ConfirmPhoneVerification(ctx context.Context, sessionID string, code string) (phone string, err error)
}

// RoleChoiceSvc stores which of their roles a dual-role user chose for the
// current session, feeding the landing routing policy.
type RoleChoiceSvc interface {
	// SetRoleChoice records the chosen role for the user's session.
	SetRoleChoice(ctx context.Context, userID string, role string) error

	// ResolveLanding returns the landing destination for the user, taking any
	// recorded role choice into account.
	ResolveLanding(ctx context.Context, userID string) (policy.Landing, error)
}

// SessionSvcFacade combines the in-memory session-scoped services.
type SessionSvcFacade interface {
	PhoneVerificationSvc
	RoleChoiceSvc
}

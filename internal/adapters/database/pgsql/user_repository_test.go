package pgsql

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintworks/pw_backend/internal/core/domain"
)

// stubRow feeds fixed column values to Scan. A nil value stands for a SQL
// NULL and leaves the destination at its zero value.
type stubRow struct {
	values []any
}

func (r stubRow) Scan(dest ...any) error {
	for i, d := range dest {
		if i >= len(r.values) || r.values[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func strPtr(s string) *string { return &s }

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	got := nullString("ann@example.com")
	require.NotNil(t, got)
	assert.Equal(t, "ann@example.com", *got)
}

// Guest and phone accounts carry no email address. Their rows store NULL,
// not the empty string, so the partial unique index on lower(email) never
// sees two guests as duplicates. Scanning must tolerate the NULL.
func TestScanUserGuestRowWithNullEmail(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	row := stubRow{values: []any{
		"guest-1",            // user_id
		"Guest",              // name
		nil,                  // email
		nil,                  // phone
		[]string{"customer"}, // roles
		[]string{},           // employee_types
		false,                // is_owner
		false,                // is_admin
		"anonymous",          // auth_provider
		nil,                  // provider_user_id
		nil,                  // password_hash
		nil,                  // refresh_token_hash
		nil,                  // refresh_token_expiry_time
		now,                  // created_at
		"guest-1",            // created_by
		now,                  // last_updated_at
		"guest-1",            // last_updated_by
		nil,                  // deleted_at
	}}

	u, err := scanUser(row)
	require.NoError(t, err)
	assert.Equal(t, "guest-1", u.UserID)
	assert.Equal(t, "", u.Email)
	assert.Equal(t, "", u.Phone)
	assert.Equal(t, domain.ProviderAnonymous, u.AuthProvider)
	assert.Equal(t, []domain.Role{domain.RoleCustomer}, u.Roles)
	assert.Nil(t, u.PasswordHash)
	assert.Nil(t, u.DeletedAt)
}

func TestScanUserEmailPresent(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	row := stubRow{values: []any{
		"user-1",
		"Ann",
		strPtr("ann@example.com"),
		strPtr("+351912345678"),
		[]string{"customer", "employee"},
		[]string{"painter"},
		false,
		false,
		"local",
		nil,
		strPtr("$2a$10$hash"),
		nil,
		nil,
		now,
		"user-1",
		now,
		"user-1",
		nil,
	}}

	u, err := scanUser(row)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "+351912345678", u.Phone)
	assert.Equal(t, []domain.EmployeeType{domain.TypePainter}, u.EmployeeTypes)
	require.NotNil(t, u.PasswordHash)
	assert.Equal(t, "$2a$10$hash", *u.PasswordHash)
}

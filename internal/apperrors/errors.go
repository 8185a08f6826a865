package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates a policy violation: the authenticated principal is
// not allowed to perform the attempted action. Kept distinct from ErrNotFound
// so callers can surface a specific rejection message.
var ErrForbidden = errors.New("forbidden by policy")

// ErrEmptyID indicates an update or delete was attempted without a record ID.
// This is a programmer error, not bad user data, and always fails loudly.
var ErrEmptyID = errors.New("record id is empty")

// ErrRefreshTokenExpired indicates the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

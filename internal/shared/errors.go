package shared

import "errors"

var (
	// ErrNotFound indicates the entity is absent or in the wrong lifecycle
	// state for the operation.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. Deliberately shared by
	// the unknown-tenant, unknown-email, and wrong-password legs.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a malformed, tampered, or expired token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthorized indicates a request without a usable identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the principal may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a uniqueness violation on slug or email.
	ErrConflict = errors.New("already exists")
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrWeakPassword indicates the password fails the strength policy.
	ErrWeakPassword = errors.New("password too weak")
	// ErrInvalidRole indicates an unrecognized role name.
	ErrInvalidRole = errors.New("invalid role name")
	// ErrRoleNotSeeded indicates required role reference data is missing.
	ErrRoleNotSeeded = errors.New("role reference data not seeded")
)

package application

import (
	"context"
	"errors"
)

// Service-level error taxonomy. Handlers translate these to status codes;
// anything else is a server error whose detail stays in the logs.
var (
	// ErrInvalidCredentials deliberately merges "no such user", "not
	// approved", "suspended" and "bad password" so login responses never
	// leak account existence or state.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrNotFound           = errors.New("not found")
	// ErrInvalidToken covers logout with a token nobody holds (revoked or
	// never issued, indistinguishable).
	ErrInvalidToken = errors.New("invalid refresh token")
	// ErrInvalidOrExpiredToken merges "absent" and "expired" for refresh and
	// reset tokens.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrAlreadyApproved       = errors.New("profile already approved")
	ErrPhotoLimit            = errors.New("additional photo limit reached")
	ErrInvalidPhotoType      = errors.New("invalid photo type")
)

// EmailPublisher enqueues notification jobs. Satisfied by
// helpers.RabbitPublisher; delivery is best-effort and never rolls back the
// operation that triggered it.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

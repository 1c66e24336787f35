package repository

import (
	"context"
	"errors"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert collides on the email
	// unique constraint.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateUsername is returned when an update collides on the
	// username unique constraint.
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository defines persistence for the identity aggregate.
type UserRepository interface {
	// CreateWithProfile inserts the profile and the user referencing it in a
	// single transaction; neither row is visible unless both commit.
	CreateWithProfile(ctx context.Context, u *entity.User, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetByRefreshToken finds the user whose session list contains the token,
	// regardless of the entry's expiry.
	GetByRefreshToken(ctx context.Context, token string) (*entity.User, error)
	GetByResetToken(ctx context.Context, token string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// UpdateWithProfile persists user and profile changes in one transaction;
	// used by the approval gate so the approved flags move together.
	UpdateWithProfile(ctx context.Context, u *entity.User, p *entity.Profile) error
}

// ProfileFilter narrows List results.
type ProfileFilter struct {
	Approved *bool
}

// ProfileRepository defines persistence for candidate profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	List(ctx context.Context, f ProfileFilter) ([]*entity.Profile, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Profile, error)
	Update(ctx context.Context, p *entity.Profile) error
	// DeleteWithUser removes the profile and its owning user in one
	// transaction (terminal state; cascading removal).
	DeleteWithUser(ctx context.Context, profileID string) error
}

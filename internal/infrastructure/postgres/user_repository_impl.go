package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	"github.com/teamhm/matrimony-backend/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, COALESCE(username, ''), password_hash, role, status,
	profile_id, COALESCE(reset_token, ''), reset_token_expires, refresh_sessions,
	created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var sessions []byte
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Password, &u.Role, &u.Status,
		&u.ProfileID, &u.ResetToken, &u.ResetTokenExpiry, &sessions,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if len(sessions) > 0 {
		if err := json.Unmarshal(sessions, &u.RefreshSessions); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// nullable maps empty strings to NULL so partial unique indexes on username
// and reset_token only ever see real values.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return repository.ErrDuplicateEmail
		case strings.Contains(pgErr.ConstraintName, "username"):
			return repository.ErrDuplicateUsername
		}
	}
	return err
}

// CreateWithProfile inserts the profile row first, then the user referencing
// it, then backfills profile.user_id, all inside one transaction. A failure
// at any step rolls the whole pair back.
func (r *UserRepository) CreateWithProfile(ctx context.Context, u *entity.User, p *entity.Profile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertProfile(ctx, tx, p); err != nil {
		return translateUnique(err)
	}
	u.ProfileID = p.ID

	sessions, err := json.Marshal(u.RefreshSessions)
	if err != nil {
		return err
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, role, status, profile_id, refresh_sessions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Email, nullable(u.Username), u.Password, u.Role, u.Status, u.ProfileID, sessions)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return translateUnique(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE profiles SET user_id = $1 WHERE id = $2`, u.ID, p.ID); err != nil {
		return err
	}
	p.UserID = u.ID

	return tx.Commit(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepository) GetByRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE refresh_sessions @> jsonb_build_array(jsonb_build_object('token', $1::text))
	`, token))
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token))
}

const updateUserSQL = `
	UPDATE users
	SET email = $1, username = $2, password_hash = $3, role = $4, status = $5,
	    reset_token = $6, reset_token_expires = $7, refresh_sessions = $8, updated_at = $9
	WHERE id = $10
`

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	sessions, err := json.Marshal(u.RefreshSessions)
	if err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, updateUserSQL,
		u.Email, nullable(u.Username), u.Password, u.Role, u.Status,
		nullable(u.ResetToken), u.ResetTokenExpiry, sessions, u.UpdatedAt, u.ID)
	if err != nil {
		return translateUnique(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateWithProfile writes both rows of the pair transactionally; the
// approval gate relies on the approved flags never diverging.
func (r *UserRepository) UpdateWithProfile(ctx context.Context, u *entity.User, p *entity.Profile) error {
	sessions, err := json.Marshal(u.RefreshSessions)
	if err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u.UpdatedAt = time.Now()
	res, err := tx.Exec(ctx, updateUserSQL,
		u.Email, nullable(u.Username), u.Password, u.Role, u.Status,
		nullable(u.ResetToken), u.ResetTokenExpiry, sessions, u.UpdatedAt, u.ID)
	if err != nil {
		return translateUnique(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	if err := updateProfile(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)

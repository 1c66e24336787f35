package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	"github.com/teamhm/matrimony-backend/internal/domain/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so profile writes can
// participate in the registration and approval transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, created_by, name, dob, gender, marital_status, height_cm, weight_kg,
	complexion, religion, country, mother_tongue, mobile, education_level, qualifications,
	occupation, occupation_sector, ethnic_group, family, package, profile_photo,
	additional_photos, favorites, COALESCE(user_id::text, ''), is_approved, created_at, updated_at`

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	p := &entity.Profile{}
	var family, photos, favorites []byte
	if err := row.Scan(&p.ID, &p.CreatedBy, &p.Name, &p.DOB, &p.Gender, &p.MaritalStatus,
		&p.HeightCM, &p.WeightKG, &p.Complexion, &p.Religion, &p.Country, &p.MotherTongue,
		&p.Mobile, &p.EducationLevel, &p.Qualifications, &p.Occupation, &p.OccupationSector,
		&p.EthnicGroup, &family, &p.Package, &p.ProfilePhoto, &photos, &favorites,
		&p.UserID, &p.IsApproved, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if len(family) > 0 {
		if err := json.Unmarshal(family, &p.Family); err != nil {
			return nil, err
		}
	}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &p.AdditionalPhotos); err != nil {
			return nil, err
		}
	}
	if len(favorites) > 0 {
		if err := json.Unmarshal(favorites, &p.Favorites); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func marshalProfileJSON(p *entity.Profile) (family, photos, favorites []byte, err error) {
	if family, err = json.Marshal(p.Family); err != nil {
		return
	}
	if p.AdditionalPhotos == nil {
		p.AdditionalPhotos = []string{}
	}
	if photos, err = json.Marshal(p.AdditionalPhotos); err != nil {
		return
	}
	if p.Favorites == nil {
		p.Favorites = []string{}
	}
	favorites, err = json.Marshal(p.Favorites)
	return
}

func insertProfile(ctx context.Context, q querier, p *entity.Profile) error {
	family, photos, favorites, err := marshalProfileJSON(p)
	if err != nil {
		return err
	}
	row := q.QueryRow(ctx, `
		INSERT INTO profiles (created_by, name, dob, gender, marital_status, height_cm, weight_kg,
			complexion, religion, country, mother_tongue, mobile, education_level, qualifications,
			occupation, occupation_sector, ethnic_group, family, package, profile_photo,
			additional_photos, favorites, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23)
		RETURNING id, created_at, updated_at
	`, p.CreatedBy, p.Name, p.DOB, p.Gender, p.MaritalStatus, p.HeightCM, p.WeightKG,
		p.Complexion, p.Religion, p.Country, p.MotherTongue, p.Mobile, p.EducationLevel,
		p.Qualifications, p.Occupation, p.OccupationSector, p.EthnicGroup, family, p.Package,
		p.ProfilePhoto, photos, favorites, p.IsApproved)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func updateProfile(ctx context.Context, q querier, p *entity.Profile) error {
	family, photos, favorites, err := marshalProfileJSON(p)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	res, err := q.Exec(ctx, `
		UPDATE profiles
		SET created_by = $1, name = $2, dob = $3, gender = $4, marital_status = $5,
			height_cm = $6, weight_kg = $7, complexion = $8, religion = $9, country = $10,
			mother_tongue = $11, mobile = $12, education_level = $13, qualifications = $14,
			occupation = $15, occupation_sector = $16, ethnic_group = $17, family = $18,
			package = $19, profile_photo = $20, additional_photos = $21, favorites = $22,
			is_approved = $23, updated_at = $24
		WHERE id = $25
	`, p.CreatedBy, p.Name, p.DOB, p.Gender, p.MaritalStatus, p.HeightCM, p.WeightKG,
		p.Complexion, p.Religion, p.Country, p.MotherTongue, p.Mobile, p.EducationLevel,
		p.Qualifications, p.Occupation, p.OccupationSector, p.EthnicGroup, family, p.Package,
		p.ProfilePhoto, photos, favorites, p.IsApproved, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
}

func (r *ProfileRepository) List(ctx context.Context, f repository.ProfileFilter) ([]*entity.Profile, error) {
	sql := `SELECT ` + profileColumns + ` FROM profiles`
	args := []any{}
	if f.Approved != nil {
		sql += ` WHERE is_approved = $1`
		args = append(args, *f.Approved)
	}
	sql += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProfiles(rows)
}

func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Profile, error) {
	if len(ids) == 0 {
		return []*entity.Profile{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProfiles(rows)
}

func collectProfiles(rows pgx.Rows) ([]*entity.Profile, error) {
	out := []*entity.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) Update(ctx context.Context, p *entity.Profile) error {
	return updateProfile(ctx, r.pool, p)
}

// DeleteWithUser removes the profile and its owning user together; the pair
// invariant holds through deletion.
func (r *ProfileRepository) DeleteWithUser(ctx context.Context, profileID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The user row goes first: it holds the FK to the profile.
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE profile_id = $1`, profileID); err != nil {
		return err
	}
	res, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, profileID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return tx.Commit(ctx)
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

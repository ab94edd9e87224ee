package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/gatheringhouse/event-signup/internal/model"
)

// ProfileRepo reads and updates member profiles. Email comes from the
// joined users row and is never writable here; the photos list is stored
// as a JSON column.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// GetByUserID loads a profile joined with the account email and role.
// sql.ErrNoRows is returned when the user does not exist.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (model.Profile, error) {
	const q = `SELECT p.user_id, u.email, u.role, p.name, p.gender, p.birth_year,
	                  p.phone, p.height_cm, p.weight_kg, p.ideal_type, p.photos,
	                  p.created_at, p.updated_at
	           FROM profiles p
	           JOIN users u ON u.id = p.user_id
	           WHERE p.user_id = ?`
	var (
		p         model.Profile
		role      string
		gender    sql.NullString
		birthYear sql.NullInt64
		phone     sql.NullString
		height    sql.NullInt64
		weight    sql.NullInt64
		idealType sql.NullString
		photosRaw []byte
	)
	err := r.DB.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID, &p.Email, &role, &p.Name, &gender, &birthYear,
		&phone, &height, &weight, &idealType, &photosRaw,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return model.Profile{}, err
	}
	p.IsAdmin = role == "ADMIN"
	if gender.Valid {
		p.Gender = model.Gender(gender.String)
	}
	if birthYear.Valid {
		p.BirthYear = int(birthYear.Int64)
	}
	if phone.Valid {
		p.Phone = phone.String
	}
	if height.Valid {
		p.HeightCM = int(height.Int64)
	}
	if weight.Valid {
		p.WeightKG = int(weight.Int64)
	}
	if idealType.Valid {
		p.IdealType = idealType.String
	}
	p.Photos = []model.ProfilePhoto{}
	if len(photosRaw) > 0 {
		if err := json.Unmarshal(photosRaw, &p.Photos); err != nil {
			return model.Profile{}, err
		}
	}
	return p, nil
}

// Update overwrites the owner-editable profile fields. Email and role are
// untouchable through this path.
func (r *ProfileRepo) Update(ctx context.Context, p model.Profile) error {
	photos, err := json.Marshal(p.Photos)
	if err != nil {
		return err
	}
	const q = `UPDATE profiles
	           SET name=?, gender=?, birth_year=?, phone=?, height_cm=?,
	               weight_kg=?, ideal_type=?, photos=?
	           WHERE user_id=?`
	res, err := r.DB.ExecContext(ctx, q,
		p.Name, nullableString(string(p.Gender)), nullableInt(p.BirthYear),
		nullableString(p.Phone), nullableInt(p.HeightCM), nullableInt(p.WeightKG),
		nullableString(p.IdealType), photos, p.UserID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero rows can mean identical values; confirm the row exists.
		var one int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM profiles WHERE user_id=?", p.UserID).Scan(&one); err != nil {
			return err
		}
	}
	return nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

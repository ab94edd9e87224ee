package model

import "time"

// Photo kinds and limits. A profile carries at most four photos, at most
// two per kind.
const (
	PhotoKindFace = "face"
	PhotoKindBody = "body"

	MaxProfilePhotos        = 4
	MaxProfilePhotosPerKind = 2
)

// ProfilePhoto is one entry of the profile photo list, stored as a JSON
// array in the profiles row. Order is preserved.
type ProfilePhoto struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

// Profile holds a member's reusable personal attributes, keyed by the
// account's user ID. It prefills application forms; submitted applications
// keep their own frozen snapshot instead of referencing the profile.
//
// Email lives on the users row and is immutable; it is joined in for reads
// but never written through profile updates.
type Profile struct {
	UserID    uint64         `json:"user_id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Gender    Gender         `json:"gender,omitempty"`
	BirthYear int            `json:"birth_year,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	HeightCM  int            `json:"height,omitempty"`
	WeightKG  int            `json:"weight,omitempty"`
	IdealType string         `json:"ideal_type,omitempty"`
	Photos    []ProfilePhoto `json:"photos"`
	IsAdmin   bool           `json:"is_admin"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ValidatePhotos checks the profile photo list against the total and
// per-kind limits and rejects unknown kinds.
func ValidatePhotos(photos []ProfilePhoto) error {
	ve := NewValidationError()
	if len(photos) > MaxProfilePhotos {
		ve.Add("photos", "at most 4 photos are allowed")
	}
	perKind := map[string]int{}
	for _, p := range photos {
		if p.Kind != PhotoKindFace && p.Kind != PhotoKindBody {
			ve.Add("photos", "photo kind must be face or body")
			break
		}
		perKind[p.Kind]++
	}
	for kind, n := range perKind {
		if n > MaxProfilePhotosPerKind {
			ve.Add("photos", "at most 2 "+kind+" photos are allowed")
		}
	}
	return ve.OrNil()
}

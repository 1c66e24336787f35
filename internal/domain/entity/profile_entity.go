package entity

import "time"

// MaxAdditionalPhotos caps the gallery size per profile.
const MaxAdditionalPhotos = 5

// FamilyMember describes a parent or sibling on the profile.
type FamilyMember struct {
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
}

// FamilyDetails groups the family section of a profile. Stored as one JSONB
// document since it is only ever read and written whole.
type FamilyDetails struct {
	Father       FamilyMember   `json:"father"`
	Mother       FamilyMember   `json:"mother"`
	NoOfSiblings int            `json:"no_of_siblings"`
	Siblings     []FamilyMember `json:"siblings,omitempty"`
}

// Profile is the candidate submission. Exactly one profile exists per user;
// the pair is created in one transaction and IsApproved mirrors the user's
// approval state.
type Profile struct {
	ID               string
	CreatedBy        string
	Name             string
	DOB              *time.Time
	Gender           string
	MaritalStatus    string
	HeightCM         int
	WeightKG         int
	Complexion       string
	Religion         string
	Country          string
	MotherTongue     string
	Mobile           string
	EducationLevel   string
	Qualifications   string
	Occupation       string
	OccupationSector string
	EthnicGroup      string
	Family           FamilyDetails
	Package          string
	ProfilePhoto     string
	AdditionalPhotos []string
	Favorites        []string // profile ids; not reciprocal
	UserID           string   // back-reference, lookup only
	IsApproved       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasFavorite reports whether the given profile id is already marked.
func (p *Profile) HasFavorite(profileID string) bool {
	for _, id := range p.Favorites {
		if id == profileID {
			return true
		}
	}
	return false
}

// AddFavorite marks a profile as favorite; duplicates are ignored.
func (p *Profile) AddFavorite(profileID string) {
	if !p.HasFavorite(profileID) {
		p.Favorites = append(p.Favorites, profileID)
	}
}

// RemoveFavorite unmarks a profile; absent ids are a no-op.
func (p *Profile) RemoveFavorite(profileID string) {
	for i, id := range p.Favorites {
		if id == profileID {
			p.Favorites = append(p.Favorites[:i:i], p.Favorites[i+1:]...)
			return
		}
	}
}

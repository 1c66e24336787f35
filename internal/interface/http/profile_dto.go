package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamhm/matrimony-backend/internal/application"
	"github.com/teamhm/matrimony-backend/internal/domain/entity"
)

const dateLayout = "2006-01-02"

type familyMemberPayload struct {
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
}

type familyPayload struct {
	Father       familyMemberPayload   `json:"father"`
	Mother       familyMemberPayload   `json:"mother"`
	NoOfSiblings int                   `json:"no_of_siblings"`
	Siblings     []familyMemberPayload `json:"siblings"`
}

// profilePayload is the full demographic section used at registration.
type profilePayload struct {
	CreatedBy        string        `json:"created_by" binding:"omitempty,oneof=self parent sibling relative friend"`
	Name             string        `json:"name" binding:"required"`
	DOB              string        `json:"dob" binding:"required"`
	Gender           string        `json:"gender" binding:"required,oneof=male female"`
	MaritalStatus    string        `json:"marital_status" binding:"required"`
	HeightCM         int           `json:"height_cm" binding:"omitempty,gte=0"`
	WeightKG         int           `json:"weight_kg" binding:"omitempty,gte=0"`
	Complexion       string        `json:"complexion"`
	Religion         string        `json:"religion"`
	Country          string        `json:"country" binding:"required"`
	MotherTongue     string        `json:"mother_tongue"`
	Mobile           string        `json:"mobile" binding:"required"`
	EducationLevel   string        `json:"education_level"`
	Qualifications   string        `json:"qualifications"`
	Occupation       string        `json:"occupation"`
	OccupationSector string        `json:"occupation_sector"`
	EthnicGroup      string        `json:"ethnic_group"`
	Family           familyPayload `json:"family"`
	Package          string        `json:"package"`
}

func (p profilePayload) toEntity() (*entity.Profile, error) {
	dob, err := time.Parse(dateLayout, p.DOB)
	if err != nil {
		return nil, err
	}
	return &entity.Profile{
		CreatedBy:        p.CreatedBy,
		Name:             p.Name,
		DOB:              &dob,
		Gender:           p.Gender,
		MaritalStatus:    p.MaritalStatus,
		HeightCM:         p.HeightCM,
		WeightKG:         p.WeightKG,
		Complexion:       p.Complexion,
		Religion:         p.Religion,
		Country:          p.Country,
		MotherTongue:     p.MotherTongue,
		Mobile:           p.Mobile,
		EducationLevel:   p.EducationLevel,
		Qualifications:   p.Qualifications,
		Occupation:       p.Occupation,
		OccupationSector: p.OccupationSector,
		EthnicGroup:      p.EthnicGroup,
		Family:           p.Family.toEntity(),
		Package:          p.Package,
	}, nil
}

func (f familyPayload) toEntity() entity.FamilyDetails {
	out := entity.FamilyDetails{
		Father:       entity.FamilyMember{Name: f.Father.Name, Occupation: f.Father.Occupation},
		Mother:       entity.FamilyMember{Name: f.Mother.Name, Occupation: f.Mother.Occupation},
		NoOfSiblings: f.NoOfSiblings,
	}
	for _, s := range f.Siblings {
		out.Siblings = append(out.Siblings, entity.FamilyMember{Name: s.Name, Occupation: s.Occupation})
	}
	return out
}

// updateProfilePayload mirrors profilePayload but every field is optional.
type updateProfilePayload struct {
	CreatedBy        *string        `json:"created_by" binding:"omitempty,oneof=self parent sibling relative friend"`
	Name             *string        `json:"name"`
	DOB              *string        `json:"dob"`
	Gender           *string        `json:"gender" binding:"omitempty,oneof=male female"`
	MaritalStatus    *string        `json:"marital_status"`
	HeightCM         *int           `json:"height_cm" binding:"omitempty,gte=0"`
	WeightKG         *int           `json:"weight_kg" binding:"omitempty,gte=0"`
	Complexion       *string        `json:"complexion"`
	Religion         *string        `json:"religion"`
	Country          *string        `json:"country"`
	MotherTongue     *string        `json:"mother_tongue"`
	Mobile           *string        `json:"mobile"`
	EducationLevel   *string        `json:"education_level"`
	Qualifications   *string        `json:"qualifications"`
	Occupation       *string        `json:"occupation"`
	OccupationSector *string        `json:"occupation_sector"`
	EthnicGroup      *string        `json:"ethnic_group"`
	Family           *familyPayload `json:"family"`
	Package          *string        `json:"package"`
}

func (p updateProfilePayload) toInput() (application.ProfileUpdateInput, error) {
	in := application.ProfileUpdateInput{
		CreatedBy:        p.CreatedBy,
		Name:             p.Name,
		Gender:           p.Gender,
		MaritalStatus:    p.MaritalStatus,
		HeightCM:         p.HeightCM,
		WeightKG:         p.WeightKG,
		Complexion:       p.Complexion,
		Religion:         p.Religion,
		Country:          p.Country,
		MotherTongue:     p.MotherTongue,
		Mobile:           p.Mobile,
		EducationLevel:   p.EducationLevel,
		Qualifications:   p.Qualifications,
		Occupation:       p.Occupation,
		OccupationSector: p.OccupationSector,
		EthnicGroup:      p.EthnicGroup,
		Package:          p.Package,
	}
	if p.DOB != nil {
		dob, err := time.Parse(dateLayout, *p.DOB)
		if err != nil {
			return in, err
		}
		in.DOB = &dob
	}
	if p.Family != nil {
		f := p.Family.toEntity()
		in.Family = &f
	}
	return in, nil
}

// profileView is the full serialization, returned to owners and admins.
func profileView(p *entity.Profile) gin.H {
	var dob any
	if p.DOB != nil {
		dob = p.DOB.Format(dateLayout)
	}
	return gin.H{
		"id":                p.ID,
		"created_by":        p.CreatedBy,
		"name":              p.Name,
		"dob":               dob,
		"gender":            p.Gender,
		"marital_status":    p.MaritalStatus,
		"height_cm":         p.HeightCM,
		"weight_kg":         p.WeightKG,
		"complexion":        p.Complexion,
		"religion":          p.Religion,
		"country":           p.Country,
		"mother_tongue":     p.MotherTongue,
		"mobile":            p.Mobile,
		"education_level":   p.EducationLevel,
		"qualifications":    p.Qualifications,
		"occupation":        p.Occupation,
		"occupation_sector": p.OccupationSector,
		"ethnic_group":      p.EthnicGroup,
		"family":            p.Family,
		"package":           p.Package,
		"profile_photo":     p.ProfilePhoto,
		"additional_photos": p.AdditionalPhotos,
		"is_approved":       p.IsApproved,
		"created_at":        p.CreatedAt,
		"updated_at":        p.UpdatedAt,
	}
}

// profileCard is the trimmed serialization used for public browse lists.
// Contact details stay out of it.
func profileCard(p *entity.Profile) gin.H {
	var dob any
	if p.DOB != nil {
		dob = p.DOB.Format(dateLayout)
	}
	return gin.H{
		"id":             p.ID,
		"name":           p.Name,
		"dob":            dob,
		"gender":         p.Gender,
		"marital_status": p.MaritalStatus,
		"height_cm":      p.HeightCM,
		"religion":       p.Religion,
		"country":        p.Country,
		"mother_tongue":  p.MotherTongue,
		"occupation":     p.Occupation,
		"profile_photo":  p.ProfilePhoto,
	}
}

func profileCards(ps []*entity.Profile) []gin.H {
	out := make([]gin.H, 0, len(ps))
	for _, p := range ps {
		out = append(out, profileCard(p))
	}
	return out
}

func profileViews(ps []*entity.Profile) []gin.H {
	out := make([]gin.H, 0, len(ps))
	for _, p := range ps {
		out = append(out, profileView(p))
	}
	return out
}

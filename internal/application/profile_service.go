package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	repo "github.com/teamhm/matrimony-backend/internal/domain/repository"
	"github.com/teamhm/matrimony-backend/pkg/helpers"
)

// ProfileService handles profile browsing, editing, photos and favorites.
// These are plumbing around the record store and blob store; the identity
// rules live in IdentityService and ApprovalService.
type ProfileService struct {
	profiles repo.ProfileRepository
	gcs      *storage.Client
	bucket   string
	indexer  *ProfileIndexer
	logger   *logrus.Logger
}

func NewProfileService(profiles repo.ProfileRepository, gcs *storage.Client, bucket string, indexer *ProfileIndexer, logger *logrus.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		gcs:      gcs,
		bucket:   bucket,
		indexer:  indexer,
		logger:   logger,
	}
}

// ProfileUpdateInput carries optional field updates; nil pointers leave the
// stored value untouched.
type ProfileUpdateInput struct {
	CreatedBy        *string
	Name             *string
	DOB              *time.Time
	Gender           *string
	MaritalStatus    *string
	HeightCM         *int
	WeightKG         *int
	Complexion       *string
	Religion         *string
	Country          *string
	MotherTongue     *string
	Mobile           *string
	EducationLevel   *string
	Qualifications   *string
	Occupation       *string
	OccupationSector *string
	EthnicGroup      *string
	Family           *entity.FamilyDetails
	Package          *string
}

func applyUpdate(p *entity.Profile, in ProfileUpdateInput) {
	if in.CreatedBy != nil {
		p.CreatedBy = *in.CreatedBy
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.DOB != nil {
		p.DOB = in.DOB
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.MaritalStatus != nil {
		p.MaritalStatus = *in.MaritalStatus
	}
	if in.HeightCM != nil {
		p.HeightCM = *in.HeightCM
	}
	if in.WeightKG != nil {
		p.WeightKG = *in.WeightKG
	}
	if in.Complexion != nil {
		p.Complexion = *in.Complexion
	}
	if in.Religion != nil {
		p.Religion = *in.Religion
	}
	if in.Country != nil {
		p.Country = *in.Country
	}
	if in.MotherTongue != nil {
		p.MotherTongue = *in.MotherTongue
	}
	if in.Mobile != nil {
		p.Mobile = *in.Mobile
	}
	if in.EducationLevel != nil {
		p.EducationLevel = *in.EducationLevel
	}
	if in.Qualifications != nil {
		p.Qualifications = *in.Qualifications
	}
	if in.Occupation != nil {
		p.Occupation = *in.Occupation
	}
	if in.OccupationSector != nil {
		p.OccupationSector = *in.OccupationSector
	}
	if in.EthnicGroup != nil {
		p.EthnicGroup = *in.EthnicGroup
	}
	if in.Family != nil {
		p.Family = *in.Family
	}
	if in.Package != nil {
		p.Package = *in.Package
	}
}

func (s *ProfileService) ListApproved(ctx context.Context) ([]*entity.Profile, error) {
	approved := true
	return s.profiles.List(ctx, repo.ProfileFilter{Approved: &approved})
}

func (s *ProfileService) ListPending(ctx context.Context) ([]*entity.Profile, error) {
	pending := false
	return s.profiles.List(ctx, repo.ProfileFilter{Approved: &pending})
}

func (s *ProfileService) ListAll(ctx context.Context) ([]*entity.Profile, error) {
	return s.profiles.List(ctx, repo.ProfileFilter{})
}

func (s *ProfileService) Get(ctx context.Context, id string) (*entity.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) GetByUser(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return s.indexer.Search(ctx, q, size)
}

// UpdateByUser applies an owner edit to their own profile.
func (s *ProfileService) UpdateByUser(ctx context.Context, userID string, in ProfileUpdateInput) (*entity.Profile, error) {
	p, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, p, in)
}

// UpdateByID applies an administrative edit to any profile.
func (s *ProfileService) UpdateByID(ctx context.Context, profileID string, in ProfileUpdateInput) (*entity.Profile, error) {
	p, err := s.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, p, in)
}

func (s *ProfileService) update(ctx context.Context, p *entity.Profile, in ProfileUpdateInput) (*entity.Profile, error) {
	applyUpdate(p, in)
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	if p.IsApproved {
		_ = s.indexer.IndexProfile(ctx, p)
	}
	return p, nil
}

// UploadProfilePhoto replaces the main photo, deleting the previous blob
// first. A missing old blob is not an error.
func (s *ProfileService) UploadProfilePhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.gcs == nil || s.bucket == "" {
		return "", errors.New("blob storage not configured")
	}
	p, err := s.GetByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if p.ProfilePhoto != "" {
		if path, ok := s.objectPath(p.ProfilePhoto); ok {
			if err := helpers.DeleteObject(ctx, s.gcs, s.bucket, path); err != nil {
				return "", err
			}
		}
	}

	objectPath := fmt.Sprintf("users/%s/profile-photo/%d-%s", userID, time.Now().UnixMilli(), filepath.Base(filename))
	url, err := helpers.UploadObject(ctx, s.gcs, s.bucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	p.ProfilePhoto = url
	if err := s.profiles.Update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}

// UploadAdditionalPhoto appends to the gallery, capped at
// entity.MaxAdditionalPhotos.
func (s *ProfileService) UploadAdditionalPhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.gcs == nil || s.bucket == "" {
		return "", errors.New("blob storage not configured")
	}
	p, err := s.GetByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(p.AdditionalPhotos) >= entity.MaxAdditionalPhotos {
		return "", ErrPhotoLimit
	}

	objectPath := fmt.Sprintf("users/%s/additional-photos/%d-%s", userID, time.Now().UnixMilli(), filepath.Base(filename))
	url, err := helpers.UploadObject(ctx, s.gcs, s.bucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	p.AdditionalPhotos = append(p.AdditionalPhotos, url)
	if err := s.profiles.Update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}

// RemovePhoto drops a photo by URL. photoType is "profile" or "additional".
func (s *ProfileService) RemovePhoto(ctx context.Context, userID, photoURL, photoType string) error {
	p, err := s.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	switch photoType {
	case "profile":
		if p.ProfilePhoto != photoURL {
			return ErrNotFound
		}
		p.ProfilePhoto = ""
	case "additional":
		found := false
		for i, u := range p.AdditionalPhotos {
			if u == photoURL {
				p.AdditionalPhotos = append(p.AdditionalPhotos[:i:i], p.AdditionalPhotos[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return ErrNotFound
		}
	default:
		return ErrInvalidPhotoType
	}

	if path, ok := s.objectPath(photoURL); ok && s.gcs != nil {
		if err := helpers.DeleteObject(ctx, s.gcs, s.bucket, path); err != nil {
			return err
		}
	}
	return s.profiles.Update(ctx, p)
}

// Favorite marks another profile on the caller's favorites list; the
// relation is not reciprocal.
func (s *ProfileService) Favorite(ctx context.Context, userID, targetProfileID string) error {
	target, err := s.Get(ctx, targetProfileID)
	if err != nil {
		return err
	}
	p, err := s.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	p.AddFavorite(target.ID)
	return s.profiles.Update(ctx, p)
}

func (s *ProfileService) Unfavorite(ctx context.Context, userID, targetProfileID string) error {
	p, err := s.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	p.RemoveFavorite(targetProfileID)
	return s.profiles.Update(ctx, p)
}

func (s *ProfileService) ListFavorites(ctx context.Context, userID string) ([]*entity.Profile, error) {
	p, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profiles.GetByIDs(ctx, p.Favorites)
}

// objectPath maps a public blob URL back to the object path inside our
// bucket; foreign URLs are left alone.
func (s *ProfileService) objectPath(url string) (string, bool) {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucket)
	if strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix), true
	}
	return "", false
}

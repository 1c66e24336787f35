package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	repo "github.com/teamhm/matrimony-backend/internal/domain/repository"
	"github.com/teamhm/matrimony-backend/pkg/helpers"
	"github.com/teamhm/matrimony-backend/pkg/mailer"
)

// ApprovalService is the administrative gate that turns a pending submission
// into an authenticatable account.
type ApprovalService struct {
	users    repo.UserRepository
	profiles repo.ProfileRepository
	pub      EmailPublisher
	indexer  *ProfileIndexer
	logger   *logrus.Logger
	now      func() time.Time
}

func NewApprovalService(users repo.UserRepository, profiles repo.ProfileRepository, pub EmailPublisher, indexer *ProfileIndexer, logger *logrus.Logger) *ApprovalService {
	return &ApprovalService{
		users:    users,
		profiles: profiles,
		pub:      pub,
		indexer:  indexer,
		logger:   logger,
		now:      time.Now,
	}
}

// Approve issues credentials for the pending pair: a generated username, a
// hashed temporary password, and active status on both records in one
// transaction. The credentials mail is sent after commit; a delivery failure
// is logged but does not undo the approval.
func (s *ApprovalService) Approve(ctx context.Context, profileID string) (string, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if p.UserID == "" {
		return "", ErrNotFound
	}
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if u.Status == entity.StatusActive {
		return "", ErrAlreadyApproved
	}

	username, err := s.uniqueUsername(ctx, helpers.UsernameBase(p.Name, u.Email))
	if err != nil {
		return "", err
	}
	tempPassword, err := helpers.NewTempPassword()
	if err != nil {
		return "", err
	}
	hash, err := helpers.HashPassword(tempPassword)
	if err != nil {
		return "", err
	}

	u.Username = username
	u.Password = hash
	u.Status = entity.StatusActive
	p.IsApproved = true
	if err := s.users.UpdateWithProfile(ctx, u, p); err != nil {
		return "", err
	}

	if s.pub != nil {
		job := mailer.ApprovalJob(u.Email, username, tempPassword)
		if err := s.pub.PublishJSON(ctx, job); err != nil {
			s.logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue approval email failed")
		}
	}
	_ = s.indexer.IndexProfile(ctx, p)

	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "username": username}).Info("profile approved")
	return username, nil
}

// uniqueUsername resolves collisions by appending an increasing numeric
// suffix. Check-then-insert is fine here: approvals are admin-serialized and
// low frequency.
func (s *ApprovalService) uniqueUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		_, err := s.users.GetByUsername(ctx, candidate)
		if errors.Is(err, repo.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + strconv.Itoa(counter)
	}
}

// Suspend blocks login without touching approval state or credentials.
func (s *ApprovalService) Suspend(ctx context.Context, userID string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	u.Status = entity.StatusSuspended
	return s.users.Update(ctx, u)
}

// Delete removes the profile and its user together (terminal state).
func (s *ApprovalService) Delete(ctx context.Context, profileID string) error {
	if err := s.profiles.DeleteWithUser(ctx, profileID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	_ = s.indexer.DeleteProfile(ctx, profileID)
	return nil
}

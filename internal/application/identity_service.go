package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	repo "github.com/teamhm/matrimony-backend/internal/domain/repository"
	"github.com/teamhm/matrimony-backend/pkg/helpers"
	"github.com/teamhm/matrimony-backend/pkg/mailer"
)

const resetTokenTTL = time.Hour

// IdentityService orchestrates the account lifecycle: registration, login,
// logout, token refresh and password reset.
type IdentityService struct {
	users    repo.UserRepository
	jwt      *helpers.JWTManager
	pub      EmailPublisher
	logger   *logrus.Logger
	resetURL string
	now      func() time.Time
}

func NewIdentityService(users repo.UserRepository, jwt *helpers.JWTManager, pub EmailPublisher, logger *logrus.Logger, resetURL string) *IdentityService {
	return &IdentityService{
		users:    users,
		jwt:      jwt,
		pub:      pub,
		logger:   logger,
		resetURL: resetURL,
		now:      time.Now,
	}
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Register creates the profile and its pending user in one transaction. The
// account is not usable until an administrator approves it, so no tokens are
// returned.
func (s *IdentityService) Register(ctx context.Context, email string, profile *entity.Profile) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	profile.IsApproved = false
	profile.ProfilePhoto = ""
	profile.AdditionalPhotos = nil
	profile.Favorites = nil

	u := &entity.User{
		Email:  email,
		Role:   entity.RoleUser,
		Status: entity.StatusPending,
	}
	if err := s.users.CreateWithProfile(ctx, u, profile); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			// Lost the race between the existence check and the insert.
			return ErrDuplicateEmail
		}
		return err
	}
	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "profile_id": profile.ID}).Info("registration submitted")
	return nil
}

// Login authenticates and issues an access/refresh token pair. Expired
// sessions are purged opportunistically here; the new refresh token is
// appended with oldest-first eviction beyond the cap.
func (s *IdentityService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if !u.CanLogin() {
		return TokenPair{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return TokenPair{}, ErrInvalidCredentials
	}

	now := s.now()
	u.RefreshSessions = u.RefreshSessions.PurgeExpired(now)

	access, aexp, err := s.jwt.GenerateAccessToken(u.ID, u.IsAdmin())
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}

	u.RefreshSessions = u.RefreshSessions.Add(refresh, rexp)
	if err := s.users.Update(ctx, u); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: rexp,
	}, nil
}

// Logout revokes the single session holding the refresh token.
func (s *IdentityService) Logout(ctx context.Context, refreshToken string) error {
	u, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return ErrInvalidToken
	}
	list, ok := u.RefreshSessions.Revoke(refreshToken)
	if !ok {
		return ErrInvalidToken
	}
	u.RefreshSessions = list
	return s.users.Update(ctx, u)
}

// Refresh exchanges a stored, unexpired refresh token for a new access
// token. The refresh token itself is not rotated; it stays valid until its
// own expiry or an explicit logout.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	u, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, ErrInvalidOrExpiredToken
	}
	if !u.RefreshSessions.IsActive(refreshToken, s.now()) {
		return "", time.Time{}, ErrInvalidOrExpiredToken
	}
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil || claims.UserID != u.ID {
		return "", time.Time{}, ErrInvalidOrExpiredToken
	}
	access, exp, err := s.jwt.GenerateAccessToken(u.ID, u.IsAdmin())
	if err != nil {
		return "", time.Time{}, err
	}
	return access, exp, nil
}

// RequestPasswordReset issues a single-use reset token valid for one hour
// and mails the reset link out of band. Issuing a new token replaces any
// prior one.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	token, err := helpers.NewResetToken()
	if err != nil {
		return err
	}
	u.SetResetToken(token, s.now().Add(resetTokenTTL))
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	if s.pub != nil {
		job := mailer.PasswordResetJob(u.Email, s.resetURL+"/"+token)
		if err := s.pub.PublishJSON(ctx, job); err != nil {
			s.logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue reset email failed")
		}
	}
	return nil
}

// ResetPassword consumes the reset token: the new password hash and the
// token clearing land in the same write, so the token cannot be replayed.
func (s *IdentityService) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}
	if !u.ResetTokenValid(token, s.now()) {
		return ErrInvalidOrExpiredToken
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	u.ClearResetToken()
	return s.users.Update(ctx, u)
}

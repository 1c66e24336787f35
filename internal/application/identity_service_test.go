package application

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	"github.com/teamhm/matrimony-backend/pkg/helpers"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type identityFixture struct {
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	pub      *fakePublisher
	jwt      *helpers.JWTManager
	svc      *IdentityService
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo(profiles)
	pub := &fakePublisher{}
	jwt := helpers.NewJWTManager("acc", "ref", 15*time.Minute, 24*time.Hour)
	svc := NewIdentityService(users, jwt, pub, testLogger(), "https://app.example.com/reset-password")
	return &identityFixture{users: users, profiles: profiles, pub: pub, jwt: jwt, svc: svc}
}

// activeUser seeds an approved account ready to log in.
func (f *identityFixture) activeUser(t *testing.T, email, password string) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword(password)
	require.NoError(t, err)
	u := &entity.User{
		Email:    email,
		Username: "user" + email,
		Password: hash,
		Role:     entity.RoleUser,
		Status:   entity.StatusActive,
	}
	p := &entity.Profile{Name: "Test User", IsApproved: true}
	require.NoError(t, f.users.CreateWithProfile(context.Background(), u, p))
	return u
}

func TestRegisterCreatesPendingPair(t *testing.T) {
	f := newIdentityFixture(t)
	p := &entity.Profile{Name: "Asha Kumar", IsApproved: true, ProfilePhoto: "sneaky"}

	err := f.svc.Register(context.Background(), "  Asha@Example.COM ", p)
	require.NoError(t, err)

	u, err := f.users.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err, "email should be normalized before storage")
	assert.Equal(t, entity.StatusPending, u.Status)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.Empty(t, u.Username, "no credentials before approval")
	assert.Empty(t, u.Password)

	stored, err := f.profiles.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsApproved, "client cannot pre-approve itself")
	assert.Empty(t, stored.ProfilePhoto, "client cannot inject photo URLs")
	assert.Equal(t, u.ID, stored.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newIdentityFixture(t)
	require.NoError(t, f.svc.Register(context.Background(), "a@x.com", &entity.Profile{Name: "A"}))

	err := f.svc.Register(context.Background(), "A@X.com", &entity.Profile{Name: "B"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestLoginSuccess(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.activeUser(t, "a@x.com", "pass-1234")

	pair, err := f.svc.Login(context.Background(), "a@x.com", "pass-1234")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	stored := f.users.get(u.ID)
	require.Len(t, stored.RefreshSessions, 1)
	assert.Equal(t, pair.RefreshToken, stored.RefreshSessions[0].Token)
}

func TestLoginRejections(t *testing.T) {
	f := newIdentityFixture(t)
	f.activeUser(t, "active@x.com", "pass-1234")

	hash, err := helpers.HashPassword("pass-1234")
	require.NoError(t, err)
	for _, status := range []entity.Status{entity.StatusPending, entity.StatusSuspended} {
		u := &entity.User{Email: string(status) + "@x.com", Password: hash, Role: entity.RoleUser, Status: status}
		require.NoError(t, f.users.CreateWithProfile(context.Background(), u, &entity.Profile{Name: "X"}))
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@x.com", "pass-1234"},
		{"wrong password", "active@x.com", "wrong"},
		{"pending account", "pending@x.com", "pass-1234"},
		{"suspended account", "suspended@x.com", "pass-1234"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials, "all rejection causes must be indistinguishable")
		})
	}
}

func TestLoginEvictsOldestSession(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.activeUser(t, "a@x.com", "pass-1234")

	far := time.Now().Add(24 * time.Hour)
	stored := f.users.get(u.ID)
	for i := 0; i < entity.MaxRefreshSessions; i++ {
		stored.RefreshSessions = stored.RefreshSessions.Add("old-"+string(rune('a'+i)), far)
	}
	require.NoError(t, f.users.Update(context.Background(), &stored))

	pair, err := f.svc.Login(context.Background(), "a@x.com", "pass-1234")
	require.NoError(t, err)

	after := f.users.get(u.ID)
	require.Len(t, after.RefreshSessions, entity.MaxRefreshSessions)
	assert.Equal(t, "old-b", after.RefreshSessions[0].Token, "oldest session evicted")
	assert.Equal(t, pair.RefreshToken, after.RefreshSessions[entity.MaxRefreshSessions-1].Token)
}

func TestLoginPurgesExpiredSessions(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.activeUser(t, "a@x.com", "pass-1234")

	stored := f.users.get(u.ID)
	stored.RefreshSessions = stored.RefreshSessions.Add("dead", time.Now().Add(-time.Hour))
	stored.RefreshSessions = stored.RefreshSessions.Add("live", time.Now().Add(time.Hour))
	require.NoError(t, f.users.Update(context.Background(), &stored))

	_, err := f.svc.Login(context.Background(), "a@x.com", "pass-1234")
	require.NoError(t, err)

	after := f.users.get(u.ID)
	tokens := make([]string, 0, len(after.RefreshSessions))
	for _, s := range after.RefreshSessions {
		tokens = append(tokens, s.Token)
	}
	assert.NotContains(t, tokens, "dead")
	assert.Contains(t, tokens, "live", "unexpired sessions survive other devices' logins")
}

func TestLogoutRevokesSingleSession(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.activeUser(t, "a@x.com", "pass-1234")

	stored := f.users.get(u.ID)
	far := time.Now().Add(time.Hour)
	stored.RefreshSessions = stored.RefreshSessions.Add("other-device", far)
	require.NoError(t, f.users.Update(context.Background(), &stored))

	pair, err := f.svc.Login(context.Background(), "a@x.com", "pass-1234")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken))

	after := f.users.get(u.ID)
	require.Len(t, after.RefreshSessions, 1)
	assert.Equal(t, "other-device", after.RefreshSessions[0].Token)

	err = f.svc.Logout(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "second logout with the same token fails")
}

func TestBackToBackLoginsGetIndependentSessions(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.activeUser(t, "a@x.com", "pass-1234")

	p1, err := f.svc.Login(context.Background(), "a@x.com", "pass-1234")
	require.NoError(t, err)
	p2, err := f.svc.Login(context.Background(), "a@x.com", "pass-1234")
	require.NoError(t, err)
	require.NotEqual(t, p1.RefreshToken, p2.RefreshToken,
		"two logins must never share a refresh token, even within the same second")

	stored := f.users.get(u.ID)
	require.Len(t, stored.RefreshSessions, 2)

	require.NoError(t, f.svc.Logout(context.Background(), p1.RefreshToken))

	after := f.users.get(u.ID)
	require.Len(t, after.RefreshSessions, 1)
	assert.False(t, after.RefreshSessions.IsActive(p1.RefreshToken, time.Now()),
		"revoked token must not remain active")

	_, _, err = f.svc.Refresh(context.Background(), p1.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, _, err = f.svc.Refresh(context.Background(), p2.RefreshToken)
	assert.NoError(t, err, "the surviving session keeps working")
}

func TestLogoutUnknownToken(t *testing.T) {
	f := newIdentityFixture(t)
	err := f.svc.Logout(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	f := newIdentityFixture(t)
	f.activeUser(t, "a@x.com", "pass-1234")

	pair, err := f.svc.Login(context.Background(), "a@x.com", "pass-1234")
	require.NoError(t, err)

	access, exp, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.True(t, exp.After(time.Now()))

	claims, err := f.jwt.ParseAccessToken(access)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.UserID)
}

func TestRefreshAfterLogoutFails(t *testing.T) {
	f := newIdentityFixture(t)
	f.activeUser(t, "a@x.com", "pass-1234")

	pair, err := f.svc.Login(context.Background(), "a@x.com", "pass-1234")
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken))

	_, _, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRefreshExpiredSessionFails(t *testing.T) {
	f := newIdentityFixture(t)
	f.activeUser(t, "a@x.com", "pass-1234")

	pair, err := f.svc.Login(context.Background(), "a@x.com", "pass-1234")
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, _, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRequestPasswordReset(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.activeUser(t, "a@x.com", "pass-1234")

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "a@x.com"))

	stored := f.users.get(u.ID)
	assert.Len(t, stored.ResetToken, 40)
	require.NotNil(t, stored.ResetTokenExpiry)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetTokenExpiry, 5*time.Second)

	job := f.pub.last()
	require.NotNil(t, job)
	assert.Equal(t, "a@x.com", job["to"])
	assert.True(t, strings.Contains(job["text"], stored.ResetToken), "mail carries the reset link")
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	f := newIdentityFixture(t)
	err := f.svc.RequestPasswordReset(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResetPasswordConsumesToken(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.activeUser(t, "a@x.com", "old-pass-1")

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "a@x.com"))
	token := f.users.get(u.ID).ResetToken

	require.NoError(t, f.svc.ResetPassword(context.Background(), token, "new-pass-1"))

	stored := f.users.get(u.ID)
	assert.Empty(t, stored.ResetToken)
	assert.Nil(t, stored.ResetTokenExpiry)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "new-pass-1"))
	assert.False(t, helpers.CompareHashAndPassword(stored.Password, "old-pass-1"))

	err := f.svc.ResetPassword(context.Background(), token, "again-1234")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken, "token is single use")
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.activeUser(t, "a@x.com", "old-pass-1")

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "a@x.com"))
	token := f.users.get(u.ID).ResetToken

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	err := f.svc.ResetPassword(context.Background(), token, "new-pass-1")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	f := newIdentityFixture(t)
	err := f.svc.ResetPassword(context.Background(), "bogus", "new-pass-1")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestResetEmailFailureDoesNotUndoToken(t *testing.T) {
	f := newIdentityFixture(t)
	u := f.activeUser(t, "a@x.com", "pass-1234")
	f.pub.fail = assert.AnError

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "a@x.com"), "delivery failure is not surfaced")
	assert.NotEmpty(t, f.users.get(u.ID).ResetToken)
}

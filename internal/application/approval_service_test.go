package application

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	"github.com/teamhm/matrimony-backend/pkg/helpers"
)

type approvalFixture struct {
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	pub      *fakePublisher
	svc      *ApprovalService
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo(profiles)
	pub := &fakePublisher{}
	indexer := NewProfileIndexer(nil, "", testLogger())
	svc := NewApprovalService(users, profiles, pub, indexer, testLogger())
	return &approvalFixture{users: users, profiles: profiles, pub: pub, svc: svc}
}

func (f *approvalFixture) pendingPair(t *testing.T, name, email string) (*entity.User, *entity.Profile) {
	t.Helper()
	u := &entity.User{Email: email, Role: entity.RoleUser, Status: entity.StatusPending}
	p := &entity.Profile{Name: name}
	require.NoError(t, f.users.CreateWithProfile(context.Background(), u, p))
	return u, p
}

var tempPasswordRe = regexp.MustCompile(`Password: ([a-z0-9]{8})`)

func TestApproveIssuesCredentials(t *testing.T) {
	f := newApprovalFixture(t)
	u, p := f.pendingPair(t, "Asha Kumar", "asha@example.com")

	username, err := f.svc.Approve(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ashaasha", username)

	after := f.users.get(u.ID)
	assert.Equal(t, entity.StatusActive, after.Status)
	assert.Equal(t, username, after.Username)
	assert.NotEmpty(t, after.Password)

	stored, err := f.profiles.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)

	job := f.pub.last()
	require.NotNil(t, job, "approval email enqueued")
	assert.Equal(t, "asha@example.com", job["to"])
	m := tempPasswordRe.FindStringSubmatch(job["text"])
	require.Len(t, m, 2, "mail carries the temporary password")
	assert.True(t, helpers.CompareHashAndPassword(after.Password, m[1]),
		"mailed password matches the stored hash")
}

func TestApproveDisambiguatesUsername(t *testing.T) {
	f := newApprovalFixture(t)
	_, p1 := f.pendingPair(t, "Asha Kumar", "asha@example.com")
	_, p2 := f.pendingPair(t, "Asha Kumari", "asha@other.org")

	u1, err := f.svc.Approve(context.Background(), p1.ID)
	require.NoError(t, err)
	u2, err := f.svc.Approve(context.Background(), p2.ID)
	require.NoError(t, err)

	assert.Equal(t, "Ashaasha", u1)
	assert.Equal(t, "Ashaasha1", u2, "collision resolved with numeric suffix")
}

func TestApproveTwiceFails(t *testing.T) {
	f := newApprovalFixture(t)
	_, p := f.pendingPair(t, "Asha Kumar", "asha@example.com")

	_, err := f.svc.Approve(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestApproveUnknownProfile(t *testing.T) {
	f := newApprovalFixture(t)
	_, err := f.svc.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApproveSurvivesEmailFailure(t *testing.T) {
	f := newApprovalFixture(t)
	u, p := f.pendingPair(t, "Asha Kumar", "asha@example.com")
	f.pub.fail = assert.AnError

	_, err := f.svc.Approve(context.Background(), p.ID)
	require.NoError(t, err, "mail failure must not roll back the approval")
	assert.Equal(t, entity.StatusActive, f.users.get(u.ID).Status)
}

func TestSuspend(t *testing.T) {
	f := newApprovalFixture(t)
	u, p := f.pendingPair(t, "Asha Kumar", "asha@example.com")
	_, err := f.svc.Approve(context.Background(), p.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Suspend(context.Background(), u.ID))
	after := f.users.get(u.ID)
	assert.Equal(t, entity.StatusSuspended, after.Status)
	assert.NotEmpty(t, after.Username, "suspension keeps the issued credentials")

	err = f.svc.Suspend(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newApprovalFixture(t)
	_, p := f.pendingPair(t, "Asha Kumar", "asha@example.com")

	require.NoError(t, f.svc.Delete(context.Background(), p.ID))
	_, err := f.profiles.GetByID(context.Background(), p.ID)
	assert.Error(t, err)

	err = f.svc.Delete(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

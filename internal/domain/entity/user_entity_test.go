package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionListAddEvictsOldest(t *testing.T) {
	now := time.Now()
	var l SessionList
	for i := 0; i < MaxRefreshSessions; i++ {
		l = l.Add(fmt.Sprintf("t%d", i), now.Add(time.Hour))
	}
	require.Len(t, l, MaxRefreshSessions)

	l = l.Add("t5", now.Add(time.Hour))
	require.Len(t, l, MaxRefreshSessions)
	assert.Equal(t, "t1", l[0].Token, "oldest entry should be evicted")
	assert.Equal(t, "t5", l[len(l)-1].Token)
}

func TestSessionListPurgeExpired(t *testing.T) {
	now := time.Now()
	var l SessionList
	l = l.Add("expired", now.Add(-time.Minute))
	l = l.Add("boundary", now)
	l = l.Add("live", now.Add(time.Hour))

	purged := l.PurgeExpired(now)
	require.Len(t, purged, 1)
	assert.Equal(t, "live", purged[0].Token)
}

func TestPurgeExpiredLeavesReceiverIntact(t *testing.T) {
	now := time.Now()
	l := SessionList{
		{Token: "dead", ExpiresAt: now.Add(-time.Minute)},
		{Token: "live", ExpiresAt: now.Add(time.Hour)},
	}

	_ = l.PurgeExpired(now)

	require.Len(t, l, 2)
	assert.Equal(t, "dead", l[0].Token)
	assert.Equal(t, "live", l[1].Token)
}

func TestSessionListRevoke(t *testing.T) {
	now := time.Now()
	var l SessionList
	l = l.Add("a", now.Add(time.Hour))
	l = l.Add("b", now.Add(time.Hour))
	l = l.Add("c", now.Add(time.Hour))

	l, ok := l.Revoke("b")
	require.True(t, ok)
	require.Len(t, l, 2)
	assert.Equal(t, "a", l[0].Token)
	assert.Equal(t, "c", l[1].Token)

	l, ok = l.Revoke("missing")
	assert.False(t, ok)
	assert.Len(t, l, 2)
}

func TestSessionListIsActive(t *testing.T) {
	now := time.Now()
	var l SessionList
	l = l.Add("live", now.Add(time.Hour))
	l = l.Add("dead", now.Add(-time.Hour))

	assert.True(t, l.IsActive("live", now))
	assert.False(t, l.IsActive("dead", now), "present but expired token is not active")
	assert.False(t, l.IsActive("missing", now))
}

func TestResetTokenValid(t *testing.T) {
	now := time.Now()
	u := &User{}

	assert.False(t, u.ResetTokenValid("x", now), "no token issued")

	u.SetResetToken("tok", now.Add(time.Hour))
	assert.True(t, u.ResetTokenValid("tok", now))
	assert.False(t, u.ResetTokenValid("other", now))
	assert.False(t, u.ResetTokenValid("tok", now.Add(2*time.Hour)), "expired")
	assert.False(t, u.ResetTokenValid("", now))

	u.ClearResetToken()
	assert.False(t, u.ResetTokenValid("tok", now), "consumed token cannot be replayed")
}

func TestCanLogin(t *testing.T) {
	u := &User{Status: StatusPending}
	assert.False(t, u.CanLogin())
	u.Status = StatusActive
	assert.True(t, u.CanLogin())
	u.Status = StatusSuspended
	assert.False(t, u.CanLogin())
}

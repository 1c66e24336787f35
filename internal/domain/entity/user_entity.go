package entity

import (
	"time"
)

// Status is the lifecycle state of a user account. A submission starts
// pending, approval makes it active, and suspension blocks login without
// touching the issued credentials.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MaxRefreshSessions bounds the number of refresh tokens a user may hold at
// once; the oldest-issued entry is evicted when the cap is exceeded.
const MaxRefreshSessions = 5

// User is the aggregate root for the identity domain.
// Password holds a bcrypt hash; plaintext is never persisted.
type User struct {
	ID               string
	Email            string
	Username         string // empty until approval
	Password         string // bcrypt hash, empty until approval
	Role             string // RoleUser | RoleAdmin
	Status           Status
	ProfileID        string // owning reference, set at creation
	ResetToken       string
	ResetTokenExpiry *time.Time
	RefreshSessions  SessionList
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogin reports whether the account is in a state that permits
// authentication. Callers still verify the password separately.
func (u *User) CanLogin() bool {
	return u.Status == StatusActive
}

// SetResetToken installs a single-use password reset token, replacing any
// prior value.
func (u *User) SetResetToken(token string, expiry time.Time) {
	u.ResetToken = token
	u.ResetTokenExpiry = &expiry
}

// ClearResetToken consumes the reset token so it cannot be replayed.
func (u *User) ClearResetToken() {
	u.ResetToken = ""
	u.ResetTokenExpiry = nil
}

// ResetTokenValid reports whether the stored reset token matches and has not
// expired.
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	if u.ResetToken == "" || u.ResetTokenExpiry == nil || token == "" {
		return false
	}
	return u.ResetToken == token && u.ResetTokenExpiry.After(now)
}

// RefreshSession is one outstanding refresh token, independently revocable.
type RefreshSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionList is the ordered (oldest-issued-first) set of refresh sessions
// embedded in the user record.
type SessionList []RefreshSession

// Add appends a session and evicts from the front until the list is within
// MaxRefreshSessions.
func (l SessionList) Add(token string, expiresAt time.Time) SessionList {
	l = append(l, RefreshSession{Token: token, ExpiresAt: expiresAt})
	if n := len(l); n > MaxRefreshSessions {
		l = l[n-MaxRefreshSessions:]
	}
	return l
}

// PurgeExpired drops entries whose expiry is at or before now. Invoked
// opportunistically at login rather than on a timer. The receiver is left
// untouched.
func (l SessionList) PurgeExpired(now time.Time) SessionList {
	out := make(SessionList, 0, len(l))
	for _, s := range l {
		if s.ExpiresAt.After(now) {
			out = append(out, s)
		}
	}
	return out
}

// Revoke removes the single matching entry. The second return value is false
// when no entry held the token.
func (l SessionList) Revoke(token string) (SessionList, bool) {
	for i, s := range l {
		if s.Token == token {
			return append(l[:i:i], l[i+1:]...), true
		}
	}
	return l, false
}

// IsActive reports whether the token is present and unexpired.
func (l SessionList) IsActive(token string, now time.Time) bool {
	for _, s := range l {
		if s.Token == token {
			return s.ExpiresAt.After(now)
		}
	}
	return false
}

package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const tempPasswordLength = 8

// NewTempPassword generates a short random password handed out on approval.
// The recipient is told to change it on first login.
func NewTempPassword() (string, error) {
	b := make([]byte, tempPasswordLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = tempPasswordAlphabet[int(b[i])%len(tempPasswordAlphabet)]
	}
	return string(b), nil
}

// NewResetToken generates an opaque password-reset token: 20 random bytes,
// hex encoded (160 bits of entropy).
func NewResetToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// UsernameBase derives the starting username for an approved candidate:
// first word of the profile name followed by the email local part.
// Collisions are resolved by the caller with a numeric suffix.
func UsernameBase(name, email string) string {
	first := name
	if i := strings.IndexByte(name, ' '); i >= 0 {
		first = name[:i]
	}
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	return first + local
}

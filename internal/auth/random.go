package auth

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// GenerateOpaqueToken returns a URL-safe random token with n bytes of
// entropy. Used for submission tracking tokens and review access tokens.
func GenerateOpaqueToken(n int) (string, error) {
	if n < 20 {
		n = 20
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// referral codes avoid look-alike characters so they survive being read
// aloud or retyped
const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode returns a human-enterable single-use invite code.
func GenerateReferralCode() (string, error) {
	const length = 10

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(length + 1)
	for i, b := range buf {
		if i == length/2 {
			sb.WriteByte('-')
		}
		sb.WriteByte(referralAlphabet[int(b)%len(referralAlphabet)])
	}
	return sb.String(), nil
}

// Package signature verifies webhook payload signatures.
//
// The upstream chat platform signs the exact raw request body with
// HMAC-SHA256, base64-encodes the digest and sends it in the x-signature
// header. Verification recomputes the digest and compares in constant time.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Header is the request header carrying the base64 HMAC-SHA256 digest.
const Header = "x-signature"

// Verify reports whether sig is a valid base64 HMAC-SHA256 of rawBody under
// secret. Malformed input never panics; it simply fails verification. An
// empty secret always fails, callers must treat missing configuration as a
// separate error before calling.
func Verify(rawBody []byte, sig, secret string) bool {
	sig = strings.TrimSpace(sig)
	if sig == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}

// Sign computes the base64 HMAC-SHA256 digest clients are expected to send.
// Used by tests and local tooling.
func Sign(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

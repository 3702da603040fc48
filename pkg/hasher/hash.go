// Package hasher derives short non-reversible fingerprints of secrets so they can be correlated in logs.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintLen is the number of hex characters kept from the digest.
const FingerprintLen = 12

// Fingerprint returns the first FingerprintLen hex characters of SHA-256(s).
// An empty input yields an empty fingerprint.
func Fingerprint(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:FingerprintLen]
}

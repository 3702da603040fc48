package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	// SHA-256("hello") = 2cf24dba5fb0...
	assert.Equal(t, "2cf24dba5fb0", Fingerprint("hello"))
	assert.Equal(t, Fingerprint("token"), Fingerprint("token"))
	assert.NotEqual(t, Fingerprint("a"), Fingerprint("b"))
	assert.Len(t, Fingerprint("eyJhbGciOiJIUzI1NiJ9.e30.sig"), FingerprintLen)
	assert.Empty(t, Fingerprint(""))
}

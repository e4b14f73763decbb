package sharelink

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of a raw share token: 32 bytes (256 bits),
// hex-encoded to a 64-character string.
const tokenBytes = 32

// TokenLength is the length of an encoded share token.
const TokenLength = tokenBytes * 2

// GenerateToken returns a new high-entropy share token. Each call produces
// an independent value from the OS CSPRNG.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashToken returns the hex-encoded SHA-256 fingerprint of a token. Only the
// fingerprint is ever persisted; the raw token exists transiently.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyToken reports whether the presented token matches a stored
// fingerprint. The presented token is hashed first so both operands are
// fixed-length digests, then compared in constant time: the comparison does
// not short-circuit on length or on the position of the first differing
// byte. Malformed input of any kind yields false, never an error.
func VerifyToken(presented, storedFingerprint string) bool {
	stored, err := hex.DecodeString(storedFingerprint)
	if err != nil || len(stored) != sha256.Size {
		return false
	}
	digest := sha256.Sum256([]byte(presented))
	return subtle.ConstantTimeCompare(digest[:], stored) == 1
}

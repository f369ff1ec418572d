// Package password wraps bcrypt hashing behind the two operations the auth
// service needs.
package password

import "golang.org/x/crypto/bcrypt"

// cost trades brute-force resistance against login latency.
const cost = 10

// Hash produces a salted one-way digest. The salt is random per call, so the
// same plaintext never yields the same digest twice.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed digests compare
// false rather than erroring; bcrypt's comparison is constant-time.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// Package password wraps bcrypt so hashing happens in exactly one place,
// regardless of which persistence backend is configured.
package password

import "golang.org/x/crypto/bcrypt"

// Hash returns the salted bcrypt hash of a plaintext password. Two calls
// with the same input produce different hashes.
func Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored hash.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the credential store was seeded with.
const bcryptCost = 12

// HashPassword derives a salted one-way digest from a plaintext password.
// Each call salts independently, so the same plaintext never yields the same
// digest twice. Hashing happens exactly once per password, at registration.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

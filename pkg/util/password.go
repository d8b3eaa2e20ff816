package util

import "golang.org/x/crypto/bcrypt"

// Cost 12 keeps a hash around 250ms on current hardware, slow enough for
// stored credentials without stalling registration.
const passwordHashCost = 12

// HashPassword derives a bcrypt hash for storing a user credential
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash. Any
// comparison failure, including a malformed hash, counts as a mismatch.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor. 10 rounds keeps login latency
// acceptable while staying expensive enough to brute-force.
const HashCost = 10

// HashPassword derives an irreversible salted hash from a plain text
// password. The plaintext must never be stored or logged.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword verifies a plain text password against a stored hash.
// bcrypt performs the comparison in constant time.
func ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

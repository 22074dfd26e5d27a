package hasher

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters for lobby passwords. Account passwords use bcrypt in the
// user controller; lobby passwords carry their salt inline so Verify never
// needs a second lookup.
const (
	saltLength = 16
	iterations = 10000
	keyLength  = 32
)

// Hash derives a salted key from password and returns it encoded as
// base64(salt) + "." + base64(key).
func Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("error generating salt: %v", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return base64.StdEncoding.EncodeToString(salt) + "." +
		base64.StdEncoding.EncodeToString(key), nil
}

// Verify re-derives the key with the stored salt and compares in constant
// time. Both inputs empty means "no password required" and verifies true;
// exactly one empty verifies false. Malformed stored hashes verify false,
// they never surface as an error.
func Verify(password, stored string) bool {
	if password == "" && stored == "" {
		return true
	}
	if password == "" || stored == "" {
		return false
	}

	parts := strings.Split(stored, ".")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	key, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, iterations, len(key), sha256.New)
	return subtle.ConstantTimeCompare(key, derived) == 1
}

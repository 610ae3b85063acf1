package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 1000
	keyLength      = 64 // 512-bit derived key
	saltSize       = 16

	passwordMinLength = 8
	passwordMaxLength = 20

	// passwordSymbols is the fixed punctuation set a password must draw
	// at least one character from.
	passwordSymbols = "!@#&()-[{}]:;',?/*~$^+=<>"
)

// ErrCryptoUnavailable signals that the KDF primitive could not be
// instantiated (in practice: the system entropy source failed). Callers
// treat it as an internal condition and never surface it to the wire.
var ErrCryptoUnavailable = errors.New("crypto primitive unavailable")

// ValidatePassword reports whether the password meets the strength
// policy: 8-20 characters with at least one lowercase letter, one
// uppercase letter, one digit and one symbol from the fixed set.
func ValidatePassword(password string) bool {
	// Length is counted in characters, not bytes.
	if n := utf8.RuneCountInString(password); n < passwordMinLength || n > passwordMaxLength {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	return lower && upper && digit && symbol
}

// HashPassword derives a salted PBKDF2 hash of the password and returns
// it encoded as "salt-hex:hash-hex". A fresh random salt is generated
// on every call.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: generating salt: %v", ErrCryptoUnavailable, err)
	}

	hash := pbkdf2.Key([]byte(password), salt, hashIterations, keyLength, sha512.New)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(hash), nil
}

// VerifyPassword re-derives the hash of the candidate password with the
// given salt and compares it against expectedHashHex in constant time.
func VerifyPassword(expectedHashHex, saltHex, password string) (bool, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}

	expected, err := hex.DecodeString(expectedHashHex)
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}

	hash := pbkdf2.Key([]byte(password), salt, hashIterations, keyLength, sha512.New)

	return subtle.ConstantTimeCompare(hash, expected) == 1, nil
}

// SplitHash separates a stored "salt-hex:hash-hex" credential into its
// parts.
func SplitHash(encoded string) (saltHex, hashHex string, err error) {
	salt, hash, found := strings.Cut(encoded, ":")
	if !found {
		return "", "", fmt.Errorf("malformed credential %q", encoded)
	}
	return salt, hash, nil
}

// Package cryptox implements the salted password digest stored in the
// credential file.
//
// Encoded form: "<sha256(password+salt) hex>:<salt hex>". Entries written
// before salting was introduced hold only the unsalted hex digest; they are
// still verified.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/salarygate/internal/common"
)

// SaltSize is the number of random bytes in a generated salt.
const SaltSize = 16

const separator = ":"

// HashPassword hashes password with a freshly generated salt.
func HashPassword(password string) (string, error) {
	salt, err := common.MakeRandHexString(SaltSize)
	if err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	return HashPasswordWithSalt(password, salt), nil
}

// HashPasswordWithSalt is deterministic: the same password and salt always
// produce the same encoded string.
func HashPasswordWithSalt(password, salt string) string {
	return digest(password+salt) + separator + salt
}

// VerifyPassword reports whether password matches the stored encoding.
func VerifyPassword(stored, password string) bool {
	hashPart, salt, salted := strings.Cut(stored, separator)
	if !salted {
		return equal(stored, digest(password))
	}
	return equal(hashPart, digest(password+salt))
}

// IsSalted reports whether stored uses the salted encoding.
func IsSalted(stored string) bool {
	return strings.Contains(stored, separator)
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

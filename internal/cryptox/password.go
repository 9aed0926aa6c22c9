// Package cryptox implements the password-record scheme: a fresh random salt
// per password-set event and a slow, memory-hard key derivation, stored as
// "<hex-salt>.<hex-derived-key>". The plaintext never leaves this package.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/scrypt"

	"github.com/ykachan/blogapi/internal/common"
)

// scrypt parameters are a security-critical choice: they must keep brute-force
// search on commodity hardware infeasible. Changing them invalidates no stored
// records (each record re-derives with the salt it carries) but new records
// should only ever raise the cost.
const (
	saltSize = 8 // random bytes; doubles to 16 hex chars in the record
	scryptN  = 16384
	scryptR  = 8
	scryptP  = 1
	keyLen   = 32
)

func deriveKey(password, salt string) ([]byte, error) {
	return scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, keyLen)
}

// HashPassword derives a password record from the plaintext. Every call
// generates a fresh salt, so two records for the same password differ.
func HashPassword(password string) (string, error) {
	salt, err := common.MakeRandHexString(saltSize)
	if err != nil {
		return "", err
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return "", err
	}
	return salt + "." + hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the key from the candidate plaintext using the
// salt embedded in the stored record and compares it in constant time.
// Malformed records verify as false, never as an error.
func VerifyPassword(password, stored string) bool {
	salt, expectedHex, found := strings.Cut(stored, ".")
	if !found {
		return false
	}
	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		return false
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, expected) == 1
}

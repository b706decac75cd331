// Package crypto provides password hashing using Argon2id.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrInvalidHash indicates the hash string format is invalid
	ErrInvalidHash = errors.New("crypto: invalid hash format")

	// ErrMismatchedHash indicates password verification failed
	ErrMismatchedHash = errors.New("crypto: password does not match hash")
)

// Params defines parameters for the Argon2id algorithm.
type Params struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns recommended parameters for Argon2id.
// Hashing time: ~100-200ms on modern hardware.
func DefaultParams() *Params {
	return &Params{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// PasswordHasher provides password hashing using Argon2id.
type PasswordHasher struct {
	params *Params
}

// NewPasswordHasher creates a new password hasher with default parameters.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{params: DefaultParams()}
}

// NewPasswordHasherWithParams creates a password hasher with custom parameters.
func NewPasswordHasherWithParams(params *Params) *PasswordHasher {
	return &PasswordHasher{params: params}
}

// Hash generates an Argon2id hash of the password.
// Returns a formatted string: $argon2id$v=19$m=65536,t=3,p=2$salt$hash
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("crypto: password cannot be empty")
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("crypto: failed to generate salt: %w", err)
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		b64Salt,
		b64Hash,
	)

	return encoded, nil
}

// Verify checks if the password matches the hash.
func (h *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	if password == "" {
		return false, errors.New("crypto: password cannot be empty")
	}
	if encodedHash == "" {
		return false, errors.New("crypto: hash cannot be empty")
	}

	params, salt, hash, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	computedHash := argon2.IDKey(
		[]byte(password),
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		params.KeyLength,
	)

	// Constant-time comparison to prevent timing attacks
	if subtle.ConstantTimeCompare(hash, computedHash) == 1 {
		return true, nil
	}

	return false, nil
}

// VerifyOrError is like Verify but returns an error if verification fails.
func (h *PasswordHasher) VerifyOrError(password, encodedHash string) error {
	match, err := h.Verify(password, encodedHash)
	if err != nil {
		return err
	}
	if !match {
		return ErrMismatchedHash
	}
	return nil
}

// decodeHash parses an encoded hash string.
func decodeHash(encodedHash string) (*Params, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, ErrInvalidHash
	}

	if parts[1] != "argon2id" {
		return nil, nil, nil, errors.New("crypto: unsupported algorithm")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("crypto: invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("crypto: incompatible version %d", version)
	}

	params := &Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("crypto: invalid parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("crypto: invalid salt: %w", err)
	}
	params.SaltLength = uint32(len(salt))

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("crypto: invalid hash: %w", err)
	}
	params.KeyLength = uint32(len(hash))

	return params, salt, hash, nil
}

// HashPassword is a convenience function using default parameters.
func HashPassword(password string) (string, error) {
	return NewPasswordHasher().Hash(password)
}

// VerifyPassword is a convenience function for password verification.
func VerifyPassword(password, hash string) (bool, error) {
	return NewPasswordHasher().Verify(password, hash)
}

// Package cryptox hashes and verifies secrets: account passwords and the
// account context strings that back emailed links.
package cryptox

import (
	"fmt"
	"strings"
)

// Supported algorithm names for New.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

// Hasher produces salted slow digests and checks secrets against them.
// Verify never returns an error: a malformed digest simply does not match.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

// PasswordHasher hashes with one configured algorithm but verifies digests
// produced by any supported one, so switching the algorithm does not lock
// out existing accounts.
type PasswordHasher struct {
	primary Hasher
	argon2  *Argon2
	bcrypt  *Bcrypt
}

// New returns a PasswordHasher that hashes with algorithm.
func New(algorithm string, bcryptCost int) (*PasswordHasher, error) {
	a, err := NewArgon2(DefaultArgon2Params)
	if err != nil {
		return nil, err
	}
	b, err := NewBcrypt(bcryptCost)
	if err != nil {
		return nil, err
	}

	h := &PasswordHasher{argon2: a, bcrypt: b}
	switch algorithm {
	case AlgorithmArgon2id, "":
		h.primary = a
	case AlgorithmBcrypt:
		h.primary = b
	default:
		return nil, fmt.Errorf("cryptox: unsupported algorithm %q", algorithm)
	}
	return h, nil
}

func (h *PasswordHasher) Hash(secret string) (string, error) {
	return h.primary.Hash(secret)
}

func (h *PasswordHasher) Verify(secret, digest string) bool {
	switch {
	case strings.HasPrefix(digest, argon2Prefix):
		return h.argon2.Verify(secret, digest)
	case isBcryptDigest(digest):
		return h.bcrypt.Verify(secret, digest)
	default:
		return false
	}
}

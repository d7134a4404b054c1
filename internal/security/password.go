package security

import (
	"errors"
	"fmt"

	"github.com/cwrk-planet/creator-hub/internal/errs"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultMinPasswordLength = 8
	DefaultBcryptCost        = bcrypt.DefaultCost
)

type BcryptConfig struct {
	Cost      int // по умолчанию bcrypt.DefaultCost
	MinLength int // по умолчанию 8
}

// HashPassword returns a salted bcrypt hash. Empty or short input is rejected.
func HashPassword(plain string, cfg *BcryptConfig) (string, error) {
	minLen := DefaultMinPasswordLength
	cost := DefaultBcryptCost

	if cfg != nil {
		if cfg.MinLength > 0 {
			minLen = cfg.MinLength
		}
		if cfg.Cost > 0 {
			cost = cfg.Cost
		}
	}

	if plain == "" {
		return "", errs.Invalid("password", "is required")
	}
	if len(plain) < minLen {
		return "", errs.Invalid("password", fmt.Sprintf("must be at least %d characters", minLen))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", errs.Invalid("password", "must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword fails closed: empty input or a malformed hash never matches.
func VerifyPassword(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

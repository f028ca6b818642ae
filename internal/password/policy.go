// Package password enforces the password strength policy and wraps the
// one-way credential hash.
package password

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const symbols = "!@#$%^&*._-"

// Policy validates password strength and hashes credentials with bcrypt.
type Policy struct {
	cost int
}

// NewPolicy constructs a Policy with the given bcrypt cost. Costs outside the
// bcrypt range fall back to the default cost.
func NewPolicy(cost int) *Policy {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Policy{cost: cost}
}

// IsStrong reports whether the password is at least 8 characters long and
// contains at least 3 of: uppercase, lowercase, digit, symbol.
func (p *Policy) IsStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(symbols, r):
			symbol = true
		}
	}
	classes := 0
	for _, ok := range []bool{upper, lower, digit, symbol} {
		if ok {
			classes++
		}
	}
	return classes >= 3
}

// Hash derives a salted bcrypt hash from the password.
func (p *Policy) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the password matches the stored hash. Comparison is
// delegated to bcrypt; raw strings are never compared.
func (p *Policy) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

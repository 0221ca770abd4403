package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	min  = 100000
	span = 900000
)

// Issue generates a 6-digit numeric code uniform over [100000, 999999].
// Codes carry no expiry of their own; single-use semantics are enforced by
// the caller rotating the stored code after every successful match.
func Issue() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+min), nil
}

// Matches reports whether the supplied code equals the stored one.
func Matches(stored, supplied string) bool {
	return stored != "" && stored == supplied
}

package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string for catalog units and items seeded without an
// identifier. The timestamp prefix keeps seeded records lexicographically
// ordered by load time, and the value is safe as a DynamoDB partition key.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

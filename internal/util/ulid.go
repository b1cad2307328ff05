package util

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewRequestID generates a new ULID string used as the request id
func NewRequestID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.Reader, 0)

	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

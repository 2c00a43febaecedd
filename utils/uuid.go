package utils

import (
	"time"

	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier string
func GenerateID() string {
	return uuid.New().String()
}

// Now returns the current UTC time at millisecond precision, the resolution every store keeps
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

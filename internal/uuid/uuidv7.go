// Package uuid generates time-ordered identifiers for issued tokens.
package uuid

import googleuuid "github.com/google/uuid"

// New returns a UUIDv7 string, falling back to a random v4 if the v7
// generator cannot read entropy.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	return googleuuid.Validate(s) == nil
}

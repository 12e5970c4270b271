package utils

import "github.com/google/uuid"

// GenerateID returns a new random (v4) primary key.
func GenerateID() string {
	return uuid.NewString()
}

// IsUUID reports whether s is a canonical id as produced by GenerateID.
// Path parameters that fail it cannot name any record.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

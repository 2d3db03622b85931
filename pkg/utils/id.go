package utils

import "github.com/google/uuid"

func NewID() string { return uuid.NewString() }

// IsValidID reports whether s is a well-formed UUID.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

package core

import (
	"strings"
	"time"
)

// DateLayout is the layout of calendar dates exchanged with clients (eg. 2023-06-01).
const DateLayout = "2006-01-02"

// CleanString strips surrounding whitespace; pass true to lowercase the result as well.
func CleanString(s string, lower ...bool) string {
	if s = strings.TrimSpace(s); len(lower) == 0 || !lower[0] {
		return s
	}
	return strings.ToLower(s)
}

// IsDate tells whether s is a calendar date in DateLayout.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today returns the current UTC date formatted with DateLayout.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

package id

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns exactly 32 lowercase hex characters: a random UUID
// without separators.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsID32 reports whether s has the NewID32 shape. Account, loan and caller
// identities all use it.
func IsID32(s string) bool { return reHex32.MatchString(s) }

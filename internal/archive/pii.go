package archive

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// HashPhone returns the hex-encoded SHA-256 hash of a phone number with
// formatting characters removed, so "+66 92-006-8100" and "+66920068100" match.
func HashPhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, phone)
	h := sha256.Sum256([]byte(digits))
	return fmt.Sprintf("%x", h)
}

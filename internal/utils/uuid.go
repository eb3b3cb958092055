package utils

import (
	"strings"

	"github.com/google/uuid"
)

const maxRequestIDLen = 64

// RequestID returns the caller supplied id when it is short and printable,
// otherwise a fresh uuid.
func RequestID(supplied string) string {
	supplied = strings.TrimSpace(supplied)
	if supplied != "" && len(supplied) <= maxRequestIDLen && isPrintableASCII(supplied) {
		return supplied
	}
	return uuid.NewString()
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

package wizard

import (
	"regexp"
	"strings"
)

const localMobileLen = 9

var reKenyanMobile = regexp.MustCompile(`^254[71]\d{8}$`)

// FormatPhoneNumber strips everything but digits and rewrites local Kenyan
// numbers to the 254 prefix. A bare 7/1 prefix is only taken as a mobile
// number when the rest of it is there (9 digits). Other input is returned as
// bare digits.
func FormatPhoneNumber(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	switch {
	case strings.HasPrefix(digits, "0"):
		return "254" + digits[1:]
	case strings.HasPrefix(digits, "254"):
		return digits
	case len(digits) == localMobileLen && (digits[0] == '7' || digits[0] == '1'):
		return "254" + digits
	}
	return digits
}

func ValidatePhoneNumber(phone string) bool {
	return reKenyanMobile.MatchString(FormatPhoneNumber(phone))
}

package phone

import "strings"

// Format normalizes a phone number to E.164, assuming India (+91)
// when no country code can be inferred.
func Format(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return "+" + digits
	case len(digits) == 10:
		return "+91" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return "+91" + digits[1:]
	case strings.HasPrefix(phone, "+"):
		return phone
	default:
		return "+91" + digits
	}
}

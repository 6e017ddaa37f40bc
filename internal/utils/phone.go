package utils

import "strings"

// phoneSuffixLen keeps DDD + number for Brazilian mobiles, which is what the
// customer directory stores. Gateways disagree on country-code formatting
// ("whatsapp:+5511972508430", "+55 11 97250-8430", "5511972508430"), so the
// stable identity is the digit suffix.
const phoneSuffixLen = 11

// NormalizePhone derives the stable user identifier from a raw sender string:
// strip everything that is not a digit and keep the last 11 digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > phoneSuffixLen {
		digits = digits[len(digits)-phoneSuffixLen:]
	}
	return digits
}

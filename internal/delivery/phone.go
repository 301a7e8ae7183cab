package delivery

import "strings"

// NormalizePhone converts a stored phone number to the international digit
// form the messaging channel's deep links require: separators stripped, no
// leading "+", and the country code prepended to national-format numbers
// ("0532 123 45 67" with country code "90" becomes "905321234567").
func NormalizePhone(phone, countryCode string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(phone, "+") || strings.HasPrefix(digits, countryCode) {
		return digits
	}
	return countryCode + strings.TrimLeft(digits, "0")
}

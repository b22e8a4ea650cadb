package whatsapp

import "strings"

// ChatID converts an Israeli local phone number to the Green API chat
// identifier format. Non-digits are stripped, a leading 0 becomes the 972
// country code, and numbers already in international form are left as-is.
//
//	"054-633-9018" becomes "972546339018@c.us"
func ChatID(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	number := digits.String()
	if strings.HasPrefix(number, "0") {
		number = "972" + number[1:]
	}
	return number + "@c.us"
}

// IsPrivateChat reports whether a Green API chat identifier addresses a
// one-on-one chat (groups end with @g.us).
func IsPrivateChat(chatID string) bool {
	return strings.HasSuffix(chatID, "@c.us")
}

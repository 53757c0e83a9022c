package daraja

import (
	"encoding/base64"
	"math"
	"strings"
	"time"
)

// CountryPrefix is the international prefix used when normalizing phone numbers.
const CountryPrefix = "254"

// NormalizePhone strips whitespace, hyphens, parentheses, dots and plus signs,
// replaces a leading zero with the country prefix, and prepends the prefix when
// missing. "0712345678" and "+254712345678" both become "254712345678".
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		switch r {
		case ' ', '\t', '-', '(', ')', '.', '+':
			continue
		}
		b.WriteRune(r)
	}
	p := b.String()
	if strings.HasPrefix(p, "0") {
		return CountryPrefix + p[1:]
	}
	if !strings.HasPrefix(p, CountryPrefix) {
		return CountryPrefix + p
	}
	return p
}

// Timestamp formats t as the YYYYMMDDHHMMSS string Daraja expects.
func Timestamp(t time.Time) string {
	return t.Format("20060102150405")
}

// Password derives the STK request password: base64 of shortcode+passkey+timestamp.
func Password(shortcode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passKey + timestamp))
}

// RoundAmount rounds to the nearest whole currency unit before submission.
func RoundAmount(amount float64) int64 {
	return int64(math.Round(amount))
}

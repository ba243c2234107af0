// Package phone canonicalizes free-form contact strings into dialable E.164
// numbers and classifies contacts as phone or email.
package phone

import (
	"regexp"
	"strings"
)

// DefaultCountryCode is the dialing prefix applied to bare local numbers in
// this deployment.
const DefaultCountryCode = "91"

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)

// Normalizer converts raw phone input into canonical +<cc><digits> form.
// The zero value uses DefaultCountryCode.
type Normalizer struct {
	CountryCode string
}

func (n Normalizer) countryCode() string {
	if n.CountryCode == "" {
		return DefaultCountryCode
	}
	return n.CountryCode
}

// Normalize is total and idempotent: any input yields a best-effort dialable
// string, and normalizing an already-normalized value is a no-op.
func (n Normalizer) Normalize(raw string) string {
	cleaned := stripNonDial(raw)
	if cleaned == "" || cleaned == "+" {
		return cleaned
	}
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}

	cc := n.countryCode()
	switch {
	case len(cleaned) == 10:
		return "+" + cc + cleaned
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "1"):
		return "+" + cleaned
	case strings.HasPrefix(cleaned, cc) && len(cleaned) == len(cc)+10:
		return "+" + cleaned
	default:
		return "+" + cc + cleaned
	}
}

// Digits returns the normalized number without the leading +, the form
// wa.me deep links expect.
func (n Normalizer) Digits(raw string) string {
	return strings.TrimPrefix(n.Normalize(raw), "+")
}

// stripNonDial removes everything except digits, keeping a single leading +.
func stripNonDial(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LooksLikePhoneNumber reports whether the contact reads as a phone number
// rather than an email address. Anything failing this check is routed to the
// email channel or skipped.
func LooksLikePhoneNumber(contact string) bool {
	trimmed := strings.TrimSpace(contact)
	if trimmed == "" {
		return false
	}
	if !phonePattern.MatchString(trimmed) {
		return false
	}
	significant := 0
	for _, r := range trimmed {
		if r != ' ' {
			significant++
		}
	}
	return significant >= 10
}

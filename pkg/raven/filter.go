// filter.go implements the lexical PII filters applied to serialized events.

package raven

import (
	"regexp"
	"strings"
)

// Replacement tokens. None of them contains a digit, so no filter can match
// its own (or another filter's) output.
const (
	CreditCardToken = "####-CC-TRUNCATED-####"
	PhoneToken      = "##-PHONE-TRUNC-##"
	SSNToken        = "##-SSN-TRUNC-##"
)

// Filter maps input text to redacted output text. Filters are total: they
// never fail and return the input unchanged when nothing matches.
type Filter func(input string) string

var (
	// 13 to 16 digits, optionally separated by spaces or hyphens.
	creditCardPattern = regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`)

	// Optional leading 1, area group, exchange, subscriber, optional extension.
	phonePattern = regexp.MustCompile(
		`(?:\b1[\s.\-]*)?(?:\(\s*|\b)[2-9][0-8]\d(?:\s*\))?[\s.\-]*\d{3}[\s.\-]*\d{4}` +
			`(?:\s*(?:#|x\.?|ext\.?|extension)\s*\d+)?\b`)

	ssnPattern = regexp.MustCompile(`\b(\d{3})-(\d{2})-(\d{4})\b`)

	credentialPatterns = []*regexp.Regexp{
		// Authorization: Bearer <token>
		regexp.MustCompile(`(?i)authorization[=:\s]+['"]?[\w\-.]+['"]?\s+['"]?[\w\-.=]+['"]?`),
		regexp.MustCompile(`(?i)bearer\s+[\w\-.=]+`),
		regexp.MustCompile(`(?i)(api[_-]?key|token)[=:\s]+['"]?[\w\-.]+['"]?`),
		regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_-]{20,}`),
		regexp.MustCompile(`(?i)gh[po]_[a-zA-Z0-9]{36}`),
		regexp.MustCompile(`(?i)github_pat_[a-zA-Z0-9_]{22,}`),
		regexp.MustCompile(`(?i)xox[baprs]-[a-zA-Z0-9\-]{10,}`),
		regexp.MustCompile(`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), // JWT
		regexp.MustCompile(`(?i)(password|passwd|secret|credential)[=:\s]+['"]?[^\s'",]+['"]?`),
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), // email
	}
)

// CreditCardFilter redacts digit runs that look like card numbers and pass
// the Luhn check. Runs that fail the check are left untouched.
func CreditCardFilter(input string) string {
	return creditCardPattern.ReplaceAllStringFunc(input, func(match string) string {
		if Luhn(match) {
			return CreditCardToken
		}
		return match
	})
}

// PhoneNumberFilter redacts North-American style phone numbers.
func PhoneNumberFilter(input string) string {
	return phonePattern.ReplaceAllString(input, PhoneToken)
}

// SsnFilter redacts XXX-XX-XXXX social security numbers whose area, group
// and serial are in the issuable range.
func SsnFilter(input string) string {
	return ssnPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := ssnPattern.FindStringSubmatch(match)
		area, group, serial := parts[1], parts[2], parts[3]
		if area == "000" || area == "666" || area[0] == '9' {
			return match
		}
		if group == "00" || serial == "0000" {
			return match
		}
		return SSNToken
	})
}

// CredentialFilter replaces API keys, bearer and JWT tokens, credential
// assignments and email addresses with RedactedValue. It is applied to
// event messages, stack traces and map values, not to the serialized body.
func CredentialFilter(input string) string {
	for _, p := range credentialPatterns {
		input = p.ReplaceAllString(input, RedactedValue)
	}
	return input
}

// Luhn reports whether the digits in s pass the Luhn checksum.
// Non-digit characters are ignored. A string with no digits is invalid.
func Luhn(s string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return false
	}

	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// DefaultFilters returns the standard chain: card, phone, SSN.
// Card runs first so a long digit run is never split into phone fragments.
func DefaultFilters() []Filter {
	return []Filter{CreditCardFilter, PhoneNumberFilter, SsnFilter}
}

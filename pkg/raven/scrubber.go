// scrubber.go composes the PII filters into a single redaction pass and
// applies it to event fields.

package raven

import (
	"regexp"
	"strings"
)

// RedactedValue replaces the value of a sensitive metadata or tag key.
const RedactedValue = "[REDACTED]"

// ScrubberConfig controls field-level scrubbing behavior.
type ScrubberConfig struct {
	// SensitiveKeys are case-insensitive substrings; metadata and tag keys
	// containing any of them have their value replaced with RedactedValue.
	SensitiveKeys []string

	// MaxMessageSize is the maximum length for error messages (default: 8192).
	MaxMessageSize int

	// MaxStackTraceSize is the maximum length for stack traces (default: 32768).
	MaxStackTraceSize int

	// MaxValueSize is the maximum length of a single metadata or tag value (default: 1024).
	MaxValueSize int

	// NormalizePaths strips user-specific directories and memory addresses
	// from stack traces (default: true).
	NormalizePaths bool
}

// DefaultScrubberConfig returns production-safe defaults.
func DefaultScrubberConfig() ScrubberConfig {
	return ScrubberConfig{
		SensitiveKeys:     []string{"password", "passwd", "secret", "token", "api_key", "apikey", "auth", "credential", "cookie"},
		MaxMessageSize:    8192,
		MaxStackTraceSize: 32768,
		MaxValueSize:      1024,
		NormalizePaths:    true,
	}
}

var (
	pathNormalizationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/home/[^/]+/`),
		regexp.MustCompile(`/Users/[^/]+/`),
		regexp.MustCompile(`C:\\Users\\[^\\]+\\`),
	}
	memoryAddressPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)
)

// Scrubber applies an ordered filter chain to text. It holds no mutable
// state and is safe for concurrent use.
type Scrubber struct {
	cfg     ScrubberConfig
	filters []Filter
}

// NewScrubber creates a scrubber. With no filters the default chain
// (card, phone, SSN) is used. Filters run in the order given.
func NewScrubber(cfg ScrubberConfig, filters ...Filter) *Scrubber {
	if len(filters) == 0 {
		filters = DefaultFilters()
	}
	fs := make([]Filter, len(filters))
	copy(fs, filters)

	keys := make([]string, len(cfg.SensitiveKeys))
	for i, k := range cfg.SensitiveKeys {
		keys[i] = strings.ToLower(k)
	}
	cfg.SensitiveKeys = keys

	return &Scrubber{cfg: cfg, filters: fs}
}

// Scrub redacts every filter match in input. Empty input is returned as is.
//
// The fold repeats while a pass changes the text and lowers its digit
// count: a redaction can shorten a digit run so that an earlier filter
// matches it on the next pass. The default filters only ever remove digits,
// so their result is a fixed point and Scrub is idempotent. Filters that
// keep the digit count stop after one extra pass.
func (s *Scrubber) Scrub(input string) string {
	if input == "" {
		return input
	}

	prev, out := input, s.fold(input)
	for out != prev && countDigits(out) < countDigits(prev) {
		prev, out = out, s.fold(out)
	}
	return out
}

func (s *Scrubber) fold(text string) string {
	for _, f := range s.filters {
		text = f(text)
	}
	return text
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

// ScrubMessage redacts credentials and PII in msg, then truncates it to
// MaxMessageSize.
func (s *Scrubber) ScrubMessage(msg string) string {
	msg = s.Scrub(CredentialFilter(msg))
	if s.cfg.MaxMessageSize > 0 && len(msg) > s.cfg.MaxMessageSize {
		msg = truncateWithMarker(msg, s.cfg.MaxMessageSize)
	}
	return msg
}

// ScrubStackTrace normalizes paths, scrubs and limits stack trace size.
func (s *Scrubber) ScrubStackTrace(trace string) string {
	if trace == "" {
		return trace
	}

	result := trace
	if s.cfg.NormalizePaths {
		for _, pattern := range pathNormalizationPatterns {
			result = pattern.ReplaceAllString(result, "/[PATH]/")
		}
		result = memoryAddressPattern.ReplaceAllString(result, "0x...")
	}

	result = s.Scrub(CredentialFilter(result))

	if s.cfg.MaxStackTraceSize > 0 && len(result) > s.cfg.MaxStackTraceSize {
		result = truncateWithMarker(result, s.cfg.MaxStackTraceSize)
	}
	return result
}

// ScrubMetadata redacts values of sensitive keys and scrubs the rest.
func (s *Scrubber) ScrubMetadata(meta map[string]string) map[string]string {
	return s.scrubMap(meta)
}

// ScrubTags applies the same rules as ScrubMetadata to event tags.
func (s *Scrubber) ScrubTags(tags map[string]string) map[string]string {
	return s.scrubMap(tags)
}

func (s *Scrubber) scrubMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}

	result := make(map[string]string, len(m))
	for key, value := range m {
		if s.isSensitiveKey(key) {
			result[key] = RedactedValue
			continue
		}
		value = s.Scrub(CredentialFilter(value))
		if s.cfg.MaxValueSize > 0 && len(value) > s.cfg.MaxValueSize {
			value = truncateWithMarker(value, s.cfg.MaxValueSize)
		}
		result[key] = value
	}
	return result
}

func (s *Scrubber) isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range s.cfg.SensitiveKeys {
		if pattern != "" && strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// truncateWithMarker truncates a string and adds a truncation marker.
func truncateWithMarker(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	marker := "...[TRUNCATED]"
	if maxLen <= len(marker) {
		return marker[:maxLen]
	}
	return s[:maxLen-len(marker)] + marker
}

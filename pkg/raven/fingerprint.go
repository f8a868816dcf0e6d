// fingerprint.go generates stable hashes for grouping similar errors.

package raven

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Fingerprint generates a hash for grouping similar errors from the error
// type, culprit, logger and the first three stack frames (function names
// only). Messages, timestamps, IDs, line numbers and addresses are ignored.
func Fingerprint(event ErrorEvent) string {
	parts := []string{event.ErrorType, event.Culprit, event.Logger}
	parts = append(parts, normalizeStackTrace(event.StackTrace)...)

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:16])
}

var (
	funcNamePattern = regexp.MustCompile(`^([a-zA-Z0-9_./*()\[\]-]+\.[a-zA-Z0-9_]+)`)
	offsetPattern   = regexp.MustCompile(`\+0x[0-9a-fA-F]+`)
)

// normalizeStackTrace extracts the first 3 function names from a goroutine
// dump, skipping runtime and panic plumbing frames.
func normalizeStackTrace(trace string) []string {
	if trace == "" {
		return nil
	}

	var frames []string
	for _, line := range strings.Split(trace, "\n") {
		if strings.HasPrefix(line, "\t") {
			continue // file:line
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "goroutine ") || strings.HasPrefix(line, "/") {
			continue
		}

		funcLine := offsetPattern.ReplaceAllString(line, "")
		if idx := strings.LastIndex(funcLine, "("); idx > 0 {
			funcLine = funcLine[:idx]
		}
		funcLine = strings.TrimSpace(funcLine)
		if strings.HasPrefix(funcLine, "runtime.") || strings.HasPrefix(funcLine, "runtime/debug.") || strings.HasPrefix(funcLine, "panic") {
			continue
		}

		if match := funcNamePattern.FindString(funcLine); match != "" {
			frames = append(frames, match)
			if len(frames) >= 3 {
				break
			}
		}
	}
	return frames
}

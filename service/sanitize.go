package service

import (
	"errors"
	"regexp"
	"strings"
)

// ErrPromptRejected is returned when a chat message trips the injection
// pattern check
var ErrPromptRejected = errors.New("prompt contains unsafe instruction patterns")

var promptInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ignore\s+all\s+previous\s+instructions`),
	regexp.MustCompile(`system\s+prompt`),
	regexp.MustCompile(`reveal\s+hidden`),
	regexp.MustCompile(`developer\s+message`),
	regexp.MustCompile(`bypass\s+safety`),
}

var controlChars = regexp.MustCompile(`[\x01-\x08\x0B\x0C\x0E-\x1F]`)

// validatePromptInput rejects messages matching known injection patterns
func validatePromptInput(text string) error {
	lowered := strings.ToLower(text)
	for _, pattern := range promptInjectionPatterns {
		if pattern.MatchString(lowered) {
			return ErrPromptRejected
		}
	}
	return nil
}

// sanitizeOutputText strips NUL and control characters from model output
func sanitizeOutputText(text string) string {
	sanitized := strings.ReplaceAll(text, "\x00", "")
	sanitized = strings.TrimSpace(sanitized)
	return controlChars.ReplaceAllString(sanitized, "")
}

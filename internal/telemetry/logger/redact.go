package logger

import (
	"log/slog"
	"strings"
)

// Key substrings whose string values are fully redacted. Anti-forgery
// token values carry no recognizable prefix, so detection is key-based.
var sensitiveKeyPatterns = []string{
	"token_value",
	"csrf_value",
	"password",
	"secret",
	"cookie",
	"credential",
}

const redactedValue = "***REDACTED***"

// redactSensitive replaces string values logged under sensitive keys.
// Group attributes are walked recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		if IsSensitiveKey(a.Key) && a.Value.String() != "" {
			return slog.String(a.Key, redactedValue)
		}
		return a
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			redacted[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	return a
}

// IsSensitiveKey reports whether a key name suggests credential content.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// MaskToken returns a loggable form of a token value: the first and
// last three characters with the middle elided. Short values are fully
// masked.
func MaskToken(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

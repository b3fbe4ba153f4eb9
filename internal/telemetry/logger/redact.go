package logger

import (
	"log/slog"
	"strings"
)

// Key names whose string values are never logged in clear.
// Plain "key" is deliberately absent: key_file paths are fine to log.
var sensitiveKeyPatterns = []string{
	"password",
	"passphrase",
	"secret",
	"private",
	"credential",
	"authorization",
}

// pemPrivateMarker appears in every PEM private key header
// (PRIVATE KEY, EC PRIVATE KEY, RSA PRIVATE KEY, ENCRYPTED PRIVATE KEY).
const pemPrivateMarker = "PRIVATE KEY-----"

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive redacts string attributes that hold key material or whose
// key name suggests a secret. Groups are walked recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		strVal := a.Value.String()
		if strVal == "" {
			return a
		}
		if IsSensitiveValue(strVal) || IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}

	case slog.KindGroup:
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value carries a PEM private key.
func IsSensitiveValue(value string) bool {
	return strings.Contains(value, "-----BEGIN") && strings.Contains(value, pemPrivateMarker)
}

package logger

import "strings"

// MaskAuthorization redacts a bearer credential down to its last 4
// characters, keeping the scheme visible. Access logs carry the result so a
// leaked log line never exposes the cron secret.
func MaskAuthorization(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.Fields(value)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return "Bearer " + maskTail(parts[1])
	}
	return maskTail(value)
}

// MaskAPIKey redacts an API key the same way, for outbound-call logging.
func MaskAPIKey(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return maskTail(value)
}

func maskTail(value string) string {
	if len(value) <= 4 {
		return "****" + value
	}
	return "****" + value[len(value)-4:]
}

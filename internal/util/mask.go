package util

import (
	"net/url"
	"strings"
)

// HideAPIKey obscures a secret for logging purposes, showing only the first and last few characters.
//
// Parameters:
//   - apiKey: The secret to hide.
//
// Returns:
//   - string: The obscured secret.
func HideAPIKey(apiKey string) string {
	if len(apiKey) > 8 {
		return apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
	} else if len(apiKey) > 4 {
		return apiKey[:2] + "..." + apiKey[len(apiKey)-2:]
	} else if len(apiKey) > 2 {
		return apiKey[:1] + "..." + apiKey[len(apiKey)-1:]
	}
	return strings.Repeat("*", len(apiKey))
}

// authCodeMask is the fixed-width filler used for authorization codes.
const authCodeMask = "******"

// MaskAuthCode obscures an authorization code for logging. The mask width does not
// depend on the code length and at most the first two characters are kept.
func MaskAuthCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) < 8 {
		return authCodeMask
	}
	return code[:2] + authCodeMask
}

// MaskSensitiveQuery masks sensitive query parameters, e.g. the authorization code,
// within the raw query string.
func MaskSensitiveQuery(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, "&")
	changed := false
	for i, part := range parts {
		if part == "" {
			continue
		}
		keyPart := part
		valuePart := ""
		if idx := strings.Index(part, "="); idx >= 0 {
			keyPart = part[:idx]
			valuePart = part[idx+1:]
		}
		decodedKey, err := url.QueryUnescape(keyPart)
		if err != nil {
			decodedKey = keyPart
		}
		if !shouldMaskQueryParam(decodedKey) {
			continue
		}
		decodedValue, err := url.QueryUnescape(valuePart)
		if err != nil {
			decodedValue = valuePart
		}
		masked := HideAPIKey(strings.TrimSpace(decodedValue))
		if isAuthCodeParam(decodedKey) {
			masked = MaskAuthCode(decodedValue)
		}
		parts[i] = keyPart + "=" + url.QueryEscape(masked)
		changed = true
	}
	if !changed {
		return raw
	}
	return strings.Join(parts, "&")
}

// MaskURL returns rawURL with its sensitive query parameters masked.
// Unparsable input is masked as a whole.
func MaskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return MaskAuthCode(rawURL)
	}
	u.RawQuery = MaskSensitiveQuery(u.RawQuery)
	if u.Fragment != "" {
		u.Fragment = MaskSensitiveQuery(u.Fragment)
		u.RawFragment = ""
	}
	return u.String()
}

func isAuthCodeParam(key string) bool {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(key)), "[]") == "code"
}

func shouldMaskQueryParam(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	key = strings.TrimSuffix(key, "[]")
	if key == "code" || key == "key" || strings.Contains(key, "api-key") || strings.Contains(key, "apikey") || strings.Contains(key, "api_key") {
		return true
	}
	if strings.Contains(key, "token") || strings.Contains(key, "secret") {
		return true
	}
	return false
}

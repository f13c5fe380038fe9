package alipan

import (
	"fmt"
	"net/url"
	"strings"
)

// CallbackParams captures the parameters of an authorization redirect.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// ExtractCode returns the value of the first "code" parameter in rawQuery.
// The value is returned as sent: Alipan only emits unreserved characters, so no
// decoding is applied. An empty first value counts as missing.
func ExtractCode(rawQuery string) (string, bool) {
	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key != "code" {
			continue
		}
		if value == "" {
			return "", false
		}
		return value, true
	}
	return "", false
}

// ParseCallbackURL extracts the redirect parameters from a full or partial callback address,
// such as the web-view's current URL or text pasted from a browser address bar.
// It returns nil, nil for blank input.
func ParseCallbackURL(input string) (*CallbackParams, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		switch {
		case strings.HasPrefix(candidate, "?"):
			candidate = "http://localhost" + candidate
		case strings.HasPrefix(candidate, "/"):
			candidate = "http://localhost" + candidate
		case strings.ContainsAny(candidate, "/?#") || strings.Contains(candidate, ":"):
			candidate = "http://" + candidate
		case strings.Contains(candidate, "="):
			candidate = "http://localhost/?" + candidate
		default:
			return nil, fmt.Errorf("invalid callback URL")
		}
	}

	parsedURL, err := url.Parse(candidate)
	if err != nil {
		return nil, err
	}

	query := parsedURL.Query()
	params := &CallbackParams{
		State:            strings.TrimSpace(query.Get("state")),
		Error:            strings.TrimSpace(query.Get("error")),
		ErrorDescription: strings.TrimSpace(query.Get("error_description")),
	}
	params.Code, _ = ExtractCode(parsedURL.RawQuery)

	if params.Code == "" && parsedURL.Fragment != "" {
		params.Code, _ = ExtractCode(parsedURL.Fragment)
	}

	if params.Error == "" && params.ErrorDescription != "" {
		params.Error = params.ErrorDescription
		params.ErrorDescription = ""
	}

	if params.Code == "" && params.Error == "" {
		return nil, fmt.Errorf("callback URL missing code")
	}
	return params, nil
}

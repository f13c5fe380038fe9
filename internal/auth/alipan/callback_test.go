package alipan

import (
	"testing"
)

func TestExtractCode(t *testing.T) {
	cases := []struct {
		name  string
		query string
		code  string
		ok    bool
	}{
		{name: "single", query: "code=abc123", code: "abc123", ok: true},
		{name: "first wins", query: "code=first&code=second", code: "first", ok: true},
		{name: "among others", query: "state=x&code=Z-9_a.b&foo=bar", code: "Z-9_a.b", ok: true},
		{name: "missing", query: "state=x", ok: false},
		{name: "empty value", query: "code=", ok: false},
		{name: "bare key", query: "code", ok: false},
		{name: "empty query", query: "", ok: false},
		{name: "similar key", query: "authcode=x&codes=y", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, ok := ExtractCode(tc.query)
			if ok != tc.ok || code != tc.code {
				t.Fatalf("ExtractCode(%q) = (%q, %v), want (%q, %v)", tc.query, code, ok, tc.code, tc.ok)
			}
		})
	}
}

func TestExtractCodeRoundTripsUnreservedCharacters(t *testing.T) {
	codes := []string{"a", "ABCxyz019", "a-b_c.d", "0f2cda4b.8de4-f669_ef4d"}
	for _, code := range codes {
		got, ok := ExtractCode("code=" + code)
		if !ok || got != code {
			t.Fatalf("round trip of %q produced (%q, %v)", code, got, ok)
		}
	}
}

func TestParseCallbackURL(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		code    string
		errCode string
		wantErr bool
		wantNil bool
	}{
		{name: "alipan callback page", input: "https://openapi.alipan.com/oauth/authorize/callback?code=XYZ", code: "XYZ"},
		{name: "loopback", input: "http://127.0.0.1:10304/callback?code=abc&state=", code: "abc"},
		{name: "host without scheme", input: "127.0.0.1:10304/callback?code=abc", code: "abc"},
		{name: "query only", input: "?code=abc", code: "abc"},
		{name: "bare pairs", input: "code=abc", code: "abc"},
		{name: "fragment", input: "https://openapi.alipan.com/oauth/authorize/callback#code=frag", code: "frag"},
		{name: "denied", input: "http://127.0.0.1:10304/callback?error=access_denied", errCode: "access_denied"},
		{name: "blank", input: "   ", wantNil: true},
		{name: "no code", input: "http://127.0.0.1:10304/callback?state=1", wantErr: true},
		{name: "garbage", input: "hello", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params, err := ParseCallbackURL(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", params)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantNil {
				if params != nil {
					t.Fatalf("expected nil params, got %+v", params)
				}
				return
			}
			if params.Code != tc.code || params.Error != tc.errCode {
				t.Fatalf("got code=%q error=%q, want code=%q error=%q", params.Code, params.Error, tc.code, tc.errCode)
			}
		})
	}
}

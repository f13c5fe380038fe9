package alipan

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/tyss-project/adrivehelper/internal/constant"
)

func TestAuthURLLoopbackIsExact(t *testing.T) {
	req := NewAuthRequest("http://127.0.0.1:10304/callback")
	want := "https://openapi.alipan.com/oauth/authorize?client_id=0f2cda4bb8de4f669ef4d3d763e88738" +
		"&redirect_uri=http%3A%2F%2F127.0.0.1%3A10304%2Fcallback&response_type=code" +
		"&scope=user%3Abase%2Cfile%3Aall%3Awrite%2Cfile%3Aall%3Aread&style=all"
	if got := req.AuthURL(); got != want {
		t.Fatalf("AuthURL() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestAuthURLIsDeterministic(t *testing.T) {
	first := NewAuthRequest(constant.OOBRedirectURI).AuthURL()
	for i := 0; i < 10; i++ {
		if got := NewAuthRequest(constant.OOBRedirectURI).AuthURL(); got != first {
			t.Fatalf("AuthURL() changed between calls: %q vs %q", got, first)
		}
	}
}

func TestAuthURLOutOfBandCarriesAllParameters(t *testing.T) {
	parsed, err := url.Parse(NewAuthRequest(constant.OOBRedirectURI).AuthURL())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Scheme+"://"+parsed.Host+parsed.Path != constant.AuthorizeURL {
		t.Fatalf("unexpected endpoint %s", parsed.String())
	}
	q := parsed.Query()
	expected := map[string]string{
		"client_id":     constant.ClientID,
		"redirect_uri":  "oob",
		"scope":         "user:base,file:all:write,file:all:read",
		"response_type": "code",
		"style":         "all",
	}
	for key, want := range expected {
		if got := q.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if q.Has("state") {
		t.Errorf("state must not be sent, got %q", q.Get("state"))
	}
	if len(q) != len(expected) {
		t.Errorf("unexpected parameters: %v", q)
	}
}

func TestSplitScopes(t *testing.T) {
	got := SplitScopes(" user:base, ,file:all:write,file:all:read ")
	want := []string{"user:base", "file:all:write", "file:all:read"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitScopes() = %v, want %v", got, want)
	}
	if SplitScopes("") != nil {
		t.Fatal("expected nil for empty scope list")
	}
}

package alipan

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "port in use", err: NewAuthenticationError(ErrPortInUse, errors.New("bind")), want: 13},
		{name: "wrapped port in use", err: fmt.Errorf("start: %w", NewAuthenticationError(ErrPortInUse, nil)), want: 13},
		{name: "server start", err: NewAuthenticationError(ErrServerStartFailed, errors.New("boom")), want: 1},
		{name: "webview", err: NewAuthenticationError(ErrWebViewInit, nil), want: 1},
		{name: "no code", err: NewAuthenticationError(ErrNoCode, context.Canceled), want: 0},
		{name: "rejected", err: NewAuthenticationError(ErrCallbackRejected, nil), want: 0},
		{name: "other", err: errors.New("disk full"), want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAuthenticationErrorMatchesBase(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewAuthenticationError(ErrNoCode, context.Canceled))
	if !errors.Is(err, ErrNoCode) {
		t.Fatal("expected errors.Is to match ErrNoCode")
	}
	if errors.Is(err, ErrPortInUse) {
		t.Fatal("ErrNoCode must not match ErrPortInUse")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatal("expected the cause to be reachable")
	}
	var oauthErr *OAuthError
	if errors.As(err, &oauthErr) {
		t.Fatal("an authentication error must not classify as an OAuth error")
	}
}

func TestGetUserFriendlyMessage(t *testing.T) {
	if msg := GetUserFriendlyMessage(NewOAuthError("access_denied", "", 400)); msg != "Authorization was cancelled or denied." {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := GetUserFriendlyMessage(NewAuthenticationError(ErrPortInUse, nil)); msg == "" {
		t.Fatal("expected a message for port in use")
	}
}

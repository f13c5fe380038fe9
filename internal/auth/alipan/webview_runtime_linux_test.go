//go:build webview && linux

package alipan

import (
	"context"
	"errors"
	"testing"
)

func TestCheckWebViewRuntimeNeedsDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	if err := checkWebViewRuntime(); err == nil {
		t.Fatal("expected an error without a display")
	}

	t.Setenv("WAYLAND_DISPLAY", "wayland-0")
	if err := checkWebViewRuntime(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWebViewInterceptorReportsMissingDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	_, err := NewWebViewInterceptor(false).RunUntilCode(context.Background(), "https://example.com", func(string) error { return nil })
	if !errors.Is(err, ErrWebViewInit) {
		t.Fatalf("RunUntilCode() error = %v, want ErrWebViewInit", err)
	}
	if ExitCode(err) != 1 {
		t.Fatalf("ExitCode() = %d, want 1", ExitCode(err))
	}
}

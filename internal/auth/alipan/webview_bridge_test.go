package alipan

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tyss-project/adrivehelper/internal/constant"
)

func callbackMessage(t *testing.T, href string) string {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"type": "oauth_callback", "url": href})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}

func TestCallbackBridgeCapturesOnce(t *testing.T) {
	var captured []string
	var notified int
	bridge := NewCallbackBridge(constant.CallbackURLPrefix, func(code string) error {
		captured = append(captured, code)
		return nil
	}, func(code string, err error) {
		notified++
		if code != "XYZ" || err != nil {
			t.Errorf("onCaptured(%q, %v)", code, err)
		}
	})

	msg := callbackMessage(t, "https://openapi.alipan.com/oauth/authorize/callback?code=XYZ")
	if !bridge.HandleMessage(msg) {
		t.Fatal("first message should capture")
	}
	if bridge.HandleMessage(msg) {
		t.Fatal("repeated message must not capture again")
	}
	if bridge.HandleMessage(callbackMessage(t, "https://openapi.alipan.com/oauth/authorize/callback?code=other")) {
		t.Fatal("a different code must not capture after the first")
	}
	if len(captured) != 1 || notified != 1 {
		t.Fatalf("captured %v, notified %d", captured, notified)
	}
	code, ok, err := bridge.Result()
	if code != "XYZ" || !ok || err != nil {
		t.Fatalf("Result() = (%q, %v, %v)", code, ok, err)
	}
}

func TestCallbackBridgeIgnoresUnrelatedMessages(t *testing.T) {
	bridge := NewCallbackBridge(constant.CallbackURLPrefix, func(string) error {
		t.Fatal("capture must not run")
		return nil
	}, nil)

	messages := []string{
		"not json",
		`{"type":"navigation","url":"https://openapi.alipan.com/oauth/authorize/callback?code=XYZ"}`,
		callbackMessage(t, "https://openapi.alipan.com/oauth/authorize?client_id=x"),
		callbackMessage(t, "https://evil.example/oauth/authorize/callback?code=XYZ"),
		callbackMessage(t, "https://openapi.alipan.com/oauth/authorize/callback?error=access_denied"),
		callbackMessage(t, "https://openapi.alipan.com/oauth/authorize/callback?code="),
	}
	for _, msg := range messages {
		if bridge.HandleMessage(msg) {
			t.Fatalf("message %s should be ignored", msg)
		}
	}
	if _, ok, _ := bridge.Result(); ok {
		t.Fatal("nothing should be captured")
	}
}

func TestCallbackBridgeReportsCaptureError(t *testing.T) {
	errDisk := errors.New("read-only file system")
	var gotErr error
	bridge := NewCallbackBridge(constant.CallbackURLPrefix, func(string) error { return errDisk }, func(_ string, err error) {
		gotErr = err
	})
	if !bridge.HandleMessage(callbackMessage(t, "https://openapi.alipan.com/oauth/authorize/callback?code=abc")) {
		t.Fatal("expected capture")
	}
	if !errors.Is(gotErr, errDisk) {
		t.Fatalf("onCaptured error = %v", gotErr)
	}
	if _, _, err := bridge.Result(); !errors.Is(err, errDisk) {
		t.Fatalf("Result() error = %v", err)
	}
}

func TestObserverScript(t *testing.T) {
	script := ObserverScript(constant.CallbackURLPrefix)
	for _, want := range []string{
		`"https://openapi.alipan.com/oauth/authorize/callback?"`,
		"window." + IPCBindingName + "(JSON.stringify({ type: \"oauth_callback\", url: href }))",
		"pushState",
		"replaceState",
		"popstate",
		"posted = true",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q", want)
		}
	}
	if strings.Contains(script, "%!") {
		t.Fatalf("script has formatting errors:\n%s", script)
	}
}

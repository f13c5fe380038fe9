package alipan

import (
	"context"
	"sync"
)

// CaptureFunc receives the captured authorization code exactly once and persists it.
type CaptureFunc func(code string) error

// Interceptor observes the authorization server's redirect and yields the first code.
// Implementations: LoopbackInterceptor, and WebViewInterceptor in builds tagged "webview".
type Interceptor interface {
	// Name identifies the strategy in logs.
	Name() string

	// RedirectURI is the redirect target the authorization request must carry.
	RedirectURI() string

	// RunUntilCode presents authURL to the user, hands the first code to capture, tears the
	// strategy down and returns the code. A non-nil error together with a code means capture
	// failed; an error without a code means nothing was captured.
	RunUntilCode(ctx context.Context, authURL string, capture CaptureFunc) (string, error)
}

// captureGate lets exactly one code through to the CaptureFunc and serializes contenders.
type captureGate struct {
	mu      sync.Mutex
	capture CaptureFunc
	done    bool
	code    string
	err     error
}

func newCaptureGate(capture CaptureFunc) *captureGate {
	return &captureGate{capture: capture}
}

// offer runs capture for the first code and reports whether this call was the one accepted.
func (g *captureGate) offer(code string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return false, nil
	}
	g.done = true
	g.code = code
	if g.capture != nil {
		g.err = g.capture(code)
	}
	return true, g.err
}

// result returns the accepted code, whether anything was accepted, and the capture error.
func (g *captureGate) result() (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.code, g.done, g.err
}

//go:build webview

package cmd

import (
	"runtime"

	"github.com/tyss-project/adrivehelper/internal/auth/alipan"
	"github.com/tyss-project/adrivehelper/internal/config"
)

// The web-view event loop must run on the main OS thread.
func init() {
	runtime.LockOSThread()
}

const (
	supportsTerminalUI = false
	// The native modal is the acknowledgement.
	acknowledgeOnConsole = false
)

func newInterceptor(cfg *config.Config, _ func(string) error) alipan.Interceptor {
	return alipan.NewWebViewInterceptor(cfg.Debug)
}

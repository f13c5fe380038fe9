//go:build webview && !linux && !windows

package alipan

// checkWebViewRuntime always succeeds; WebKit ships with the OS.
func checkWebViewRuntime() error {
	return nil
}

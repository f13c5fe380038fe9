//go:build webview && windows

package alipan

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

// webView2ClientID is the EdgeUpdate client id of the Evergreen WebView2 runtime.
const webView2ClientID = `{F3017226-FE2A-4295-8BDF-00C3A9A7E4C5}`

// checkWebViewRuntime looks up the installed WebView2 runtime version in the registry.
func checkWebViewRuntime() error {
	locations := []struct {
		root registry.Key
		path string
	}{
		{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\EdgeUpdate\Clients\` + webView2ClientID},
		{registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\EdgeUpdate\Clients\` + webView2ClientID},
		{registry.CURRENT_USER, `Software\Microsoft\EdgeUpdate\Clients\` + webView2ClientID},
	}
	for _, loc := range locations {
		key, err := registry.OpenKey(loc.root, loc.path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		version, _, err := key.GetStringValue("pv")
		_ = key.Close()
		if err == nil && version != "" && version != "0.0.0.0" {
			return nil
		}
	}
	return errors.New("Microsoft Edge WebView2 runtime is not installed")
}

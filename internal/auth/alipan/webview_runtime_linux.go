//go:build webview && linux

package alipan

import (
	"errors"
	"os"
	"strings"
)

// checkWebViewRuntime reports whether GTK has a display to open the window on.
func checkWebViewRuntime() error {
	if strings.TrimSpace(os.Getenv("DISPLAY")) == "" && strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) == "" {
		return errors.New("no graphical display: DISPLAY and WAYLAND_DISPLAY are unset")
	}
	return nil
}

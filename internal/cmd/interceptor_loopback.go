//go:build !webview

package cmd

import (
	"github.com/tyss-project/adrivehelper/internal/auth/alipan"
	"github.com/tyss-project/adrivehelper/internal/config"
	"github.com/tyss-project/adrivehelper/internal/constant"
)

const (
	// supportsTerminalUI enables the bubbletea screen when both stdin and stdout are terminals.
	supportsTerminalUI = true
	// acknowledgeOnConsole makes the flow wait for ENTER before exiting.
	acknowledgeOnConsole = true
)

func newInterceptor(_ *config.Config, present func(string) error) alipan.Interceptor {
	return alipan.NewLoopbackInterceptor(constant.CallbackPortNumber(), alipan.WithLauncher(present))
}

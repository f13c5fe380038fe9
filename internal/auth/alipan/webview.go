//go:build webview

package alipan

import (
	"context"
	"runtime"
	"sync"

	"github.com/ncruces/zenity"
	log "github.com/sirupsen/logrus"
	"github.com/tyss-project/adrivehelper/internal/constant"
	"github.com/tyss-project/adrivehelper/internal/misc"
	webview "github.com/webview/webview_go"
)

const (
	webViewTitle  = "TYSS - 阿里云盘授权 / Alipan authorization"
	webViewWidth  = 960
	webViewHeight = 720
)

// WebViewInterceptor hosts the authorization page in an embedded web-view and reads the
// code from the out-of-band callback page the browser lands on.
type WebViewInterceptor struct {
	// Debug enables the web-view developer tools.
	Debug bool
}

// NewWebViewInterceptor creates the embedded web-view strategy.
func NewWebViewInterceptor(debug bool) *WebViewInterceptor {
	return &WebViewInterceptor{Debug: debug}
}

// Name implements Interceptor.
func (i *WebViewInterceptor) Name() string {
	return "webview"
}

// RedirectURI implements Interceptor.
func (i *WebViewInterceptor) RedirectURI() string {
	return constant.OOBRedirectURI
}

// RunUntilCode implements Interceptor. It must run on the main goroutine; the web-view
// event loop owns the calling OS thread until the window closes.
func (i *WebViewInterceptor) RunUntilCode(ctx context.Context, authURL string, capture CaptureFunc) (string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// webview.New cannot report a failed create; a missing runtime aborts the process.
	if err := checkWebViewRuntime(); err != nil {
		return "", NewAuthenticationError(ErrWebViewInit, err)
	}
	w := webview.New(i.Debug)

	var (
		mu        sync.Mutex
		destroyed bool
		ackDone   = make(chan struct{})
	)
	closeWindow := func() {
		mu.Lock()
		defer mu.Unlock()
		if !destroyed {
			w.Dispatch(w.Terminate)
		}
	}

	bridge := NewCallbackBridge(constant.CallbackURLPrefix, capture, func(_ string, err error) {
		// The binding runs on the UI thread; the modal must not block it.
		go func() {
			defer close(ackDone)
			if err != nil {
				if errDialog := zenity.Error(misc.SaveFailedZH, zenity.Title("TYSS")); errDialog != nil {
					log.Debugf("notice dialog: %v", errDialog)
				}
			} else if errDialog := zenity.Info(misc.SuccessNotice(), zenity.Title("TYSS")); errDialog != nil {
				log.Debugf("notice dialog: %v", errDialog)
			}
			closeWindow()
		}()
	})

	w.SetTitle(webViewTitle)
	w.SetSize(webViewWidth, webViewHeight, webview.HintNone)
	w.Init(ObserverScript(constant.CallbackURLPrefix))
	if err := w.Bind(IPCBindingName, func(raw string) {
		bridge.HandleMessage(raw)
	}); err != nil {
		w.Destroy()
		return "", NewAuthenticationError(ErrWebViewInit, err)
	}

	stop := context.AfterFunc(ctx, closeWindow)
	log.WithField("interceptor", i.Name()).Info("opening authorization window")
	w.Navigate(authURL)
	w.Run()
	stop()

	mu.Lock()
	destroyed = true
	mu.Unlock()

	code, captured, errCapture := bridge.Result()
	if captured {
		<-ackDone
	}
	w.Destroy()

	if !captured {
		if ctx.Err() != nil {
			return "", NewAuthenticationError(ErrNoCode, ctx.Err())
		}
		return "", ErrNoCode
	}
	return code, errCapture
}

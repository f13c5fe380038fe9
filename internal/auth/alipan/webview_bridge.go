package alipan

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tyss-project/adrivehelper/internal/util"
)

// IPCBindingName is the global function the web-view exposes to page scripts.
const IPCBindingName = "tyssPostMessage"

// callbackMessageType tags observer messages that carry a redirect address.
const callbackMessageType = "oauth_callback"

// ObserverScript returns the script injected into every page the web-view loads. It reports
// the current address once, as soon as it starts with prefix, and watches history
// navigation as well as full loads.
func ObserverScript(prefix string) string {
	return fmt.Sprintf(`(function () {
  if (window.__tyssObserverInstalled) { return; }
  window.__tyssObserverInstalled = true;
  var prefix = %s;
  var posted = false;
  function report() {
    if (posted) { return; }
    var href = window.location.href;
    if (href.indexOf(prefix) !== 0) { return; }
    if (typeof window.%[2]s !== "function") { return; }
    posted = true;
    window.%[2]s(JSON.stringify({ type: %[3]s, url: href }));
  }
  ["pushState", "replaceState"].forEach(function (name) {
    var original = history[name];
    history[name] = function () {
      var out = original.apply(this, arguments);
      report();
      return out;
    };
  });
  window.addEventListener("popstate", report);
  window.addEventListener("hashchange", report);
  window.addEventListener("load", report);
  document.addEventListener("DOMContentLoaded", report);
  report();
})();`, strconv.Quote(prefix), IPCBindingName, strconv.Quote(callbackMessageType))
}

// CallbackBridge turns observer messages into a single capture. It holds no UI state so the
// web-view front-end only has to forward raw messages.
type CallbackBridge struct {
	prefix     string
	gate       *captureGate
	onCaptured func(code string, err error)
}

// NewCallbackBridge creates a bridge that accepts redirect addresses beginning with prefix.
// onCaptured runs once, after capture has returned.
func NewCallbackBridge(prefix string, capture CaptureFunc, onCaptured func(code string, err error)) *CallbackBridge {
	return &CallbackBridge{
		prefix:     prefix,
		gate:       newCaptureGate(capture),
		onCaptured: onCaptured,
	}
}

// HandleMessage processes one raw JSON message from the page and reports whether it
// produced the capture. Malformed or unrelated messages are ignored.
func (b *CallbackBridge) HandleMessage(raw string) bool {
	if !gjson.Valid(raw) {
		log.Debug("ignoring malformed web-view message")
		return false
	}
	message := gjson.Parse(raw)
	if message.Get("type").String() != callbackMessageType {
		return false
	}
	href := message.Get("url").String()
	if !strings.HasPrefix(href, b.prefix) {
		return false
	}

	params, err := ParseCallbackURL(href)
	if err != nil || params == nil {
		log.Debugf("callback address without code ignored: %v", err)
		return false
	}
	if params.Code == "" {
		log.Warn(NewOAuthError(params.Error, params.ErrorDescription, 0).Error())
		return false
	}

	accepted, errCapture := b.gate.offer(params.Code)
	if !accepted {
		return false
	}
	log.WithField("interceptor", "webview").Infof("Received auth code: %s", util.MaskAuthCode(params.Code))
	if b.onCaptured != nil {
		b.onCaptured(params.Code, errCapture)
	}
	return true
}

// Result returns the captured code, whether a capture happened, and the capture error.
func (b *CallbackBridge) Result() (string, bool, error) {
	return b.gate.result()
}

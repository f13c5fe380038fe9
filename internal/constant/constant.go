// Package constant defines the build-time constants of the Alipan authorization request.
// The string variables can be replaced with -ldflags "-X" during release builds, which is
// the only supported way to change what the helper asks the authorization server for.
package constant

import "strconv"

// The following variables are overridden via ldflags during release builds.
var (
	// ClientID is the Alipan open platform application identifier used by TYSS.
	ClientID = "0f2cda4bb8de4f669ef4d3d763e88738"

	// Scope is the comma-separated scope list requested from Alipan. Order is preserved.
	Scope = "user:base,file:all:write,file:all:read"

	// Style selects the Alipan authorization page style.
	Style = "all"

	// CallbackPort is the loopback port the redirect interceptor binds.
	CallbackPort = "10304"
)

const (
	// AuthorizeURL is the Alipan OAuth authorization endpoint.
	AuthorizeURL = "https://openapi.alipan.com/oauth/authorize"

	// CallbackURLPrefix is the in-page callback address the web-view observer watches for.
	CallbackURLPrefix = "https://openapi.alipan.com/oauth/authorize/callback?"

	// OOBRedirectURI is the out-of-band redirect target used by the web-view front-end.
	OOBRedirectURI = "oob"

	// CallbackPath is the loopback redirect path.
	CallbackPath = "/callback"

	// DriveFileName is the name of the artifact consumed by TYSS.
	DriveFileName = "drive.json"

	// DefaultCallbackPort is used when CallbackPort was overridden with something unparsable.
	DefaultCallbackPort = 10304
)

// CallbackPortNumber returns CallbackPort as an int, falling back to DefaultCallbackPort.
func CallbackPortNumber() int {
	port, err := strconv.Atoi(CallbackPort)
	if err != nil || port <= 0 || port > 65535 {
		return DefaultCallbackPort
	}
	return port
}

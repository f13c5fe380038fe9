// Package alipan implements the Alipan (AliDrive) authorization-code capture used by TYSS:
// building the authorization URL and intercepting the redirect that carries the code,
// either on a loopback HTTP listener or inside an embedded web-view.
package alipan

import (
	"strings"

	"github.com/tyss-project/adrivehelper/internal/constant"
	"golang.org/x/oauth2"
)

// AuthRequest is the fixed authorization request sent to Alipan. response_type is always "code".
type AuthRequest struct {
	// ClientID is the Alipan application identifier.
	ClientID string
	// Scopes are sent comma-separated in the given order.
	Scopes []string
	// Style selects the authorization page style.
	Style string
	// RedirectURI is either the loopback callback or the out-of-band literal.
	RedirectURI string
}

// NewAuthRequest builds the request from the build-time constants for the given redirect target.
func NewAuthRequest(redirectURI string) *AuthRequest {
	return &AuthRequest{
		ClientID:    constant.ClientID,
		Scopes:      SplitScopes(constant.Scope),
		Style:       constant.Style,
		RedirectURI: redirectURI,
	}
}

// OAuthConfig returns the oauth2 configuration describing the request.
// Alipan expects a single comma-separated scope value, so Scopes collapse into one element.
func (r *AuthRequest) OAuthConfig() *oauth2.Config {
	cfg := &oauth2.Config{
		ClientID:    r.ClientID,
		Endpoint:    oauth2.Endpoint{AuthURL: constant.AuthorizeURL},
		RedirectURL: r.RedirectURI,
	}
	if len(r.Scopes) > 0 {
		cfg.Scopes = []string{strings.Join(r.Scopes, ",")}
	}
	return cfg
}

// AuthURL returns the authorization URL. No state parameter is sent; the query is
// canonically encoded so identical constants always produce the same URL.
func (r *AuthRequest) AuthURL() string {
	var opts []oauth2.AuthCodeOption
	if r.Style != "" {
		opts = append(opts, oauth2.SetAuthURLParam("style", r.Style))
	}
	return r.OAuthConfig().AuthCodeURL("", opts...)
}

// SplitScopes splits a comma-separated scope list, dropping blanks and keeping order.
func SplitScopes(raw string) []string {
	var scopes []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			scopes = append(scopes, trimmed)
		}
	}
	return scopes
}

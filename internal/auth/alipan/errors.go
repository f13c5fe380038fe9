package alipan

import (
	"errors"
	"fmt"
)

// OAuthError represents an error reported by the authorization server in the redirect.
type OAuthError struct {
	// Code is the OAuth error code.
	Code string `json:"error"`
	// Description is a human-readable description of the error.
	Description string `json:"error_description,omitempty"`
	// StatusCode is the HTTP status code associated with the error.
	StatusCode int `json:"-"`
}

// Error returns a string representation of the OAuth error.
func (e *OAuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("OAuth error %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("OAuth error: %s", e.Code)
}

// NewOAuthError creates a new OAuth error with the specified code, description, and status code.
func NewOAuthError(code, description string, statusCode int) *OAuthError {
	return &OAuthError{
		Code:        code,
		Description: description,
		StatusCode:  statusCode,
	}
}

// AuthenticationError represents a failure of the capture flow itself.
type AuthenticationError struct {
	// Type is the type of authentication error.
	Type string `json:"type"`
	// Message is a human-readable message describing the error.
	Message string `json:"message"`
	// Code is the process exit code used when this error ends the run.
	Code int `json:"code"`
	// Cause is the underlying error that caused this authentication error.
	Cause error `json:"-"`
}

// Error returns a string representation of the authentication error.
func (e *AuthenticationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the cause to errors.Is/As.
func (e *AuthenticationError) Unwrap() error { return e.Cause }

// Is matches authentication errors by Type so wrapped copies compare equal to the bases below.
func (e *AuthenticationError) Is(target error) bool {
	t, ok := target.(*AuthenticationError)
	return ok && t.Type == e.Type
}

// Common authentication error types.
var (
	// ErrPortInUse represents an error when the callback port is already in use.
	ErrPortInUse = &AuthenticationError{
		Type:    "port_in_use",
		Message: "Callback port is already in use",
		Code:    13, // Special exit code for port-in-use
	}

	// ErrServerStartFailed represents an error when starting the callback server fails.
	ErrServerStartFailed = &AuthenticationError{
		Type:    "server_start_failed",
		Message: "Failed to start callback server",
		Code:    1,
	}

	// ErrWebViewInit represents an error when the embedded web-view cannot be created.
	ErrWebViewInit = &AuthenticationError{
		Type:    "webview_init_failed",
		Message: "Failed to initialize the embedded web-view",
		Code:    1,
	}

	// ErrNoCode is returned when the flow ended before any code was captured,
	// e.g. the user closed the window. It is a normal termination.
	ErrNoCode = &AuthenticationError{
		Type:    "no_code",
		Message: "No authorization code was captured",
		Code:    0,
	}

	// ErrCallbackRejected marks a callback that carried no usable code.
	ErrCallbackRejected = &AuthenticationError{
		Type:    "callback_rejected",
		Message: "Callback URL does not carry an authorization code",
		Code:    0,
	}
)

// NewAuthenticationError creates a new authentication error with a cause based on a base error.
func NewAuthenticationError(baseErr *AuthenticationError, cause error) *AuthenticationError {
	return &AuthenticationError{
		Type:    baseErr.Type,
		Message: baseErr.Message,
		Code:    baseErr.Code,
		Cause:   cause,
	}
}

// GetUserFriendlyMessage returns a user-friendly error message based on the error type.
func GetUserFriendlyMessage(err error) string {
	var authErr *AuthenticationError
	var oauthErr *OAuthError
	switch {
	case errors.As(err, &authErr):
		switch authErr.Type {
		case "port_in_use":
			return "The callback port is already in use. Close the program using it (or a previous helper window) and try again."
		case "server_start_failed":
			return "Could not start the local callback server. Please try again."
		case "webview_init_failed":
			return "Could not open the embedded browser window. Make sure the system web-view runtime is installed."
		case "no_code":
			return "The window was closed before authorization finished. Run the helper again to retry."
		case "callback_rejected":
			return "The pasted address does not contain an authorization code."
		default:
			return "Authorization failed. Please try again."
		}
	case errors.As(err, &oauthErr):
		switch oauthErr.Code {
		case "access_denied":
			return "Authorization was cancelled or denied."
		case "invalid_request":
			return "Invalid authorization request. Please try again."
		case "server_error":
			return "Authorization server error. Please try again later."
		default:
			return fmt.Sprintf("Authorization failed: %s", oauthErr.Error())
		}
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// ExitCode maps an error returned by an interceptor to the process exit code.
// Only startup failures are non-zero; everything else is a normal termination.
func ExitCode(err error) int {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		switch authErr.Type {
		case ErrPortInUse.Type, ErrServerStartFailed.Type, ErrWebViewInit.Type:
			return authErr.Code
		}
	}
	return 0
}

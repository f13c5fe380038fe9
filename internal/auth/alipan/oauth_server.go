package alipan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/tyss-project/adrivehelper/internal/constant"
	"github.com/tyss-project/adrivehelper/internal/logging"
	"github.com/tyss-project/adrivehelper/internal/misc"
	"github.com/tyss-project/adrivehelper/internal/util"
	"golang.org/x/sync/errgroup"
)

// alreadyCapturedMessage answers callbacks that race in after the first capture.
const alreadyCapturedMessage = "Authorization code already captured."

// LoopbackInterceptor handles the local HTTP server for the Alipan redirect.
// It listens for the authorization code on /callback, hands the first one to the
// capture function and shuts the listener down.
type LoopbackInterceptor struct {
	// server is the underlying HTTP server instance
	server *http.Server
	// listener is the bound TCP listener, kept to report the effective address
	listener net.Listener
	// group owns the serving goroutine
	group *errgroup.Group
	// port is the port number on which the server listens
	port int
	// bindHost is the interface the listener binds, all interfaces by default
	bindHost string
	// launcher presents the authorization URL to the user
	launcher func(authURL string) error
	// gate admits the first code only
	gate *captureGate
	// resultChan is a channel for sending capture results
	resultChan chan *OAuthResult
	// errorChan is a channel for sending server errors
	errorChan chan error
	// mu is a mutex for protecting server state
	mu sync.Mutex
	// running indicates whether the server is currently running
	running bool
}

// OAuthResult contains the outcome of a capture.
type OAuthResult struct {
	// Code is the authorization code received from Alipan
	Code string
	// Err is the error returned by the capture function, if any
	Err error
}

// LoopbackOption customizes a LoopbackInterceptor.
type LoopbackOption func(*LoopbackInterceptor)

// WithLauncher sets the function that presents the authorization URL, usually a browser launch.
func WithLauncher(launcher func(authURL string) error) LoopbackOption {
	return func(s *LoopbackInterceptor) {
		s.launcher = launcher
	}
}

// WithBindHost overrides the interface the listener binds.
func WithBindHost(host string) LoopbackOption {
	return func(s *LoopbackInterceptor) {
		s.bindHost = host
	}
}

// NewLoopbackInterceptor creates a new callback server for the given port.
func NewLoopbackInterceptor(port int, opts ...LoopbackOption) *LoopbackInterceptor {
	s := &LoopbackInterceptor{
		port:       port,
		bindHost:   "0.0.0.0",
		resultChan: make(chan *OAuthResult, 1),
		errorChan:  make(chan error, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Interceptor.
func (s *LoopbackInterceptor) Name() string {
	return "loopback"
}

// RedirectURI implements Interceptor.
func (s *LoopbackInterceptor) RedirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", s.port, constant.CallbackPath)
}

// RunUntilCode implements Interceptor. The listener is bound before the URL is presented so a
// busy port is reported before the user starts authorizing.
func (s *LoopbackInterceptor) RunUntilCode(ctx context.Context, authURL string, capture CaptureFunc) (string, error) {
	if err := s.Start(capture); err != nil {
		return "", err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if errStop := s.Stop(stopCtx); errStop != nil {
			log.Warnf("callback server stop error: %v", errStop)
		}
	}()

	if s.launcher != nil {
		if err := s.launcher(authURL); err != nil {
			log.Warnf("failed to present authorization page: %v", err)
		}
	}

	result, err := s.WaitForCallback(ctx)
	if err != nil {
		return "", err
	}
	return result.Code, result.Err
}

// Start binds the listener and begins serving callbacks.
//
// Returns:
//   - error: ErrPortInUse or ErrServerStartFailed wrapped in an AuthenticationError
func (s *LoopbackInterceptor) Start(capture CaptureFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	addr := net.JoinHostPort(s.bindHost, strconv.Itoa(s.port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if isAddrInUse(err) {
			return NewAuthenticationError(ErrPortInUse, err)
		}
		return NewAuthenticationError(ErrServerStartFailed, err)
	}

	s.gate = newCaptureGate(capture)
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.newEngine(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	s.group = new(errgroup.Group)

	server := s.server
	s.group.Go(func() error {
		if errServe := server.Serve(listener); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			s.sendError(NewAuthenticationError(ErrServerStartFailed, errServe))
			return errServe
		}
		return nil
	})
	s.running = true

	log.WithFields(log.Fields{"interceptor": s.Name(), "port": s.port}).Infof("callback server listening on %s", listener.Addr())
	return nil
}

// Addr returns the address the listener is bound to, or "" when stopped.
func (s *LoopbackInterceptor) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully stops the callback server; in-flight responses are completed first.
func (s *LoopbackInterceptor) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	log.Debug("Stopping callback server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	if errWait := s.group.Wait(); err == nil && errWait != nil {
		err = errWait
	}
	s.running = false
	s.server = nil
	s.listener = nil
	return err
}

// IsRunning returns whether the server is currently running.
func (s *LoopbackInterceptor) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// WaitForCallback blocks until a code has been captured, the server fails, or ctx ends.
// Cancellation is reported as ErrNoCode.
func (s *LoopbackInterceptor) WaitForCallback(ctx context.Context) (*OAuthResult, error) {
	select {
	case result := <-s.resultChan:
		return result, nil
	case err := <-s.errorChan:
		return nil, err
	case <-ctx.Done():
		return nil, NewAuthenticationError(ErrNoCode, ctx.Err())
	}
}

// SubmitCallbackURL feeds a redirect address pasted by the user through the same capture
// gate as the HTTP callback. Blank input is ignored.
func (s *LoopbackInterceptor) SubmitCallbackURL(input string) error {
	if strings.TrimSpace(input) != "" {
		log.Debugf("manual callback submitted: %s", util.MaskURL(strings.TrimSpace(input)))
	}
	params, err := ParseCallbackURL(input)
	if err != nil {
		return NewAuthenticationError(ErrCallbackRejected, err)
	}
	if params == nil {
		return nil
	}
	if params.Code == "" {
		return NewOAuthError(params.Error, params.ErrorDescription, http.StatusBadRequest)
	}

	s.mu.Lock()
	gate := s.gate
	running := s.running
	s.mu.Unlock()
	if gate == nil || !running {
		return fmt.Errorf("callback server is not running")
	}

	accepted, errCapture := gate.offer(params.Code)
	if !accepted {
		return nil
	}
	log.WithField("interceptor", s.Name()).Infof("authorization code %s submitted manually", util.MaskAuthCode(params.Code))
	s.sendResult(&OAuthResult{Code: params.Code, Err: errCapture})
	return errCapture
}

func (s *LoopbackInterceptor) newEngine() *gin.Engine {
	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.Use(logging.GinLogrusLogger(), logging.GinLogrusRecovery())
	engine.GET(constant.CallbackPath, s.handleCallback)
	engine.NoRoute(s.handleOther)
	return engine
}

// handleOther dispatches everything the router did not match. Paths that merely begin
// with /callback are still callbacks.
func (s *LoopbackInterceptor) handleOther(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, constant.CallbackPath) {
		s.handleCallback(c)
		return
	}
	if c.Request.URL.Path == "/favicon.ico" {
		logging.SkipGinRequestLogging(c)
	}
	c.String(http.StatusOK, misc.NotFoundMessage)
}

// handleCallback extracts the first code from the query and captures it.
func (s *LoopbackInterceptor) handleCallback(c *gin.Context) {
	code, ok := ExtractCode(c.Request.URL.RawQuery)
	if !ok {
		if errParam := strings.TrimSpace(c.Query("error")); errParam != "" {
			log.Warn(NewOAuthError(errParam, c.Query("error_description"), http.StatusBadRequest).Error())
		} else {
			log.Debug("callback without authorization code")
		}
		c.String(http.StatusOK, misc.MissingCodeMessage)
		return
	}

	accepted, err := s.gate.offer(code)
	if !accepted {
		c.String(http.StatusServiceUnavailable, alreadyCapturedMessage)
		return
	}

	entry := log.WithFields(log.Fields{"interceptor": s.Name(), "request_id": logging.GetGinRequestID(c)})
	entry.Infof("Received auth code: %s", util.MaskAuthCode(code))
	if err != nil {
		entry.WithError(err).Error("failed to save authorization code")
		c.String(http.StatusInternalServerError, misc.SaveFailedZH)
	} else {
		c.String(http.StatusOK, misc.CallbackSuccessPage())
	}
	s.sendResult(&OAuthResult{Code: code, Err: err})
}

// sendResult sends the capture result to the waiting channel without blocking the handler.
func (s *LoopbackInterceptor) sendResult(result *OAuthResult) {
	select {
	case s.resultChan <- result:
		log.Debug("capture result sent to channel")
	default:
		log.Warn("capture result channel is full, result dropped")
	}
}

func (s *LoopbackInterceptor) sendError(err error) {
	select {
	case s.errorChan <- err:
	default:
	}
}

func isAddrInUse(err error) bool {
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "address already in use") || strings.Contains(msg, "only one usage of each socket address")
}

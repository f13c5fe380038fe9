package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/tyss-project/adrivehelper/internal/auth/alipan"
	"github.com/tyss-project/adrivehelper/internal/browser"
	"github.com/tyss-project/adrivehelper/internal/config"
	"github.com/tyss-project/adrivehelper/internal/constant"
	"github.com/tyss-project/adrivehelper/internal/logging"
	"github.com/tyss-project/adrivehelper/internal/misc"
	"github.com/tyss-project/adrivehelper/internal/store"
	"github.com/tyss-project/adrivehelper/internal/tui"
	"github.com/tyss-project/adrivehelper/internal/util"
)

var errNoBrowser = errors.New("no browser available")

// LoginOptions contains options for the capture flow.
// Zero values select the process defaults; tests override the I/O and the interceptor.
type LoginOptions struct {
	// NoBrowser indicates whether to skip opening the browser automatically.
	NoBrowser bool

	// PlainConsole forces the line-based console front-end.
	PlainConsole bool

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// Store receives the captured code. Defaults to drive.json next to the executable.
	Store *store.DriveFileStore

	// Launcher opens the authorization URL. Defaults to the system browser.
	Launcher func(authURL string) error

	// CopyText puts the authorization URL on the clipboard.
	CopyText func(text string) error

	// NewInterceptor builds the interceptor around the URL presenter. Defaults to the
	// strategy selected at build time.
	NewInterceptor func(present func(authURL string) error) alipan.Interceptor
}

// callbackSubmitter is implemented by interceptors that accept a pasted callback address.
type callbackSubmitter interface {
	SubmitCallbackURL(input string) error
}

// DoAlipanLogin runs the Alipan authorization flow: it builds the authorization URL,
// waits for the redirect, writes drive.json and shows the success notice.
//
// Parameters:
//   - ctx: Cancels the wait for the redirect
//   - cfg: The application configuration
//   - options: Login options including browser behavior and I/O
//
// Returns:
//   - int: The process exit code
func DoAlipanLogin(ctx context.Context, cfg *config.Config, options *LoginOptions) int {
	if cfg == nil {
		cfg = config.Default()
	}
	opts := withDefaults(options)

	driveStore := opts.Store
	if driveStore == nil {
		defaultStore, err := store.NewDefaultDriveFileStore()
		if err != nil {
			log.Errorf("Failed to resolve the output directory: %v", err)
			_, _ = fmt.Fprintf(opts.Stderr, "Failed to resolve the output directory: %v\n", err)
			return 1
		}
		driveStore = defaultStore
	}
	existing := driveStore.Exists()
	if existing {
		if _, errLoad := store.LoadDriveFile(driveStore.Path()); errLoad != nil {
			log.WithField("file", driveStore.Path()).Warnf("existing drive.json is unreadable and will be replaced: %v", errLoad)
		} else {
			log.WithField("file", driveStore.Path()).Warn("drive.json from an earlier run exists and will be overwritten")
		}
	}

	useTUI := supportsTerminalUI && !cfg.PlainConsole && !opts.PlainConsole &&
		isTerminal(opts.Stdin) && isTerminal(opts.Stdout)

	var redirectURI string
	present := newPresenter(opts, cfg.NoBrowser || opts.NoBrowser, useTUI, func() string { return redirectURI })

	factory := opts.NewInterceptor
	if factory == nil {
		factory = func(present func(string) error) alipan.Interceptor {
			return newInterceptor(cfg, present)
		}
	}
	interceptor := factory(present)
	redirectURI = interceptor.RedirectURI()

	authURL := alipan.NewAuthRequest(redirectURI).AuthURL()
	log.WithField("interceptor", interceptor.Name()).Debugf("authorization URL: %s", authURL)

	var savedPath string
	capture := func(code string) error {
		path, err := driveStore.Save(code)
		if err != nil {
			return err
		}
		savedPath = path
		return nil
	}

	if useTUI {
		return runTerminalUI(ctx, cfg.Locale, opts, interceptor, authURL, existing, capture, &savedPath)
	}
	return runConsole(ctx, opts, interceptor, authURL, capture, &savedPath)
}

func withDefaults(options *LoginOptions) *LoginOptions {
	opts := LoginOptions{}
	if options != nil {
		opts = *options
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Launcher == nil {
		opts.Launcher = openBrowser
	}
	if opts.CopyText == nil {
		opts.CopyText = clipboard.WriteAll
	}
	return &opts
}

func openBrowser(authURL string) error {
	if !browser.IsAvailable() {
		return errNoBrowser
	}
	return browser.OpenURL(authURL)
}

// newPresenter returns the function the interceptor calls to show the authorization URL.
// When quiet, nothing is printed because the terminal screen displays the URL itself.
func newPresenter(opts *LoginOptions, noBrowser, quiet bool, redirectURI func() string) func(string) error {
	return func(authURL string) error {
		var err error
		switch {
		case noBrowser:
			if !quiet {
				_, _ = fmt.Fprintf(opts.Stdout, "Please manually visit this URL:\n%s\n", authURL)
				copyURL(opts, authURL)
			}
		default:
			if !quiet {
				_, _ = fmt.Fprintln(opts.Stdout, "Opening browser for AliDrive authorization...")
			}
			if err = opts.Launcher(authURL); err != nil {
				log.Warnf("Failed to open browser automatically: %v", err)
				if !quiet {
					_, _ = fmt.Fprintln(opts.Stdout, misc.ManualVisitInstructions(authURL))
					copyURL(opts, authURL)
				}
			}
		}
		if !quiet {
			if uri := redirectURI(); uri != constant.OOBRedirectURI {
				_, _ = fmt.Fprintln(opts.Stdout, misc.ListeningBanner(uri))
			}
		}
		return err
	}
}

func copyURL(opts *LoginOptions, authURL string) {
	if err := opts.CopyText(authURL); err != nil {
		log.Debugf("clipboard unavailable: %v", err)
		return
	}
	_, _ = fmt.Fprintln(opts.Stdout, "(The URL has been copied to the clipboard.)")
}

func runConsole(ctx context.Context, opts *LoginOptions, interceptor alipan.Interceptor, authURL string, capture alipan.CaptureFunc, savedPath *string) int {
	code, err := interceptor.RunUntilCode(ctx, authURL, capture)
	exitCode, needsAck := report(opts, code, *savedPath, err, ctx.Err() != nil)
	if needsAck && acknowledgeOnConsole {
		_, _ = fmt.Fprintln(opts.Stdout, misc.PressEnterToExit)
		waitForEnter(opts.Stdin)
	}
	return exitCode
}

func runTerminalUI(ctx context.Context, locale string, opts *LoginOptions, interceptor alipan.Interceptor, authURL string, existing bool, capture alipan.CaptureFunc, savedPath *string) int {
	tui.SetLocale(locale)
	hook := tui.NewLogHook(64)
	detach := hook.Attach()
	logging.SilenceConsole()
	misc.SetConsoleOutput(io.Discard)

	screenOpts := tui.CaptureOptions{
		AuthURL:      authURL,
		RedirectURI:  interceptor.RedirectURI(),
		ExistingFile: existing,
		OpenURL:      opts.Launcher,
		CopyText:     opts.CopyText,
		Hook:         hook,
	}
	if submitter, ok := interceptor.(callbackSubmitter); ok {
		screenOpts.Submit = submitter.SubmitCallbackURL
	}

	result, acknowledged, errUI := tui.RunCapture(ctx, screenOpts, func(flowCtx context.Context) tui.CaptureResult {
		code, err := interceptor.RunUntilCode(flowCtx, authURL, capture)
		return tui.CaptureResult{Code: code, Path: *savedPath, Err: err}
	}, opts.Stdout)

	detach()
	logging.RestoreConsole()
	misc.SetConsoleOutput(nil)

	if errUI != nil && result.Code == "" && ctx.Err() == nil {
		log.Warnf("terminal screen unavailable, falling back to console: %v", errUI)
		return runConsole(ctx, opts, interceptor, authURL, capture, savedPath)
	}

	exitCode, needsAck := report(opts, result.Code, result.Path, result.Err, ctx.Err() != nil || !acknowledged)
	if needsAck && !acknowledged && acknowledgeOnConsole && result.Code != "" {
		_, _ = fmt.Fprintln(opts.Stdout, misc.PressEnterToExit)
		waitForEnter(opts.Stdin)
	}
	return exitCode
}

// report prints the outcome of the flow and returns the exit code and whether the user
// should acknowledge it before the process exits.
func report(opts *LoginOptions, code, path string, err error, cancelled bool) (int, bool) {
	misc.LogCredentialSeparator()
	switch {
	case err == nil:
		log.Infof("Received auth code: %s", util.MaskAuthCode(code))
		if path != "" {
			_, _ = fmt.Fprintf(opts.Stdout, "Saved auth code to %s\n", path)
		}
		_, _ = fmt.Fprintln(opts.Stdout)
		_, _ = fmt.Fprintln(opts.Stdout, misc.SuccessNotice())
		return 0, true

	case code != "":
		var persistErr *store.PersistError
		if errors.As(err, &persistErr) {
			log.WithField("file", persistErr.Path).Errorf("Failed to write drive.json: %v", persistErr.Err)
		} else {
			log.Errorf("Failed to write drive.json: %v", err)
		}
		_, _ = fmt.Fprintf(opts.Stderr, "Failed to write drive.json: %v\n", err)
		return 0, true

	case errors.Is(err, alipan.ErrNoCode):
		log.Info(alipan.GetUserFriendlyMessage(err))
		_, _ = fmt.Fprintln(opts.Stdout, alipan.GetUserFriendlyMessage(err))
		return 0, false

	default:
		log.Error(alipan.GetUserFriendlyMessage(err))
		_, _ = fmt.Fprintf(opts.Stderr, "%s\n%v\n", alipan.GetUserFriendlyMessage(err), err)
		return alipan.ExitCode(err), !cancelled
	}
}

func waitForEnter(in io.Reader) {
	_, _ = bufio.NewReader(in).ReadString('\n')
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

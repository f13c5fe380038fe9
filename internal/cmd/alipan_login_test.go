package cmd

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tyss-project/adrivehelper/internal/auth/alipan"
	"github.com/tyss-project/adrivehelper/internal/config"
	"github.com/tyss-project/adrivehelper/internal/misc"
	"github.com/tyss-project/adrivehelper/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type loginHarness struct {
	stdout      bytes.Buffer
	stderr      bytes.Buffer
	interceptor *alipan.LoopbackInterceptor
	opts        *LoginOptions
	dir         string
}

func newLoginHarness(t *testing.T, port int) *loginHarness {
	t.Helper()
	h := &loginHarness{dir: t.TempDir()}
	h.opts = &LoginOptions{
		PlainConsole: true,
		Stdout:       &h.stdout,
		Stderr:       &h.stderr,
		Stdin:        strings.NewReader("\n"),
		Store:        store.NewDriveFileStore(h.dir),
		CopyText:     func(string) error { return errors.New("clipboard unavailable") },
		NewInterceptor: func(present func(string) error) alipan.Interceptor {
			h.interceptor = alipan.NewLoopbackInterceptor(port, alipan.WithBindHost("127.0.0.1"), alipan.WithLauncher(present))
			return h.interceptor
		},
	}
	return h
}

// browserVisits simulates the browser following the redirect once the listener is up.
func (h *loginHarness) browserVisits(query string) func(string) error {
	return func(string) error {
		addr := h.interceptor.Addr()
		go func() {
			resp, err := http.Get("http://" + addr + "/callback?" + query)
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
		return errors.New("failed to start browser command")
	}
}

func TestDoAlipanLoginBrowserFailureStillCaptures(t *testing.T) {
	h := newLoginHarness(t, 0)
	h.opts.Launcher = h.browserVisits("code=XYZ")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if code := DoAlipanLogin(ctx, config.Default(), h.opts); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr.String())
	}

	authURL := alipan.NewAuthRequest("http://127.0.0.1:0/callback").AuthURL()
	out := h.stdout.String()
	if !strings.Contains(out, misc.ManualVisitInstructions(authURL)) {
		t.Fatalf("stdout does not contain the verbatim URL:\n%s", out)
	}
	if !strings.Contains(out, misc.SuccessNoticeZH) || !strings.Contains(out, misc.PressEnterToExit) {
		t.Fatalf("stdout missing notice:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(h.dir, "drive.json"))
	if err != nil {
		t.Fatalf("read drive.json: %v", err)
	}
	if string(data) != `{ "driveAuthCode": "XYZ" }` {
		t.Fatalf("drive.json = %s", data)
	}
}

func TestDoAlipanLoginPortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = occupied.Close() }()

	h := newLoginHarness(t, occupied.Addr().(*net.TCPAddr).Port)
	launched := false
	h.opts.Launcher = func(string) error {
		launched = true
		return nil
	}

	if code := DoAlipanLogin(context.Background(), config.Default(), h.opts); code != 13 {
		t.Fatalf("exit code = %d, want 13", code)
	}
	if launched {
		t.Fatal("browser must not be opened when the port is busy")
	}
	if !strings.Contains(h.stderr.String(), "already in use") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
	if _, err := os.Stat(filepath.Join(h.dir, "drive.json")); !os.IsNotExist(err) {
		t.Fatalf("drive.json must not exist, stat err = %v", err)
	}
}

func TestDoAlipanLoginNoBrowserPrintsURLAndHonoursCancel(t *testing.T) {
	h := newLoginHarness(t, 0)
	h.opts.NoBrowser = true
	h.opts.Launcher = func(string) error {
		t.Fatal("launcher must not run with NoBrowser")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if code := DoAlipanLogin(ctx, config.Default(), h.opts); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	authURL := alipan.NewAuthRequest("http://127.0.0.1:0/callback").AuthURL()
	if !strings.Contains(h.stdout.String(), "Please manually visit this URL:\n"+authURL+"\n") {
		t.Fatalf("stdout = %s", h.stdout.String())
	}
	if strings.Contains(h.stdout.String(), misc.PressEnterToExit) {
		t.Fatal("a cancelled run must not wait for acknowledgement")
	}
}

func TestDoAlipanLoginPersistFailureExitsZero(t *testing.T) {
	h := newLoginHarness(t, 0)
	h.opts.Store = store.NewDriveFileStore(filepath.Join(h.dir, "missing", "dir"))
	h.opts.Launcher = h.browserVisits("code=abc")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if code := DoAlipanLogin(ctx, config.Default(), h.opts); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(h.stderr.String(), "Failed to write drive.json") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
	if strings.Contains(h.stdout.String(), misc.SuccessNoticeZH) {
		t.Fatal("success notice must not be shown when saving failed")
	}
}

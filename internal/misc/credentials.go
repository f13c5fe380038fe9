package misc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Separator used to visually group related log lines.
var credentialSeparator = strings.Repeat("-", 67)

var (
	consoleMu  sync.Mutex
	consoleOut io.Writer = os.Stdout
)

// SetConsoleOutput redirects console notices, e.g. to io.Discard while a full-screen UI owns stdout.
func SetConsoleOutput(w io.Writer) {
	consoleMu.Lock()
	defer consoleMu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	consoleOut = w
}

// LogSavingCredentials prints where the authorization artifact is being written.
// Only the path is printed; the artifact's content never goes to the console or logs.
func LogSavingCredentials(path string) {
	if path == "" {
		return
	}
	consoleMu.Lock()
	defer consoleMu.Unlock()
	_, _ = fmt.Fprintf(consoleOut, "Saving authorization code to %s\n", filepath.Clean(path))
}

// LogCredentialSeparator adds a visual separator to group capture-related log lines.
func LogCredentialSeparator() {
	log.Debug(credentialSeparator)
}

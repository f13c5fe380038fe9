package tui

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tyss-project/adrivehelper/internal/logging"
)

// LogLine is one formatted log entry forwarded to the screen.
type LogLine struct {
	Level string
	Text  string
}

// LogHook is a logrus hook that captures log entries and sends them to a channel.
type LogHook struct {
	ch        chan LogLine
	formatter log.Formatter
	mu        sync.Mutex
	levels    []log.Level
}

// NewLogHook creates a new LogHook with a buffered channel of the given size.
func NewLogHook(bufSize int) *LogHook {
	return &LogHook{
		ch:        make(chan LogLine, bufSize),
		formatter: &logging.LogFormatter{},
		levels:    log.AllLevels,
	}
}

// Attach installs the hook on the standard logger and returns a function restoring the previous hooks.
func (h *LogHook) Attach() func() {
	logger := log.StandardLogger()
	previous := make(log.LevelHooks)
	for level, hooks := range logger.Hooks {
		previous[level] = append([]log.Hook(nil), hooks...)
	}
	logger.AddHook(h)
	return func() {
		logger.ReplaceHooks(previous)
	}
}

// Levels returns the log levels this hook should fire on.
func (h *LogHook) Levels() []log.Level {
	return h.levels
}

// Fire is called by logrus when a log entry is fired.
func (h *LogHook) Fire(entry *log.Entry) error {
	h.mu.Lock()
	f := h.formatter
	h.mu.Unlock()

	var text string
	if f != nil {
		b, err := f.Format(entry)
		if err == nil {
			text = strings.TrimRight(string(b), "\n\r")
		} else {
			text = fmt.Sprintf("[%s] %s", entry.Level, entry.Message)
		}
	} else {
		text = fmt.Sprintf("[%s] %s", entry.Level, entry.Message)
	}
	line := LogLine{Level: entry.Level.String(), Text: text}

	// Non-blocking send
	select {
	case h.ch <- line:
	default:
		// Drop oldest if full
		select {
		case <-h.ch:
		default:
		}
		select {
		case h.ch <- line:
		default:
		}
	}
	return nil
}

// Chan returns the channel to read log lines from.
func (h *LogHook) Chan() <-chan LogLine {
	return h.ch
}

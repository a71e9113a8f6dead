package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Level represents the logging verbosity level
type Level int

const (
	// LevelQuiet shows only warnings, errors and the final summary
	LevelQuiet Level = iota
	// LevelNormal shows each step of the run (default)
	LevelNormal
	// LevelVerbose shows selector resolution and wait details
	LevelVerbose
	// LevelDebug shows everything
	LevelDebug
)

const redacted = "********"

// Secrets shorter than this are not redacted; replacing every occurrence of
// one or two characters would mangle the whole log.
const minRedactLength = 4

// Logger writes leveled console diagnostics for a single run.
//
// Styling is rendered for the logger's writer, so output piped into a CI log
// or a buffer is plain text.
type Logger struct {
	mu     sync.Mutex
	level  Level
	writer io.Writer
	runID  string

	secrets []string

	header  lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	info    lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style

	startTime time.Time
	stepCount int
}

// NewLogger creates a logger writing to w. A nil writer means stdout.
func NewLogger(level Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)

	return &Logger{
		level:     level,
		writer:    w,
		runID:     uuid.New().String(),
		header:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		step:      r.NewStyle().Foreground(lipgloss.Color("6")),
		success:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		info:      r.NewStyle().Foreground(lipgloss.Color("217")),
		warning:   r.NewStyle().Foreground(lipgloss.Color("3")),
		failure:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		muted:     r.NewStyle().Foreground(lipgloss.Color("8")),
		startTime: time.Now(),
	}
}

// ParseLevel converts a verbosity name to a Level, defaulting to LevelNormal.
func ParseLevel(level string) Level {
	switch level {
	case "quiet":
		return LevelQuiet
	case "normal":
		return LevelNormal
	case "verbose":
		return LevelVerbose
	case "debug":
		return LevelDebug
	default:
		return LevelNormal
	}
}

// RunID returns the identifier printed in the header of this run.
func (l *Logger) RunID() string {
	return l.runID
}

// Redact registers a value that must never appear in the output. Values
// shorter than minRedactLength are ignored.
func (l *Logger) Redact(secret string) {
	if len(secret) < minRedactLength {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.secrets = append(l.secrets, secret)
}

// Header prints a prominent header message
func (l *Logger) Header(message string) {
	if l.level < LevelNormal {
		return
	}
	rule := strings.Repeat("=", 70)
	l.println(l.header, rule)
	l.println(l.header, "  "+message)
	l.println(l.muted, "  run "+l.runID)
	l.println(l.header, rule)
}

// Step prints a numbered step
func (l *Logger) Step(message string) {
	if l.level < LevelNormal {
		return
	}
	l.mu.Lock()
	l.stepCount++
	n := l.stepCount
	l.mu.Unlock()
	l.println(l.step, fmt.Sprintf("[%d] %s", n, message))
}

// Successf prints a success message with checkmark
func (l *Logger) Successf(format string, args ...interface{}) {
	if l.level >= LevelNormal {
		l.println(l.success, "✓ "+fmt.Sprintf(format, args...))
	}
}

// Infof prints an informational message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level >= LevelNormal {
		l.println(l.info, fmt.Sprintf(format, args...))
	}
}

// Warningf prints a warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.println(l.warning, "⚠ Warning: "+fmt.Sprintf(format, args...))
}

// Errorf prints an error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.println(l.failure, "✗ Error: "+fmt.Sprintf(format, args...))
}

// Verbosef prints detailed information (only in verbose mode)
func (l *Logger) Verbosef(format string, args ...interface{}) {
	if l.level >= LevelVerbose {
		l.println(l.muted, "→ "+fmt.Sprintf(format, args...))
	}
}

// Debugf prints debug information (only in debug mode)
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		l.println(l.muted, "[DEBUG] "+fmt.Sprintf(format, args...))
	}
}

// Summary prints the final outcome of the run. It is shown at every level.
func (l *Logger) Summary(err error) {
	rule := strings.Repeat("=", 70)
	elapsed := time.Since(l.startTime).Round(time.Millisecond)

	l.println(l.header, rule)
	if err == nil {
		l.println(l.success, "  Status: ✓ SUCCESS")
	} else {
		l.println(l.failure, "  Status: ✗ FAILED")
		l.println(l.failure, "  "+err.Error())
	}
	l.println(l.muted, fmt.Sprintf("  Duration: %s", elapsed))
	l.println(l.header, rule)
}

func (l *Logger) println(style lipgloss.Style, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.secrets {
		message = strings.ReplaceAll(message, s, redacted)
	}
	fmt.Fprintln(l.writer, style.Render(message))
}

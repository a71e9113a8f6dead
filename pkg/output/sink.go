// Package output persists the refreshed cookie for the steps that run after
// the refresh: a plain file, the GitHub Actions output file and, for manual
// runs, the system clipboard.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
)

// Config configures a FileSink
type Config struct {
	// CookieFile receives the serialized cookie, overwritten each run
	CookieFile string

	// PipelineFile is the GITHUB_OUTPUT path; empty disables the record
	PipelineFile string

	// PipelineKey names the output record (default "cookie")
	PipelineKey string

	// Mask emits an ::add-mask:: workflow command before anything is written
	Mask bool

	// Clipboard copies the cookie to the system clipboard (best-effort)
	Clipboard bool
}

// Warner receives non-fatal problems such as a missing clipboard.
type Warner interface {
	Warningf(format string, args ...interface{})
}

// FileSink writes the cookie artifact and the pipeline output record.
type FileSink struct {
	cfg Config

	// Stdout receives workflow commands
	Stdout io.Writer

	// copyToClipboard is swapped out in tests
	copyToClipboard func(string) error

	warn Warner
}

// NewFileSink creates a sink for the given configuration.
func NewFileSink(cfg Config, warn Warner) *FileSink {
	if cfg.PipelineKey == "" {
		cfg.PipelineKey = "cookie"
	}
	return &FileSink{
		cfg:             cfg,
		Stdout:          os.Stdout,
		copyToClipboard: clipboard.WriteAll,
		warn:            warn,
	}
}

// Write persists value. The cookie is staged next to the cookie file and
// only moved into place once the pipeline record has been appended, so a
// failed write leaves any previous cookie file untouched.
func (s *FileSink) Write(value string) error {
	if value == "" {
		return fmt.Errorf("refusing to write an empty cookie")
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("refusing to write a cookie containing a line break")
	}

	if s.cfg.Mask {
		fmt.Fprintf(s.Stdout, "::add-mask::%s\n", value)
	}

	staged, err := stageFile(s.cfg.CookieFile, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}

	if s.cfg.PipelineFile != "" {
		if err := appendPipelineOutput(s.cfg.PipelineFile, s.cfg.PipelineKey, value); err != nil {
			os.Remove(staged)
			return fmt.Errorf("failed to append pipeline output: %w", err)
		}
	}

	if err := os.Rename(staged, s.cfg.CookieFile); err != nil {
		os.Remove(staged)
		return fmt.Errorf("failed to write cookie file: %w", err)
	}

	if s.cfg.Clipboard {
		if err := s.copyToClipboard(value); err != nil && s.warn != nil {
			s.warn.Warningf("could not copy cookie to clipboard: %v", err)
		}
	}

	return nil
}

// CookieFile returns the path of the cookie artifact.
func (s *FileSink) CookieFile() string {
	return s.cfg.CookieFile
}

// stageFile writes data to a temp file in path's directory and returns the
// temp file's name. The caller renames it over path or removes it.
func stageFile(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return tempPath, nil
}

// appendPipelineOutput appends a key=value record to the GitHub output file.
func appendPipelineOutput(path, key, value string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		return err
	}
	return f.Close()
}

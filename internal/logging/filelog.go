package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"hevcpress/internal/config"
)

// FileLogs hands out one dedicated log file per processed source file under
// <log_dir>/items. Records written to the returned logger are also forwarded
// to the process logger.
type FileLogs struct {
	dir       string
	runID     string
	sessionID string
	level     string
	format    string
}

// NewFileLogs prepares per-file logging for a run. A nil config or empty log
// directory disables the dedicated files.
func NewFileLogs(cfg *config.Config, runID, sessionID string) *FileLogs {
	logs := &FileLogs{runID: runID, sessionID: sessionID, level: "info", format: "console"}
	if cfg == nil {
		return logs
	}
	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		logs.dir = filepath.Join(cfg.Paths.LogDir, "items")
	}
	if strings.TrimSpace(cfg.Logging.Level) != "" {
		logs.level = cfg.Logging.Level
	}
	if strings.TrimSpace(cfg.Logging.Format) != "" {
		logs.format = cfg.Logging.Format
	}
	return logs
}

// Dir reports the directory holding per-file logs.
func (f *FileLogs) Dir() string {
	if f == nil {
		return ""
	}
	return f.dir
}

// Open creates the log for the index-th file of the run and returns a logger
// that writes to it and to base. The closer must be called once the file is
// finished. When per-file logging is disabled base is returned with a no-op
// closer.
func (f *FileLogs) Open(base *slog.Logger, index int, name string) (*slog.Logger, string, io.Closer, error) {
	if base == nil {
		base = NewNop()
	}
	if f == nil || f.dir == "" {
		return base, "", nopCloser{}, nil
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return base, "", nopCloser{}, fmt.Errorf("ensure file log directory: %w", err)
	}
	path := filepath.Join(f.dir, f.filename(index, name))
	fileLogger, closer, err := New(Options{
		Level:       f.level,
		Format:      f.format,
		OutputPaths: []string{path},
		SessionID:   f.sessionID,
	})
	if err != nil {
		return base, "", nopCloser{}, err
	}
	return TeeLogger(base, fileLogger), path, closer, nil
}

func (f *FileLogs) filename(index int, name string) string {
	slug := sanitizeSlug(strings.TrimSuffix(name, filepath.Ext(name)))
	if slug == "" {
		slug = "untitled"
	}
	prefix := f.runID
	if prefix == "" {
		prefix = "run"
	}
	return fmt.Sprintf("%s-%03d-%s.log", prefix, index, slug)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func sanitizeSlug(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	var builder strings.Builder
	builder.Grow(len(value))
	lastDash := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			builder.WriteRune(unicode.ToLower(r))
			lastDash = false
		default:
			if !lastDash && builder.Len() > 0 {
				builder.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(builder.String(), "-")
	const maxSlug = 48
	if len(slug) > maxSlug {
		slug = strings.TrimRight(slug[:maxSlug], "-")
	}
	return slug
}

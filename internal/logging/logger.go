package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"hevcpress/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	Development bool
	// SessionID is stamped on every record as session_id when set.
	SessionID string
	// Color forces ANSI level colours on terminal outputs. When false,
	// colours are used only if the output is a terminal.
	Color bool
}

// New constructs a slog logger using the provided options. The returned
// closer releases any log files opened for the logger.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	outputs, err := openOutputs(defaultSlice(opts.OutputPaths, []string{"stdout"}))
	if err != nil {
		return nil, nil, err
	}

	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	handlers := make([]slog.Handler, 0, len(outputs))
	for _, out := range outputs {
		switch format {
		case "json":
			handlers = append(handlers, newJSONHandler(out.writer, levelVar, addSource))
		case "console":
			color := out.terminal && (opts.Color || colorAllowed(out.writer))
			handlers = append(handlers, newConsoleHandler(out.writer, levelVar, addSource, color))
		default:
			_ = outputs.Close()
			return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
		}
	}

	handler := newFanoutHandler(handlers...)
	if opts.SessionID != "" {
		handler = newSessionHandler(handler, opts.SessionID)
	}
	return slog.New(handler), outputs, nil
}

// NewFromConfig creates the process-wide logger for one batch run. Records go
// to stdout and to <log_dir>/hevcpress-<runID>.log and carry sessionID.
func NewFromConfig(cfg *config.Config, runID, sessionID string) (*slog.Logger, io.Closer, string, error) {
	if cfg == nil {
		logger, closer, err := New(Options{Level: "info", Format: "console", SessionID: sessionID})
		return logger, closer, "", err
	}

	outputPaths := []string{"stdout"}
	var logPath string
	if cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
			return nil, nil, "", fmt.Errorf("ensure log directory: %w", err)
		}
		logPath = ProcessLogPath(cfg.Paths.LogDir, runID)
		outputPaths = append(outputPaths, logPath)
	}

	logger, closer, err := New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputPaths,
		SessionID:   sessionID,
	})
	if err != nil {
		return nil, nil, "", err
	}
	return logger, closer, logPath, nil
}

// ProcessLogPath returns the process log location for runID.
func ProcessLogPath(logDir, runID string) string {
	name := "hevcpress.log"
	if runID != "" {
		name = "hevcpress-" + runID + ".log"
	}
	return filepath.Join(logDir, name)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), value...)
}

type output struct {
	writer   io.Writer
	file     *os.File
	terminal bool
}

type outputSet []output

// Close closes every file opened for the set. Standard streams are left open.
func (s outputSet) Close() error {
	var errs []error
	for _, out := range s {
		if out.file == nil {
			continue
		}
		if err := out.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openOutputs(paths []string) (outputSet, error) {
	seen := map[string]struct{}{}
	var outputs outputSet

	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			outputs = append(outputs, output{writer: os.Stdout, terminal: isTerminal(os.Stdout)})
		case "stderr":
			outputs = append(outputs, output{writer: os.Stderr, terminal: isTerminal(os.Stderr)})
		default:
			if err := ensureLogDir(trimmed); err != nil {
				_ = outputs.Close()
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				_ = outputs.Close()
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			outputs = append(outputs, output{writer: file, file: file})
		}
	}

	if len(outputs) == 0 {
		outputs = append(outputs, output{writer: os.Stdout, terminal: isTerminal(os.Stdout)})
	}
	return outputs, nil
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorAllowed(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	_, ok := w.(*os.File)
	return ok
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

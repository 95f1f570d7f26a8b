package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	SourceDir      string `toml:"source_dir" yaml:"source_dir"`
	DestinationDir string `toml:"destination_dir" yaml:"destination_dir"`
	LogDir         string `toml:"log_dir" yaml:"log_dir"`
	TrashDir       string `toml:"trash_dir" yaml:"trash_dir"`
}

// Encoder contains configuration for the external encoder and prober.
type Encoder struct {
	Binary        string `toml:"binary" yaml:"binary"`
	FFprobeBinary string `toml:"ffprobe_binary" yaml:"ffprobe_binary"`
	// Quality is the constant quantization parameter passed as {quality}.
	Quality      int    `toml:"quality" yaml:"quality"`
	OutputSuffix string `toml:"output_suffix" yaml:"output_suffix"`
	// Arguments is the encoder argument template. {input}, {output} and
	// {quality} are substituted per file.
	Arguments         []string `toml:"arguments" yaml:"arguments"`
	ShowProcessWindow bool     `toml:"show_process_window" yaml:"show_process_window"`
}

// Files contains the file-management policy applied after verification.
type Files struct {
	Ignored           []string `toml:"ignored" yaml:"ignored"`
	DeleteSource      bool     `toml:"delete_source" yaml:"delete_source"`
	DeletePermanently bool     `toml:"delete_permanently" yaml:"delete_permanently"`
}

// Verification contains thresholds used when comparing original and encoded media.
type Verification struct {
	// DurationToleranceSeconds of 0 requires exact duration equality.
	DurationToleranceSeconds float64 `toml:"duration_tolerance_seconds" yaml:"duration_tolerance_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format" yaml:"format"`
	Level         string `toml:"level" yaml:"level"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"`
}

// Config encapsulates all configuration values for hevcpress.
//
// Configuration sections by subsystem:
//   - Paths: source, destination, log and trash directories
//   - Encoder: ffmpeg/ffprobe binaries, quality, suffix and argument template
//   - Files: ignore list and source deletion policy
//   - Verification: duration comparison tolerance
//   - Logging: log format, level, and retention
type Config struct {
	Paths        Paths        `toml:"paths" yaml:"paths"`
	Encoder      Encoder      `toml:"encoder" yaml:"encoder"`
	Files        Files        `toml:"files" yaml:"files"`
	Verification Verification `toml:"verification" yaml:"verification"`
	Logging      Logging      `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. The boolean reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := decode(file, resolvedPath, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decode(r io.Reader, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err := yaml.NewDecoder(r).Decode(cfg)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	default:
		return toml.NewDecoder(r).Decode(cfg)
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hevcpress.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the batch writes into. The source
// directory is never created: a missing source is a startup failure.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.DestinationDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EncoderBinary returns the encoder executable name.
func (c *Config) EncoderBinary() string {
	if strings.TrimSpace(c.Encoder.Binary) == "" {
		return defaultEncoderBinary
	}
	return c.Encoder.Binary
}

// FFprobeBinary returns the ffprobe executable name used for duration checks.
func (c *Config) FFprobeBinary() string {
	if strings.TrimSpace(c.Encoder.FFprobeBinary) == "" {
		return defaultFFprobeBinary
	}
	return c.Encoder.FFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultTrashDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "Trash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/Trash"
	}
	return filepath.Join(home, ".local", "share", "Trash")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

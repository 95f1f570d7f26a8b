package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"hevcpress/internal/config"
	"hevcpress/internal/services"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_DATA_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "hevcpress", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "Videos", "hevcpress", "source"); cfg.Paths.SourceDir != want {
		t.Fatalf("unexpected source dir: got %q want %q", cfg.Paths.SourceDir, want)
	}
	if want := filepath.Join(tempHome, "Videos", "hevcpress", "encoded"); cfg.Paths.DestinationDir != want {
		t.Fatalf("unexpected destination dir: got %q want %q", cfg.Paths.DestinationDir, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "Trash"); cfg.Paths.TrashDir != want {
		t.Fatalf("unexpected trash dir: got %q want %q", cfg.Paths.TrashDir, want)
	}
	if !cfg.Files.DeleteSource {
		t.Fatal("expected delete_source enabled by default")
	}
	if cfg.Files.DeletePermanently {
		t.Fatal("expected recoverable deletes by default")
	}
	if cfg.Verification.DurationToleranceSeconds != 0 {
		t.Fatalf("expected exact duration matching by default, got %v", cfg.Verification.DurationToleranceSeconds)
	}
	if cfg.Encoder.OutputSuffix != "hevc" {
		t.Fatalf("unexpected suffix: %q", cfg.Encoder.OutputSuffix)
	}
	if !slices.Equal(cfg.Encoder.Arguments, config.DefaultEncoderArguments()) {
		t.Fatalf("unexpected default arguments: %v", cfg.Encoder.Arguments)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.DestinationDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.SourceDir); !os.IsNotExist(err) {
		t.Fatalf("expected source dir to be left alone, stat err=%v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "hevcpress.toml")

	type payload struct {
		Paths struct {
			SourceDir      string `toml:"source_dir"`
			DestinationDir string `toml:"destination_dir"`
		} `toml:"paths"`
		Encoder struct {
			Quality      int    `toml:"quality"`
			OutputSuffix string `toml:"output_suffix"`
		} `toml:"encoder"`
		Files struct {
			Ignored      []string `toml:"ignored"`
			DeleteSource bool     `toml:"delete_source"`
		} `toml:"files"`
	}
	custom := payload{}
	custom.Paths.SourceDir = filepath.Join(tempDir, "in")
	custom.Paths.DestinationDir = filepath.Join(tempDir, "out")
	custom.Encoder.Quality = 30
	custom.Encoder.OutputSuffix = " x "
	custom.Files.Ignored = []string{"keep.mov", " keep.mov", "", "other.mkv"}
	custom.Files.DeleteSource = false
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.SourceDir != custom.Paths.SourceDir {
		t.Fatalf("unexpected source dir %q", cfg.Paths.SourceDir)
	}
	if cfg.Encoder.Quality != 30 {
		t.Fatalf("expected quality 30, got %d", cfg.Encoder.Quality)
	}
	if cfg.Encoder.OutputSuffix != "x" {
		t.Fatalf("expected trimmed suffix, got %q", cfg.Encoder.OutputSuffix)
	}
	if cfg.Files.DeleteSource {
		t.Fatal("expected delete_source override to false")
	}
	if want := []string{"keep.mov", "other.mkv"}; !slices.Equal(cfg.Files.Ignored, want) {
		t.Fatalf("unexpected ignored list: got %v want %v", cfg.Files.Ignored, want)
	}
	if len(cfg.Encoder.Arguments) == 0 {
		t.Fatal("expected default arguments to survive partial file")
	}
}

func TestLoadYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "hevcpress.yaml")
	contents := strings.Join([]string{
		"paths:",
		"  source_dir: " + filepath.Join(tempDir, "in"),
		"  destination_dir: " + filepath.Join(tempDir, "out"),
		"files:",
		"  delete_permanently: true",
		"  ignored: [a.mov]",
		"verification:",
		"  duration_tolerance_seconds: 0.05",
		"",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write yaml config: %v", err)
	}

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if !cfg.Files.DeletePermanently {
		t.Fatal("expected delete_permanently from yaml")
	}
	if !cfg.Files.DeleteSource {
		t.Fatal("expected delete_source default to be preserved")
	}
	if cfg.Verification.DurationToleranceSeconds != 0.05 {
		t.Fatalf("unexpected tolerance %v", cfg.Verification.DurationToleranceSeconds)
	}
	if len(cfg.Files.Ignored) != 1 || cfg.Files.Ignored[0] != "a.mov" {
		t.Fatalf("unexpected ignored list %v", cfg.Files.Ignored)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[paths\nsource_dir = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.SourceDir, "hevcpress") {
		t.Fatalf("expected source dir to contain hevcpress, got %q", cfg.Paths.SourceDir)
	}
	if !slices.Equal(cfg.Encoder.Arguments, config.DefaultEncoderArguments()) {
		t.Fatalf("sample arguments drifted from defaults: %v", cfg.Encoder.Arguments)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing source", func(c *config.Config) { c.Paths.SourceDir = "" }},
		{"missing destination", func(c *config.Config) { c.Paths.DestinationDir = " " }},
		{"same folders", func(c *config.Config) { c.Paths.DestinationDir = c.Paths.SourceDir + "/" }},
		{"quality too high", func(c *config.Config) { c.Encoder.Quality = 52 }},
		{"negative quality", func(c *config.Config) { c.Encoder.Quality = -1 }},
		{"suffix with separator", func(c *config.Config) { c.Encoder.OutputSuffix = "a/b" }},
		{"missing output placeholder", func(c *config.Config) { c.Encoder.Arguments = []string{"-i", "{input}"} }},
		{"negative tolerance", func(c *config.Config) { c.Verification.DurationToleranceSeconds = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration marker, got %v", err)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

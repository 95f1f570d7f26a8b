package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"hevcpress/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a per-test temp directory. Source and
// destination folders exist; the log and trash folders do not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "source")
	cfgVal.Paths.DestinationDir = filepath.Join(base, "encoded")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.TrashDir = filepath.Join(base, "Trash")
	for _, dir := range []string{cfgVal.Paths.SourceDir, cfgVal.Paths.DestinationDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithDeleteSource sets files.delete_source and files.delete_permanently.
func WithDeleteSource(deleteSource, permanently bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Files.DeleteSource = deleteSource
		b.cfg.Files.DeletePermanently = permanently
	}
}

// WithStubEncoder installs a shell-script encoder that writes outputSize
// bytes to its final argument and exits with exitCode. Flag-only probes such
// as -version exit cleanly without output.
func WithStubEncoder(outputSize int, exitCode int) ConfigOption {
	return func(b *configBuilder) {
		body := "for last; do :; done\n" +
			"case \"$last\" in -*) exit 0 ;; esac\n" +
			"head -c " + itoa(outputSize) + " /dev/zero > \"$last\"\n" +
			"exit " + itoa(exitCode)
		b.cfg.Encoder.Binary = writeScript(b.t, filepath.Join(b.baseDir, "bin"), "ffmpeg", body)
	}
}

// WithStubProbe installs a shell-script ffprobe that reports duration for
// every file that exists and fails for missing ones.
func WithStubProbe(duration string) ConfigOption {
	return func(b *configBuilder) {
		body := "for last; do :; done\n" +
			"[ -f \"$last\" ] || { echo \"$last: No such file or directory\" >&2; exit 1; }\n" +
			"echo '{\"streams\":[],\"format\":{\"duration\":\"" + duration + "\"}}'"
		b.cfg.Encoder.FFprobeBinary = writeScript(b.t, filepath.Join(b.baseDir, "bin"), "ffprobe", body)
	}
}

// WithStubbedBinaries writes no-op executables for names and prepends their
// directory to PATH for the duration of the test.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		for _, name := range names {
			writeScript(b.t, binDir, name, "exit 0")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceDir)
}

func writeScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

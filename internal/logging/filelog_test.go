package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hevcpress/internal/config"
)

func TestFileLogsOpenTeesToBase(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	basePath := filepath.Join(t.TempDir(), "base.log")
	base, baseCloser, err := New(Options{Format: "console", OutputPaths: []string{basePath}})
	if err != nil {
		t.Fatal(err)
	}
	defer baseCloser.Close()

	logs := NewFileLogs(&cfg, "run-9", "session-9")
	logger, path, closer, err := logs.Open(base, 2, "My Movie (2019).mkv")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	want := filepath.Join(cfg.Paths.LogDir, "items", "run-9-002-my-movie-2019.log")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	logger.Info("per file record")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, p := range []string{path, basePath} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !strings.Contains(string(data), "per file record") {
			t.Fatalf("%s missing record: %q", p, data)
		}
	}
}

func TestFileLogsDisabledWithoutLogDir(t *testing.T) {
	logs := NewFileLogs(nil, "run", "")
	base := NewNop()
	logger, path, closer, err := logs.Open(base, 1, "a.mkv")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if logger != base || path != "" {
		t.Fatalf("expected passthrough, got path %q", path)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestSanitizeSlug(t *testing.T) {
	cases := map[string]string{
		"Hello World":     "hello-world",
		"  --weird__name": "weird-name",
		"ÜBER":            "ber",
		"":                "",
	}
	for in, want := range cases {
		if got := sanitizeSlug(in); got != want {
			t.Errorf("sanitizeSlug(%q) = %q, want %q", in, got, want)
		}
	}
	if got := sanitizeSlug(strings.Repeat("a", 80)); len(got) != 48 {
		t.Errorf("expected slug capped at 48, got %d", len(got))
	}
}

func TestPruneRunLogsKeepsCurrentAndFresh(t *testing.T) {
	dir := t.TempDir()
	items := filepath.Join(dir, "items")
	if err := os.MkdirAll(items, 0o755); err != nil {
		t.Fatal(err)
	}
	old := time.Now().AddDate(0, 0, -10)
	write := func(path string, mtime time.Time) {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
	stale := filepath.Join(dir, "hevcpress-old.log")
	current := filepath.Join(dir, "hevcpress-current.log")
	fresh := filepath.Join(dir, "hevcpress-fresh.log")
	staleItem := filepath.Join(items, "old-001-a.log")
	unrelated := filepath.Join(dir, "notes.txt")
	write(stale, old)
	write(current, old)
	write(fresh, time.Now())
	write(staleItem, old)
	write(unrelated, old)

	if got := PruneRunLogs(NewNop(), dir, 5, current); got != 2 {
		t.Fatalf("pruned %d files, want 2", got)
	}
	for _, gone := range []string{stale, staleItem} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed", gone)
		}
	}
	for _, kept := range []string{current, fresh, unrelated} {
		if _, err := os.Stat(kept); err != nil {
			t.Fatalf("expected %s kept: %v", kept, err)
		}
	}
	if got := PruneRunLogs(NewNop(), dir, 0); got != 0 {
		t.Fatalf("retention 0 should disable pruning, pruned %d", got)
	}
}

package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present", "exit 0")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Optional", Command: "also-not-present", Optional: true},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[3].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[3].Detail)
	}

	missing := Missing(results)
	if len(missing) != 2 || missing[0].Name != "Missing" || missing[1].Name != "Blank" {
		t.Fatalf("Missing returned %#v", missing)
	}
}

func TestVersion(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "ffmpeg", `echo ""; echo "ffmpeg version 6.1.1 Copyright"; echo "built with gcc"`)
	got, err := Version(context.Background(), stub)
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if got != "ffmpeg version 6.1.1 Copyright" {
		t.Fatalf("Version = %q", got)
	}

	failing := writeStub(t, t.TempDir(), "ffmpeg", "exit 1")
	if _, err := Version(context.Background(), failing); err == nil {
		t.Fatal("expected error for failing binary")
	}
	if _, err := Version(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestHasEncoder(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "ffmpeg", `cat <<'OUT'
Encoders:
 V..... = Video
 ------
 V....D libx264              libx264 H.264 / AVC
 V....D hevc_nvenc           NVIDIA NVENC hevc encoder (codec hevc)
OUT`)
	ok, err := HasEncoder(context.Background(), stub, "hevc_nvenc")
	if err != nil || !ok {
		t.Fatalf("expected hevc_nvenc present, got %v %v", ok, err)
	}
	ok, err = HasEncoder(context.Background(), stub, "libx265")
	if err != nil || ok {
		t.Fatalf("expected libx265 absent, got %v %v", ok, err)
	}
}

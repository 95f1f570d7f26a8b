package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	writeFile(t, src, "verified copy content")

	if err := CopyFileVerified(src, dst, false); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, dst); got != "verified copy content" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if got := readFile(t, src); got != "verified copy content" {
		t.Fatalf("source changed: %q", got)
	}
}

func TestCopyFileVerifiedRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	err := CopyFileVerified(src, dst, false)
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
	if got := readFile(t, dst); got != "old" {
		t.Fatalf("existing destination modified: %q", got)
	}

	if err := CopyFileVerified(src, dst, true); err != nil {
		t.Fatalf("overwrite copy: %v", err)
	}
	if got := readFile(t, dst); got != "new" {
		t.Fatalf("expected overwritten content, got %q", got)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.bin")
	if err := CopyFileVerified(filepath.Join(dir, "nonexistent"), dst, false); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("destination should not exist after failed copy")
	}
}

func TestCopyFileVerifiedReadsBackDestination(t *testing.T) {
	if _, err := os.Stat(os.DevNull); err != nil {
		t.Skip("no null device")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	writeFile(t, src, "bytes that never land")
	if err := os.Symlink(os.DevNull, dst); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	// The null device either refuses fsync or reads back empty.
	if err := CopyFileVerified(src, dst, true); err == nil {
		t.Fatal("expected copy into a discarding destination to fail")
	}
	if _, err := os.Lstat(dst); !os.IsNotExist(err) {
		t.Fatalf("mismatching destination should be removed, lstat err=%v", err)
	}
}

func TestHashFileMatchesContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "same")
	writeFile(t, b, "same")
	sumA, sizeA, err := hashFile(a)
	if err != nil {
		t.Fatal(err)
	}
	sumB, _, err := hashFile(b)
	if err != nil {
		t.Fatal(err)
	}
	if sizeA != 4 || string(sumA) != string(sumB) {
		t.Fatalf("unexpected hash result: size=%d", sizeA)
	}
	writeFile(t, b, "diff")
	if sumB, _, _ = hashFile(b); string(sumA) == string(sumB) {
		t.Fatal("expected different content to hash differently")
	}
}

func TestRelocatorMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a_TEMP.mp4")
	dst := filepath.Join(dir, "out", "a.mp4")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, src, "encoded")

	r := NewRelocator(filepath.Join(dir, "Trash"))
	if err := r.Move(src, dst, false); err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("expected source to be gone after move")
	}
	if got := readFile(t, dst); got != "encoded" {
		t.Fatalf("unexpected destination content %q", got)
	}
}

func TestRelocatorMoveRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp4")
	dst := filepath.Join(dir, "dst.mp4")
	writeFile(t, src, "new")
	writeFile(t, dst, "existing")

	r := NewRelocator("")
	err := r.Move(src, dst, false)
	if !IsExist(err) {
		t.Fatalf("expected exist error, got %v", err)
	}
	if got := readFile(t, dst); got != "existing" {
		t.Fatalf("destination overwritten: %q", got)
	}
	if got := readFile(t, src); got != "new" {
		t.Fatalf("source disturbed: %q", got)
	}

	if err := r.Move(src, dst, true); err != nil {
		t.Fatalf("overwrite move: %v", err)
	}
	if got := readFile(t, dst); got != "new" {
		t.Fatalf("expected replaced destination, got %q", got)
	}
}

func TestRelocatorMoveMissingDestinationDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp4")
	writeFile(t, src, "x")

	if err := NewRelocator("").Move(src, filepath.Join(dir, "nope", "dst.mp4"), false); err == nil {
		t.Fatal("expected error for missing destination directory")
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
}

func TestRelocatorDeletePermanently(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.mkv")
	writeFile(t, path, "x")

	r := NewRelocator(filepath.Join(dir, "Trash"))
	if err := r.Delete(path, true); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected file removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "Trash")); !os.IsNotExist(err) {
		t.Fatal("permanent delete must not touch the trash")
	}
	if err := r.Delete(path, true); err == nil {
		t.Fatal("expected error deleting a missing file")
	}
}

func TestRelocatorDeleteToTrash(t *testing.T) {
	dir := t.TempDir()
	trash := filepath.Join(dir, "Trash")
	r := NewRelocator(trash)

	first := filepath.Join(dir, "movie one.mkv")
	writeFile(t, first, "first")
	if err := r.Delete(first, false); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Fatal("expected original removed from source")
	}
	if got := readFile(t, filepath.Join(trash, "files", "movie one.mkv")); got != "first" {
		t.Fatalf("unexpected trashed content %q", got)
	}
	info := readFile(t, filepath.Join(trash, "info", "movie one.mkv.trashinfo"))
	if !strings.HasPrefix(info, "[Trash Info]\n") {
		t.Fatalf("unexpected trashinfo header: %q", info)
	}
	if !strings.Contains(info, "Path="+strings.ReplaceAll(first, " ", "%20")+"\n") {
		t.Fatalf("trashinfo missing escaped path: %q", info)
	}
	if !strings.Contains(info, "DeletionDate=") {
		t.Fatalf("trashinfo missing deletion date: %q", info)
	}

	writeFile(t, first, "second")
	if err := r.Delete(first, false); err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
	if got := readFile(t, filepath.Join(trash, "files", "movie one.1.mkv")); got != "second" {
		t.Fatalf("expected collision suffix, got %q", got)
	}
	if _, err := os.Stat(filepath.Join(trash, "info", "movie one.1.mkv.trashinfo")); err != nil {
		t.Fatalf("expected second trashinfo: %v", err)
	}
}

func TestRelocatorDeleteToTrashWithoutDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keep.mkv")
	writeFile(t, path, "x")

	if err := NewRelocator("").Delete(path, false); err == nil {
		t.Fatal("expected error without trash directory")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file should remain when trashing fails: %v", err)
	}
}

func TestIsNoSpace(t *testing.T) {
	wrapped := &os.PathError{Op: "write", Path: "/x", Err: unix.ENOSPC}
	if !IsNoSpace(wrapped) {
		t.Fatal("expected ENOSPC to be classified as no space")
	}
	if IsNoSpace(os.ErrNotExist) {
		t.Fatal("ErrNotExist is not a space error")
	}
	if IsNoSpace(nil) {
		t.Fatal("nil is not a space error")
	}
}

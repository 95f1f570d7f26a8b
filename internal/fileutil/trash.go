package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const trashInfoTimeLayout = "2006-01-02T15:04:05"

// Trash moves path into the freedesktop.org trash rooted at trashDir and
// returns the trashed location. The .trashinfo entry is written first so the
// chosen name is reserved; it is removed again if the move fails.
func Trash(trashDir, path string) (string, error) {
	if strings.TrimSpace(trashDir) == "" {
		return "", errors.New("trash directory not configured")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", err
	}

	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("ensure trash directory: %w", err)
		}
	}

	infoPath, name, err := reserveTrashInfo(infoDir, filesDir, abs, time.Now())
	if err != nil {
		return "", err
	}
	target := filepath.Join(filesDir, name)
	if err := moveFile(abs, target, false); err != nil {
		_ = os.Remove(infoPath)
		return "", err
	}
	return target, nil
}

func reserveTrashInfo(infoDir, filesDir, abs string, now time.Time) (string, string, error) {
	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	content := trashInfo(abs, now)

	const maxAttempts = 10000
	for attempt := 0; attempt < maxAttempts; attempt++ {
		name := base
		if attempt > 0 {
			name = stem + "." + strconv.Itoa(attempt) + ext
		}
		if _, err := os.Lstat(filepath.Join(filesDir, name)); err == nil {
			continue
		}
		infoPath := filepath.Join(infoDir, name+".trashinfo")
		file, err := os.OpenFile(infoPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("write trash info: %w", err)
		}
		_, writeErr := file.WriteString(content)
		closeErr := file.Close()
		if err := errors.Join(writeErr, closeErr); err != nil {
			_ = os.Remove(infoPath)
			return "", "", fmt.Errorf("write trash info: %w", err)
		}
		return infoPath, name, nil
	}
	return "", "", fmt.Errorf("no free trash name for %s", base)
}

func trashInfo(abs string, now time.Time) string {
	escaped := (&url.URL{Path: abs}).EscapedPath()
	return "[Trash Info]\nPath=" + escaped + "\nDeletionDate=" + now.Format(trashInfoTimeLayout) + "\n"
}

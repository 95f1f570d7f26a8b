package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Relocator performs the file operations batch verification relies on. All
// methods return nil on success and never panic.
type Relocator struct {
	// TrashDir is the freedesktop.org trash root used for recoverable deletes.
	TrashDir string
}

// NewRelocator returns a Relocator that trashes into trashDir.
func NewRelocator(trashDir string) *Relocator {
	return &Relocator{TrashDir: strings.TrimSpace(trashDir)}
}

// Copy duplicates src at dst with integrity verification.
func (r *Relocator) Copy(src, dst string, overwrite bool) error {
	if err := CopyFileVerified(src, dst, overwrite); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// Move renames src to dst. Across filesystems it copies with verification and
// then removes src. When overwrite is false an existing dst is an error
// (fs.ErrExist) and nothing is changed.
func (r *Relocator) Move(src, dst string, overwrite bool) error {
	if err := moveFile(src, dst, overwrite); err != nil {
		return fmt.Errorf("move %s to %s: %w", src, dst, err)
	}
	return nil
}

// Delete removes path, or moves it into the trash when permanently is false.
func (r *Relocator) Delete(path string, permanently bool) error {
	if permanently {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("delete %s: %w", path, err)
		}
		return nil
	}
	trashDir := ""
	if r != nil {
		trashDir = r.TrashDir
	}
	if _, err := Trash(trashDir, path); err != nil {
		return fmt.Errorf("trash %s: %w", path, err)
	}
	return nil
}

func moveFile(src, dst string, overwrite bool) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file", src)
	}

	if err := rename(src, dst, overwrite); err == nil {
		return nil
	} else if !errors.Is(err, unix.EXDEV) {
		return err
	}

	if err := CopyFileVerified(src, dst, overwrite); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after cross-device copy: %w", err)
	}
	return nil
}

// rename moves src to dst. Without overwrite it refuses an existing dst.
func rename(src, dst string, overwrite bool) error {
	if overwrite {
		return os.Rename(src, dst)
	}
	err := renameNoReplace(src, dst)
	if !errors.Is(err, errNoReplaceUnsupported) {
		return err
	}
	if _, statErr := os.Lstat(dst); statErr == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return statErr
	}
	return os.Rename(src, dst)
}

var errNoReplaceUnsupported = errors.New("no-replace rename unsupported")

// IsNoSpace reports whether err stems from a full filesystem or exhausted
// quota.
func IsNoSpace(err error) bool {
	return errors.Is(err, unix.ENOSPC) || errors.Is(err, unix.EDQUOT)
}

// IsExist reports whether err stems from an existing destination.
func IsExist(err error) bool {
	return errors.Is(err, fs.ErrExist)
}

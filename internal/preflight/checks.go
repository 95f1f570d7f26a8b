package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"hevcpress/internal/config"
	"hevcpress/internal/deps"
)

// minFreeBytes is the destination headroom below which a warning is raised.
const minFreeBytes = 1 << 30

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDistinct verifies that source and destination resolve to different
// directories, following symlinks where they exist.
func CheckDistinct(source, destination string) Result {
	const name = "Distinct folders"
	a, b := resolve(source), resolve(destination)
	if a == b {
		return Result{Name: name, Detail: fmt.Sprintf("source and destination are both %s", a)}
	}
	return Result{Name: name, Passed: true, Detail: "source and destination differ"}
}

func resolve(path string) string {
	cleaned := filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(cleaned); err == nil {
		return resolved
	}
	return cleaned
}

// CheckFreeSpace reports the space available at path. Less than minBytes is
// a warning only: a batch can still reject or retain files without space.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s free on %s", humanize.IBytes(free), path)
	if free < minBytes {
		return Result{Name: name, Optional: true, Detail: detail + fmt.Sprintf(" (below %s)", humanize.IBytes(minBytes))}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: detail}
}

// CheckSystemDeps evaluates the external programs a batch run needs.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "Encoder",
			Command:     cfg.EncoderBinary(),
			Description: "Required for encoding",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for duration verification",
		},
	}
	return deps.CheckBinaries(requirements)
}

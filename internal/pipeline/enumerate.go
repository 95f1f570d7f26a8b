package pipeline

import (
	"os"
	"path/filepath"

	"hevcpress/internal/batch"
	"hevcpress/internal/services"
)

// Enumerate lists the candidate files directly inside dir, sorted by name.
// Directories, symlinks and other non-regular entries are not candidates.
func Enumerate(dir string) ([]batch.FileJob, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrStartup, "pipeline", "enumerate source", "source folder is not readable", err)
	}

	jobs := make([]batch.FileJob, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		jobs = append(jobs, batch.FileJob{
			Path:  path,
			Name:  entry.Name(),
			Size:  info.Size(),
			Index: len(jobs) + 1,
		})
	}
	return jobs, nil
}

package preflight

import (
	"context"
	"fmt"
	"strings"

	"hevcpress/internal/config"
	"hevcpress/internal/deps"
	"hevcpress/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional results are reported but never block a run.
	Optional bool
	Detail   string
}

// RunAll executes every preflight check for cfg.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Source folder", cfg.Paths.SourceDir),
		CheckDirectoryAccess("Destination folder", cfg.Paths.DestinationDir),
		CheckDistinct(cfg.Paths.SourceDir, cfg.Paths.DestinationDir),
		CheckFreeSpace("Destination space", cfg.Paths.DestinationDir, minFreeBytes),
	}
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}
	return results
}

func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
	if status.Available {
		result.Detail = status.Path
	} else {
		result.Detail = status.Detail
	}
	return result
}

// Failed converts blocking failures in results into a startup error, or nil
// when the run may proceed.
func Failed(results []Result) error {
	var problems []string
	for _, r := range results {
		if r.Passed || r.Optional {
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	if len(problems) == 0 {
		return nil
	}
	return services.Wrap(services.ErrStartup, "preflight", "", strings.Join(problems, "; "), nil)
}

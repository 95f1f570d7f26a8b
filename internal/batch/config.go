package batch

import (
	"path/filepath"
	"slices"
	"strings"

	"hevcpress/internal/config"
)

// Config is the immutable configuration snapshot for one batch run.
type Config struct {
	SourceDir         string
	DestinationDir    string
	Quality           int
	OutputSuffix      string
	DeleteSource      bool
	DeletePermanently bool
	ShowProcessWindow bool

	EncoderBinary     string
	EncoderArgs       []string
	FFprobeBinary     string
	DurationTolerance float64
	TrashDir          string

	ignored map[string]struct{}
}

// FromConfig builds the batch snapshot from loaded settings.
func FromConfig(cfg *config.Config) Config {
	return Config{
		SourceDir:         cfg.Paths.SourceDir,
		DestinationDir:    cfg.Paths.DestinationDir,
		Quality:           cfg.Encoder.Quality,
		OutputSuffix:      cfg.Encoder.OutputSuffix,
		DeleteSource:      cfg.Files.DeleteSource,
		DeletePermanently: cfg.Files.DeletePermanently,
		ShowProcessWindow: cfg.Encoder.ShowProcessWindow,
		EncoderBinary:     cfg.EncoderBinary(),
		EncoderArgs:       slices.Clone(cfg.Encoder.Arguments),
		FFprobeBinary:     cfg.FFprobeBinary(),
		DurationTolerance: cfg.Verification.DurationToleranceSeconds,
		TrashDir:          cfg.Paths.TrashDir,
		ignored:           newNameSet(cfg.Files.Ignored),
	}
}

// WithIgnored returns a copy of c whose ignore set is replaced by names.
func (c Config) WithIgnored(names ...string) Config {
	c.ignored = newNameSet(names)
	return c
}

// IsIgnored reports whether name is on the ignore list. Matching is by exact
// file name.
func (c Config) IsIgnored(name string) bool {
	_, ok := c.ignored[name]
	return ok
}

// IgnoredNames returns the ignore list in sorted order.
func (c Config) IgnoredNames() []string {
	names := make([]string, 0, len(c.ignored))
	for name := range c.ignored {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// EncodedPath returns where the encoder writes its output for sourceName:
// <SourceDir>/<stem>_<suffix>.mp4.
func (c Config) EncodedPath(sourceName string) string {
	return filepath.Join(c.SourceDir, Stem(sourceName)+"_"+c.OutputSuffix+".mp4")
}

// TempPath returns the same-folder staging copy name for an encoded artifact.
func (c Config) TempPath(encodedPath string) string {
	return filepath.Join(c.SourceDir, Stem(filepath.Base(encodedPath))+"_TEMP.mp4")
}

// DestinationPath returns the final location of an accepted encode of sourceName.
func (c Config) DestinationPath(sourceName string) string {
	return filepath.Join(c.DestinationDir, Stem(sourceName)+".mp4")
}

// Stem returns name without its final extension.
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newNameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

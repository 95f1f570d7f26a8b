package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"hevcpress/internal/services"
)

const maxQuality = 51

// Validate ensures the configuration is usable. Directory existence is checked
// at batch start, not here, so `config validate` works before folders exist.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validatePaths,
		c.validateEncoder,
		c.validateVerification,
	} {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return errors.New("paths.source_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DestinationDir) == "" {
		return errors.New("paths.destination_dir must be set")
	}
	if filepath.Clean(c.Paths.SourceDir) == filepath.Clean(c.Paths.DestinationDir) {
		return errors.New("paths.destination_dir must differ from paths.source_dir")
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if c.Encoder.Quality < 0 || c.Encoder.Quality > maxQuality {
		return fmt.Errorf("encoder.quality must be between 0 and %d", maxQuality)
	}
	if strings.ContainsAny(c.Encoder.OutputSuffix, `/\`) {
		return errors.New("encoder.output_suffix must not contain path separators")
	}
	for _, placeholder := range []string{PlaceholderInput, PlaceholderOutput} {
		if !slices.Contains(c.Encoder.Arguments, placeholder) {
			return fmt.Errorf("encoder.arguments must include %s", placeholder)
		}
	}
	return nil
}

func (c *Config) validateVerification() error {
	tolerance := c.Verification.DurationToleranceSeconds
	if math.IsNaN(tolerance) || tolerance < 0 {
		return errors.New("verification.duration_tolerance_seconds must be >= 0")
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"hevcpress/internal/config"
	"hevcpress/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce    sync.Once
	config        *config.Config
	configErr     error
	configPath    string
	configExists  bool
	configCreated bool
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads configuration once per invocation. When no file exists
// the sample is written to the resolved path and defaults are used.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			if !services.IsStartupFailure(err) {
				err = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			}
			c.configErr = err
			return
		}
		c.configPath = resolved
		c.configExists = exists
		if !exists && resolved != "" {
			if err := config.CreateSample(resolved); err == nil {
				c.configCreated = true
			} else {
				fmt.Fprintf(os.Stderr, "warning: could not write default config to %s: %v\n", resolved, err)
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func printFirstRunNotice(out io.Writer, path string) {
	fmt.Fprintf(out, "No configuration found; wrote defaults to %s\n", path)
	fmt.Fprintln(out, "Edit paths.source_dir and paths.destination_dir before the next run.")
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

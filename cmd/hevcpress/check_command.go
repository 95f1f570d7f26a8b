package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"hevcpress/internal/deps"
	"hevcpress/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run preflight checks without touching any media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, checkStatus(out, r), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			for _, binary := range []string{cfg.EncoderBinary(), cfg.FFprobeBinary()} {
				if version, err := deps.Version(cmd.Context(), binary); err == nil {
					fmt.Fprintf(out, "%s: %s\n", binary, version)
				}
			}
			if ok, err := deps.HasEncoder(cmd.Context(), cfg.EncoderBinary(), "hevc_nvenc"); err == nil && !ok {
				fmt.Fprintln(out, paint(out, "warning: encoder does not list hevc_nvenc", text.FgYellow))
			}

			return preflight.Failed(results)
		},
	}
}

func checkStatus(out io.Writer, r preflight.Result) string {
	switch {
	case r.Passed:
		return paint(out, "ok", text.FgGreen)
	case r.Optional:
		return paint(out, "warn", text.FgYellow)
	default:
		return paint(out, "fail", text.FgRed)
	}
}

package main

import (
	"github.com/spf13/cobra"

	"hevcpress/internal/batchrun"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "hevcpress",
		Short: "Re-encode a folder of videos to HEVC and keep only the smaller results",
		Long: "hevcpress encodes every file in the configured source folder, verifies the\n" +
			"encoded duration, and moves smaller results into the destination folder.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result, err := batchrun.Run(cmd.Context(), cfg, batchrun.Options{Terminal: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if ctx.configCreated {
				printFirstRunNotice(out, ctx.configPath)
			}
			renderSummary(out, result)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))

	return rootCmd
}

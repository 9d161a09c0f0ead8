package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(ctx *commandContext) *cobra.Command {
	playCmd := newPlayCommand(ctx)

	rootCmd := &cobra.Command{
		Use:           "chunkplay [file]",
		Short:         "Play a JSON lines stream of audio fragments",
		Long:          playCmd.Long,
		Args:          playCmd.Args,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          playCmd.RunE,
	}
	rootCmd.Flags().AddFlagSet(playCmd.Flags())

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&ctx.envFileFlag, "env-file", "", "Dotenv file with CHUNKPLAY_* settings (default .env)")
	rootCmd.PersistentFlags().StringVar(&ctx.logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&ctx.logFormatFlag, "log-format", "", "Log format: console or json")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(newChunkCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

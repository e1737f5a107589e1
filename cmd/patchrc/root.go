package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".patchrc.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&o.Strict, "strict", false, "treat any zero-match rule as an error")
	cmd.PersistentFlags().BoolVar(&o.Async, "async", false, "patch files concurrently")
	cmd.PersistentFlags().StringVar(&o.Only, "only", "", "glob limiting which target files are patched")
}

// setupLogging configures the zerolog logger backing the run
func setupLogging() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

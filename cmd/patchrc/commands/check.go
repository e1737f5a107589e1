package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which rules would change files, without writing",
		Long: `Check runs every patch in dry-run mode and reports which target files
would change. It exits non-zero when patches are pending, so it can gate CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "check").Logger().WithContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			logger := log.New(os.Stdout, zerolog.Ctx(ctx).GetLevel())
			runner := patch.NewRunner(patch.NewPatcher(nil), logger, o.RunAsync(cfg))

			results, err := runner.Run(ctx, o.ConfigFile, cfg, o.PatchOptions(cfg, true))
			if err != nil {
				return errors.Errorf("checking patches: %w", err)
			}

			pending := 0
			for _, res := range results {
				if res.WasModified {
					pending++
				}
			}

			if pending > 0 {
				o.UserLogger.LogRunChange("Files have pending patches")
				return errors.Errorf("%d file(s) would change", pending)
			}

			o.UserLogger.LogRunChange("Files are up to date")
			return nil
		},
	}

	return cmd
}

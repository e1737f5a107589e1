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

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply all replacement rules and rewrite the target files",
		Long: `Apply reads every target file named in the config, applies its ordered
replacement rules, and writes the result back in place. A rule whose text is
never found is a silent no-op unless strict mode or must_match is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			logger := log.New(os.Stdout, zerolog.Ctx(ctx).GetLevel())
			runner := patch.NewRunner(patch.NewPatcher(nil), logger, o.RunAsync(cfg))

			if _, err := runner.Run(ctx, o.ConfigFile, cfg, o.PatchOptions(cfg, false)); err != nil {
				return errors.Errorf("applying patches: %w", err)
			}

			o.UserLogger.LogValidation(true, cfg.Message, nil)
			return nil
		},
	}

	return cmd
}

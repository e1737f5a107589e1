package opts

import (
	"context"

	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Strict     bool
	Async      bool
	Only       string

	UserLogger *log.UserLogger
}

// LoadConfig loads the config file named by the --config flag
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// PatchOptions merges config settings with command-line overrides
func (o *RootOpts) PatchOptions(cfg *config.Config, dryRun bool) patch.Options {
	return patch.Options{
		Strict: cfg.Strict || o.Strict,
		DryRun: dryRun,
		Only:   o.Only,
	}
}

// RunAsync reports whether files should be patched concurrently
func (o *RootOpts) RunAsync(cfg *config.Config) bool {
	return cfg.Async || o.Async
}

// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package patch

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner executes all patches in a config
type Runner struct {
	patcher *Patcher
	logger  *log.Logger
	async   bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(patcher *Patcher, logger *log.Logger, async bool) *Runner {
	return &Runner{
		patcher: patcher,
		logger:  logger,
		async:   async,
	}
}

// 🏃 Run applies every patch in the config and returns per-file results in
// config order. The first failing file aborts the run.
func (r *Runner) Run(ctx context.Context, configPath string, cfg *config.Config, opts Options) ([]*FileResult, error) {
	patches, err := filterPatches(cfg.Patches, opts.Only)
	if err != nil {
		return nil, err
	}
	if len(patches) == 0 {
		return nil, errors.Errorf("no patches match filter %q", opts.Only)
	}

	r.logger.StartPatchOperation(ctx, log.PatchOperation{
		ConfigPath: configPath,
		Files:      len(patches),
		DryRun:     opts.DryRun,
	})
	defer r.logger.EndPatchOperation(ctx)

	if r.async {
		return r.runAsync(ctx, patches, opts)
	}
	return r.runSync(ctx, patches, opts)
}

// 🔄 runSync patches files one at a time
func (r *Runner) runSync(ctx context.Context, patches []config.Patch, opts Options) ([]*FileResult, error) {
	results := make([]*FileResult, 0, len(patches))
	for _, patch := range patches {
		res, err := r.patcher.PatchFile(ctx, patch, opts)
		if err != nil {
			r.logFailure(ctx, patch.File)
			return nil, errors.Errorf("patching %s: %w", patch.File, err)
		}
		r.logResult(ctx, res, opts)
		results = append(results, res)
	}
	return results, nil
}

// ⚡ runAsync patches files concurrently, one goroutine per file.
// The first error cancels the remaining work.
func (r *Runner) runAsync(ctx context.Context, patches []config.Patch, opts Options) ([]*FileResult, error) {
	results := make([]*FileResult, len(patches))
	g, gctx := errgroup.WithContext(ctx)

	for i, patch := range patches {
		i, patch := i, patch
		g.Go(func() error {
			res, err := r.patcher.PatchFile(gctx, patch, opts)
			if err != nil {
				r.logFailure(gctx, patch.File)
				return errors.Errorf("patching %s: %w", patch.File, err)
			}
			r.logResult(gctx, res, opts)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// 📝 logResult reports a per-file outcome on the console
func (r *Runner) logResult(ctx context.Context, res *FileResult, opts Options) {
	op := log.FileOperation{
		Path:         res.Path,
		Status:       "unchanged",
		Replacements: res.ReplacementCount,
	}
	switch {
	case opts.DryRun && res.WasModified:
		op.Status = "pending"
		op.WouldModify = true
	case res.WasModified:
		op.Status = "patched"
		op.IsModified = true
	}
	r.logger.LogFileOperation(ctx, op)
}

// 📝 logFailure reports a failed file on the console
func (r *Runner) logFailure(ctx context.Context, path string) {
	r.logger.LogFileOperation(ctx, log.FileOperation{
		Path:    path,
		Status:  "error",
		IsError: true,
	})
}

// 🔍 filterPatches keeps the patches whose target matches the glob.
// An empty glob keeps everything.
func filterPatches(patches []config.Patch, only string) ([]config.Patch, error) {
	if only == "" {
		return patches, nil
	}

	var kept []config.Patch
	for _, patch := range patches {
		matched, err := doublestar.Match(only, patch.File)
		if err != nil {
			return nil, errors.Errorf("matching filter %q: %w", only, err)
		}
		if matched {
			kept = append(kept, patch)
		}
	}
	return kept, nil
}

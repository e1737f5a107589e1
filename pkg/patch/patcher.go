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
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options controls how patches are applied
type Options struct {
	Strict bool   // Treat any zero-match rule as an error
	DryRun bool   // Compute results without writing files
	Only   string // Optional glob limiting which target files are patched
}

// 📄 FileResult describes the outcome for a single target file
type FileResult struct {
	Path             string // Target file path
	ReplacementCount int    // Total occurrences replaced
	WasModified      bool   // Whether the content changed
	Unmatched        []int  // Indexes of rules that matched nothing
}

// 🔨 Patcher rewrites target files according to their replacement rules
type Patcher struct {
	replacer text.TextReplacer
}

// 🏭 NewPatcher creates a new patcher
func NewPatcher(replacer text.TextReplacer) *Patcher {
	if replacer == nil {
		replacer = text.NewSimpleTextReplacer()
	}
	return &Patcher{replacer: replacer}
}

// 📄 PatchFile applies one patch's rules to its target file.
// The file is read fully and the read handle closed before any write happens.
// Unless DryRun is set, the result is written back to the same path even when
// nothing changed.
func (p *Patcher) PatchFile(ctx context.Context, patch config.Patch, opts Options) (*FileResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("file", patch.File).Int("rules", len(patch.Replacements)).Msg("patching file")

	rules := rulesFor(patch)
	if err := p.replacer.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	info, err := os.Stat(patch.File)
	if err != nil {
		return nil, errors.Errorf("stat target file: %w", err)
	}

	f, err := os.Open(patch.File)
	if err != nil {
		return nil, errors.Errorf("opening target file: %w", err)
	}

	result, replaceErr := p.replacer.ReplaceText(ctx, f, rules)
	closeErr := f.Close()
	if replaceErr != nil {
		return nil, errors.Errorf("applying replacements to %s: %w", patch.File, replaceErr)
	}
	if closeErr != nil {
		return nil, errors.Errorf("closing target file: %w", closeErr)
	}

	res := &FileResult{
		Path:             patch.File,
		ReplacementCount: result.ReplacementCount,
		WasModified:      result.WasModified,
	}

	// Zero-match rules are no-ops unless strictness asks otherwise
	for i, matches := range result.RuleMatches {
		if matches > 0 {
			continue
		}
		if opts.Strict || rules[i].MustMatch {
			return nil, errors.Errorf("rule %d (%q) matched nothing in %s", i, rules[i].FromText, patch.File)
		}
		res.Unmatched = append(res.Unmatched, i)
		logger.Debug().Str("file", patch.File).Int("rule", i).Msg("rule matched nothing")
	}

	if opts.DryRun {
		return res, nil
	}

	if err := os.WriteFile(patch.File, result.ModifiedContent, info.Mode().Perm()); err != nil {
		return nil, errors.Errorf("writing target file: %w", err)
	}

	logger.Debug().
		Str("file", patch.File).
		Int("replacements", res.ReplacementCount).
		Bool("modified", res.WasModified).
		Msg("file written")

	return res, nil
}

// 🔄 rulesFor converts a patch's config replacements to replacement rules
func rulesFor(patch config.Patch) []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(patch.Replacements))
	for _, r := range patch.Replacements {
		rules = append(rules, text.ReplacementRule{
			FromText:  r.Old,
			ToText:    r.New,
			MustMatch: r.MustMatch,
		})
	}
	return rules
}

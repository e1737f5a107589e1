package text

import (
	"context"
	"io"
)

// ReplacementRule defines a single literal text replacement
type ReplacementRule struct {
	// FromText is the exact text to find
	FromText string

	// ToText is the replacement text
	ToText string

	// MustMatch makes a zero-occurrence rule an error instead of a no-op
	MustMatch bool
}

// ReplacementResult contains the results of applying a rule sequence
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the total number of replacements made
	ReplacementCount int

	// RuleMatches holds the occurrence count replaced by each rule, in rule order
	RuleMatches []int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies the rules in order to the content.
	// Each rule operates on the output of the previous one.
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}

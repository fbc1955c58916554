// Package safety provides command safety analysis
package safety

import (
	"fmt"
	"strings"

	"github.com/soroush/shazam/internal/types"
)

// ReasonChained is reported when the structural scan rejects a command
const ReasonChained = "command chains or pipes multiple commands"

// Classifier flags candidate commands as dangerous. It holds no mutable state;
// the pattern set and allowlist are copied at construction.
type Classifier struct {
	patterns  []string
	lowered   []string
	safePipes []string
	strict    bool
}

// Option configures a Classifier
type Option func(*Classifier)

// WithSafePipes replaces the default pipe allowlist
func WithSafePipes(targets []string) Option {
	return func(c *Classifier) {
		c.safePipes = append([]string(nil), targets...)
	}
}

// WithStrictChaining switches the structural scan to shell-syntax analysis,
// where an allowlisted pipe no longer exempts the rest of the command
func WithStrictChaining(strict bool) Option {
	return func(c *Classifier) {
		c.strict = strict
	}
}

// NewClassifier creates a classifier over the given dangerous patterns
func NewClassifier(patterns []string, opts ...Option) *Classifier {
	c := &Classifier{
		safePipes: DefaultSafePipeTargets(),
	}
	for _, p := range patterns {
		// An empty pattern would match every command
		if strings.TrimSpace(p) == "" {
			continue
		}
		c.patterns = append(c.patterns, p)
		c.lowered = append(c.lowered, strings.ToLower(p))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsDangerous reports whether command matches any pattern or chains commands
// outside the default pipe allowlist
func IsDangerous(command string, patterns []string) bool {
	return NewClassifier(patterns).Classify(command).Dangerous
}

// Classify evaluates a command. The substring scan runs first and reports the
// first matching pattern; the structural scan only runs when nothing matched.
func (c *Classifier) Classify(command string) types.DangerVerdict {
	lower := strings.ToLower(command)
	for i, pattern := range c.lowered {
		if strings.Contains(lower, pattern) {
			return types.DangerVerdict{
				Dangerous: true,
				Reason:    fmt.Sprintf("matches dangerous pattern %q", c.patterns[i]),
			}
		}
	}

	if c.strict {
		return c.analyzeStructure(command)
	}

	if !hasChainOperator(command) {
		return types.DangerVerdict{}
	}

	// A single allowlisted pipe exempts the whole command, including any
	// other operators it contains
	if c.hasSafePipe(command) {
		return types.DangerVerdict{}
	}

	return types.DangerVerdict{Dangerous: true, Reason: ReasonChained}
}

// Patterns returns a copy of the active pattern set
func (c *Classifier) Patterns() []string {
	return append([]string(nil), c.patterns...)
}

// Strict reports whether shell-syntax analysis is enabled
func (c *Classifier) Strict() bool {
	return c.strict
}

func hasChainOperator(command string) bool {
	for _, op := range ChainOperators {
		if strings.Contains(command, op) {
			return true
		}
	}
	return false
}

func (c *Classifier) hasSafePipe(command string) bool {
	for _, target := range c.safePipes {
		if strings.Contains(command, "| "+target) {
			return true
		}
	}
	return false
}

func (c *Classifier) isSafePipeTarget(name string) bool {
	for _, target := range c.safePipes {
		if name == target {
			return true
		}
	}
	return false
}

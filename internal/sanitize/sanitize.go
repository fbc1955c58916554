// Package sanitize turns raw model output into a single candidate command line.
// Fenced blocks, inline backticks, known answer prefixes, trailing lines and
// inline comments are stripped.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	fencedBlock = regexp.MustCompile("(?s)```.*?```")
	inlineCode  = regexp.MustCompile("`([^`]+)`")
)

// KnownPrefixes are the leading phrases removed from a completion, checked in
// order and matched case-insensitively. Only the first match is removed per pass.
var KnownPrefixes = []string{
	"bash:",
	"shell:",
	"command:",
	"$",
	"# ",
	"Here's the command:",
	"The command is:",
	"You can use:",
	"Try this:",
}

// Clean extracts the candidate command from a raw completion. The result may be
// empty, which callers must treat as "no command generated".
//
// Clean is idempotent: the cleaning pass is repeated until it no longer changes
// the text. Every step only removes characters, so this terminates.
func Clean(raw string) string {
	cmd := strings.TrimSpace(raw)
	for {
		next := cleanOnce(cmd)
		if next == cmd {
			return next
		}
		cmd = next
	}
}

func cleanOnce(s string) string {
	s = fencedBlock.ReplaceAllString(s, "")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = stripPrefix(s)

	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, " #"); i >= 0 {
		s = s[:i]
	}

	return strings.TrimSpace(s)
}

// stripPrefix removes the first known prefix that s starts with
func stripPrefix(s string) string {
	for _, prefix := range KnownPrefixes {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}

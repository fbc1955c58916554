// Package safety provides command safety analysis
package safety

import (
	"fmt"
	"path"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/soroush/shazam/internal/types"
)

// analyzeStructure parses the command and rejects every compound form except
// pipes into allowlisted programs
func (c *Classifier) analyzeStructure(command string) types.DangerVerdict {
	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return types.DangerVerdict{Dangerous: true, Reason: "command could not be parsed"}
	}

	if len(prog.Stmts) > 1 {
		return types.DangerVerdict{Dangerous: true, Reason: "command runs multiple statements"}
	}

	var verdict types.DangerVerdict
	syntax.Walk(prog, func(node syntax.Node) bool {
		if verdict.Dangerous {
			return false
		}

		switch n := node.(type) {
		case *syntax.Stmt:
			if n.Background || n.Coprocess {
				verdict = types.DangerVerdict{Dangerous: true, Reason: "command starts a background job"}
			}
		case *syntax.BinaryCmd:
			verdict = c.analyzeBinaryCmd(n)
		case *syntax.CmdSubst, *syntax.ProcSubst:
			verdict = types.DangerVerdict{Dangerous: true, Reason: "command uses command substitution"}
		case *syntax.Block, *syntax.Subshell:
			verdict = types.DangerVerdict{Dangerous: true, Reason: "command groups multiple commands"}
		}
		return !verdict.Dangerous
	})

	return verdict
}

// analyzeBinaryCmd checks a single && / || / | node
func (c *Classifier) analyzeBinaryCmd(cmd *syntax.BinaryCmd) types.DangerVerdict {
	switch cmd.Op {
	case syntax.AndStmt:
		return types.DangerVerdict{Dangerous: true, Reason: "command chains commands with &&"}
	case syntax.OrStmt:
		return types.DangerVerdict{Dangerous: true, Reason: "command chains commands with ||"}
	case syntax.Pipe, syntax.PipeAll:
		name := commandName(cmd.Y)
		if !c.isSafePipeTarget(name) {
			return types.DangerVerdict{
				Dangerous: true,
				Reason:    fmt.Sprintf("command pipes into %q", name),
			}
		}
	}
	return types.DangerVerdict{}
}

// commandName returns the program a statement starts with
func commandName(stmt *syntax.Stmt) string {
	if stmt == nil {
		return ""
	}
	switch cmd := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		if len(cmd.Args) == 0 {
			return ""
		}
		return path.Base(getLiteralWord(cmd.Args[0]))
	case *syntax.BinaryCmd:
		return commandName(cmd.X)
	}
	return ""
}

// getLiteralWord extracts the literal parts of a word
func getLiteralWord(word *syntax.Word) string {
	if word == nil || len(word.Parts) == 0 {
		return ""
	}

	var result strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			result.WriteString(p.Value)
		case *syntax.SglQuoted:
			result.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				if lit, ok := inner.(*syntax.Lit); ok {
					result.WriteString(lit.Value)
				}
			}
		}
	}
	return result.String()
}

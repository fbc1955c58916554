package ai

import (
	"strings"

	"github.com/soroush/shazam/internal/types"
)

// Preamble is the fixed instruction block at the top of every prompt
const Preamble = `You are a helpful assistant that converts natural language requests into shell commands.

Rules:
- Return ONLY the shell command, nothing else
- No explanations, no prose, no comments
- No markdown formatting or backticks
- Exactly one line
- Prefer common Unix/Linux commands
- Be safe and practical
`

// Example is a single few-shot request and its expected command
type Example struct {
	Request string
	Command string
}

// FewShotExamples are rendered after the preamble, in order
var FewShotExamples = []Example{
	{Request: "list files in current directory", Command: "ls -la"},
	{Request: "show disk usage", Command: "df -h"},
	{Request: "find all python files", Command: `find . -name "*.py"`},
}

var examplesBlock = renderExamples(FewShotExamples)

func renderExamples(examples []Example) string {
	var sb strings.Builder
	sb.WriteString("\nExamples:\n")
	for _, ex := range examples {
		sb.WriteString("User: " + ex.Request + "\n")
		sb.WriteString("Assistant: " + ex.Command + "\n\n")
	}
	return sb.String()
}

// BuildPrompt assembles the completion prompt for a request. The sampling
// parameters travel separately to the provider; the prompt text depends only
// on the user prompt.
func BuildPrompt(req types.GenerationRequest) string {
	var sb strings.Builder
	sb.Grow(len(Preamble) + len(examplesBlock) + len(req.UserPrompt) + 32)
	sb.WriteString(Preamble)
	sb.WriteString(examplesBlock)
	sb.WriteString("User: ")
	sb.WriteString(req.UserPrompt)
	sb.WriteString("\nAssistant: ")
	return sb.String()
}

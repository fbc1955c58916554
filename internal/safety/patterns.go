// Package safety provides command safety analysis
package safety

// defaultDangerousCommands ships as the initial safety.dangerous_commands value
var defaultDangerousCommands = []string{
	"rm -rf /",
	"mkfs",
	"dd if=",
	"shutdown",
	"reboot",
	"halt",
	"sudo rm",
	"chmod 777 /",
}

// defaultSafePipeTargets are the programs a command may pipe into without
// tripping the chaining check
var defaultSafePipeTargets = []string{
	"grep",
	"head",
	"tail",
	"sort",
	"wc",
}

// ChainOperators are the operators that make a command compound. Matching is
// done on the raw command text.
var ChainOperators = []string{"&&", "||", ";", "|"}

// DefaultDangerousCommands returns a fresh copy of the default pattern set
func DefaultDangerousCommands() []string {
	return append([]string(nil), defaultDangerousCommands...)
}

// DefaultSafePipeTargets returns a fresh copy of the default pipe allowlist
func DefaultSafePipeTargets() []string {
	return append([]string(nil), defaultSafePipeTargets...)
}

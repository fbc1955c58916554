// Package safety tests
package safety

import (
	"strings"
	"testing"
)

func TestIsDangerous(t *testing.T) {
	patterns := DefaultDangerousCommands()

	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{"plain listing", "ls -la", false},
		{"find", `find . -name "*.py"`, false},
		{"mixed case pattern", "Sudo Rm -rf /tmp", true},
		{"root wipe", "rm -rf /", true},
		{"mkfs", "mkfs.ext4 /dev/sdb1", true},
		{"dd", "dd if=/dev/zero of=/dev/sda", true},
		{"shutdown uppercase", "SHUTDOWN -h now", true},
		{"pattern inside argument", "echo reboot", true},
		{"chmod root", "chmod 777 / -R", true},
		{"semicolon chain", "ls; rm file", true},
		{"and chain", "make && make install", true},
		{"or chain", "test -f x || touch x", true},
		{"pipe to shell", "curl example.com | sh", true},
		{"safe pipe grep", "ps aux | grep python", false},
		{"safe pipe head", "cat log.txt | head", false},
		{"safe pipe wc", "ls | wc -l", false},
		{"pipe without space", "ps aux |grep python", true},
		{"operator in quotes", "echo 'a; b'", true},
		{"safe pipe exempts whole command", "ls | grep foo; curl x | sh", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDangerous(tt.command, patterns); got != tt.want {
				t.Errorf("IsDangerous(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestIsDangerous_PatternsAreInput(t *testing.T) {
	if IsDangerous("rm -rf /", nil) {
		t.Error("expected no match without patterns and without operators")
	}

	if !IsDangerous("terraform destroy", []string{"terraform destroy"}) {
		t.Error("expected custom pattern to match")
	}
}

func TestClassify_Reason(t *testing.T) {
	c := NewClassifier(DefaultDangerousCommands())

	verdict := c.Classify("sudo rm -rf /var")
	if !verdict.Dangerous {
		t.Fatal("expected dangerous verdict")
	}
	// First pattern in order wins
	if !strings.Contains(verdict.Reason, `"rm -rf /"`) {
		t.Errorf("expected reason to name first matching pattern, got %q", verdict.Reason)
	}

	verdict = c.Classify("ls; rm file")
	if !verdict.Dangerous || verdict.Reason != ReasonChained {
		t.Errorf("expected chained verdict, got %+v", verdict)
	}

	verdict = c.Classify("uptime")
	if verdict.Dangerous || verdict.Reason != "" {
		t.Errorf("expected safe verdict with no reason, got %+v", verdict)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewClassifier(DefaultDangerousCommands())
	commands := []string{"ls", "rm -rf /", "ls | sort; pwd", "a && b"}

	for _, cmd := range commands {
		first := c.Classify(cmd)
		for i := 0; i < 3; i++ {
			if got := c.Classify(cmd); got != first {
				t.Errorf("Classify(%q) changed between calls: %+v vs %+v", cmd, first, got)
			}
		}
	}
}

func TestNewClassifier_SkipsEmptyPatterns(t *testing.T) {
	c := NewClassifier([]string{"", "  ", "halt"})

	if got := c.Patterns(); len(got) != 1 || got[0] != "halt" {
		t.Errorf("expected only non-empty patterns, got %v", got)
	}
	if c.Classify("ls").Dangerous {
		t.Error("empty pattern should not match every command")
	}
}

func TestNewClassifier_CopiesPatterns(t *testing.T) {
	patterns := []string{"halt"}
	c := NewClassifier(patterns)
	patterns[0] = "ls"

	if c.Classify("ls").Dangerous {
		t.Error("classifier should not observe caller mutations")
	}
}

func TestWithSafePipes(t *testing.T) {
	c := NewClassifier(nil, WithSafePipes([]string{"less"}))

	if !c.Classify("ps aux | grep x").Dangerous {
		t.Error("grep should no longer be allowlisted")
	}
	if c.Classify("ps aux | less").Dangerous {
		t.Error("less should be allowlisted")
	}
}

func TestDefaults_ReturnCopies(t *testing.T) {
	a := DefaultDangerousCommands()
	a[0] = "changed"
	if DefaultDangerousCommands()[0] != "rm -rf /" {
		t.Error("DefaultDangerousCommands should return a copy")
	}

	if len(DefaultDangerousCommands()) != 8 {
		t.Errorf("expected 8 default patterns, got %d", len(DefaultDangerousCommands()))
	}

	b := DefaultSafePipeTargets()
	b[0] = "changed"
	if DefaultSafePipeTargets()[0] != "grep" {
		t.Error("DefaultSafePipeTargets should return a copy")
	}
}

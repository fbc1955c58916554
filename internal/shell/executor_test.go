package shell

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireSh(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return path
}

func TestSystemExecutor_ExitCodes(t *testing.T) {
	sh := requireSh(t)

	tests := []struct {
		command  string
		wantCode int
	}{
		{"true", 0},
		{"exit 3", 3},
		{"false", 1},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			e := NewSystemExecutor(sh)
			e.Stdout, e.Stderr = &bytes.Buffer{}, &bytes.Buffer{}

			code, err := e.Run(context.Background(), tt.command)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("Run(%q) = %d, want %d", tt.command, code, tt.wantCode)
			}
		})
	}
}

func TestSystemExecutor_Output(t *testing.T) {
	sh := requireSh(t)

	var stdout, stderr bytes.Buffer
	e := NewSystemExecutor(sh)
	e.Stdout, e.Stderr = &stdout, &stderr
	e.Dir = t.TempDir()

	if _, err := e.Run(context.Background(), "echo hello; echo oops >&2; pwd"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 || lines[0] != "hello" {
		t.Errorf("unexpected stdout: %q", stdout.String())
	}
	if resolved, _ := filepath.EvalSymlinks(e.Dir); lines[len(lines)-1] != e.Dir && lines[len(lines)-1] != resolved {
		t.Errorf("expected command to run in %s, got %s", e.Dir, lines[len(lines)-1])
	}
	if strings.TrimSpace(stderr.String()) != "oops" {
		t.Errorf("unexpected stderr: %q", stderr.String())
	}
}

func TestSystemExecutor_MissingShell(t *testing.T) {
	e := NewSystemExecutor("/nonexistent/shazam-shell")

	code, err := e.Run(context.Background(), "true")
	if err == nil {
		t.Fatal("expected spawn failure")
	}
	if code != -1 {
		t.Errorf("expected code -1 on spawn failure, got %d", code)
	}
}

func TestSystemExecutor_Cancelled(t *testing.T) {
	sh := requireSh(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewSystemExecutor(sh)
	code, err := e.Run(ctx, "sleep 5")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if code != -1 {
		t.Errorf("expected code -1, got %d", code)
	}
}

func TestSystemExecutor_DefaultShell(t *testing.T) {
	t.Setenv("SHELL", "/bin/testsh")

	if e := NewSystemExecutor(""); e.Shell != "/bin/testsh" {
		t.Errorf("expected $SHELL fallback, got %s", e.Shell)
	}
}

func TestInterpExecutor(t *testing.T) {
	tests := []struct {
		command  string
		wantCode int
		wantOut  string
	}{
		{"echo hello", 0, "hello\n"},
		{"exit 4", 4, ""},
		{"X=1; [ $X -eq 1 ] && echo yes", 0, "yes\n"},
		{"echo a | tr a b", 0, "b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			var stdout bytes.Buffer
			e := NewInterpExecutor()
			e.Stdout, e.Stderr = &stdout, &bytes.Buffer{}

			code, err := e.Run(context.Background(), tt.command)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("Run(%q) = %d, want %d", tt.command, code, tt.wantCode)
			}
			if tt.wantOut != "" && stdout.String() != tt.wantOut {
				t.Errorf("Run(%q) output = %q, want %q", tt.command, stdout.String(), tt.wantOut)
			}
		})
	}
}

func TestInterpExecutor_ParseError(t *testing.T) {
	e := NewInterpExecutor()

	code, err := e.Run(context.Background(), "echo 'unterminated")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if code != -1 {
		t.Errorf("expected code -1, got %d", code)
	}
}

func TestInterpExecutor_Dir(t *testing.T) {
	var stdout bytes.Buffer
	e := NewInterpExecutor()
	e.Stdout = &stdout
	e.Dir = t.TempDir()

	if _, err := e.Run(context.Background(), "pwd"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(stdout.String()); got != e.Dir {
		t.Errorf("expected pwd %s, got %s", e.Dir, got)
	}
}

func TestNewExecutor(t *testing.T) {
	tests := []struct {
		mode    string
		want    string
		wantErr bool
	}{
		{ModeSystem, "*shell.SystemExecutor", false},
		{"", "*shell.SystemExecutor", false},
		{ModeBuiltin, "*shell.InterpExecutor", false},
		{"fish", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			e, err := NewExecutor(tt.mode, "/bin/sh")
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for mode %q", tt.mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch e.(type) {
			case *SystemExecutor:
				if tt.want != "*shell.SystemExecutor" {
					t.Errorf("mode %q: got SystemExecutor", tt.mode)
				}
			case *InterpExecutor:
				if tt.want != "*shell.InterpExecutor" {
					t.Errorf("mode %q: got InterpExecutor", tt.mode)
				}
			}
		})
	}
}

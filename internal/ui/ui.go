// Package ui provides terminal user interface components
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/soroush/shazam/internal/engine"
	"github.com/soroush/shazam/internal/types"
)

var (
	// Colors
	Green   = color.New(color.FgGreen).SprintFunc()
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Red     = color.New(color.FgRed).SprintFunc()
	Cyan    = color.New(color.FgCyan).SprintFunc()
	Magenta = color.New(color.FgMagenta).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()

	// Styled
	Success = color.New(color.FgGreen, color.Bold).SprintFunc()
	Warning = color.New(color.FgYellow, color.Bold).SprintFunc()
	Error   = color.New(color.FgRed, color.Bold).SprintFunc()
	Info    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

var dangerBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("9")).
	Padding(0, 1)

var dangerTitleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("9")).
	Bold(true)

// PrintCommand displays the generated command
func PrintCommand(cmd string) {
	fmt.Println()
	fmt.Printf("✨ %s\n", Bold("Generated command:"))
	fmt.Printf("   %s\n", Cyan(cmd))
}

// DangerBox renders the warning shown before a dangerous command
func DangerBox(command, reason string) string {
	var b strings.Builder
	b.WriteString(dangerTitleStyle.Render("⚠️  Potentially dangerous command detected"))
	b.WriteString("\n\n")
	b.WriteString(command)
	if reason != "" {
		b.WriteString("\n\n")
		b.WriteString("Reason: " + reason)
	}
	return dangerBoxStyle.Render(b.String())
}

// PrintDangerWarning displays the dangerous command warning box
func PrintDangerWarning(verdict types.DangerVerdict, command string) {
	fmt.Println()
	fmt.Println(DangerBox(command, verdict.Reason))
}

// PrintSuccess displays a success message
func PrintSuccess(message string) {
	fmt.Printf("\n%s %s\n", Success("✓"), message)
}

// PrintError displays an error message
func PrintError(message string) {
	fmt.Printf("\n%s %s\n", Error("✗"), message)
}

// PrintWarning displays a warning message
func PrintWarning(message string) {
	fmt.Printf("\n%s %s\n", Warning("⚠"), message)
}

// PrintInfo displays an info message
func PrintInfo(message string) {
	fmt.Printf("\n%s %s\n", Info("ℹ"), message)
}

// PrintOutcome reports a finished cycle
func PrintOutcome(out engine.Outcome) {
	if out.Message == "" {
		return
	}

	switch out.State {
	case types.StateSucceeded:
		PrintSuccess(out.Message)
	case types.StateCancelled:
		PrintInfo(out.Message)
	case types.StateFailed:
		if out.Executed && out.ExitCode > 0 {
			PrintWarning(out.Message)
			return
		}
		PrintError(out.Message)
	}
}

// PrintHistoryEntry displays one history line
func PrintHistoryEntry(entry *types.HistoryEntry) {
	icon := stateIcon(entry.State)
	age := FormatDurationShort(time.Since(entry.Timestamp))

	fmt.Printf("%s %s %s\n", icon, Dim(fmt.Sprintf("%-8s", age)), truncate(entry.Prompt, 60))
	if entry.Command != "" {
		command := Cyan(entry.Command)
		if entry.Dangerous {
			command = Red(entry.Command)
		}
		fmt.Printf("   %s\n", command)
	}
	if entry.Executed && entry.ExitCode != 0 {
		fmt.Printf("   %s\n", Dim(fmt.Sprintf("exit code %d", entry.ExitCode)))
	}
}

func stateIcon(state types.CycleState) string {
	switch state {
	case types.StateSucceeded:
		return Success("✓")
	case types.StateFailed:
		return Error("✗")
	case types.StateCancelled:
		return Warning("○")
	default:
		return Dim("·")
	}
}

// PrintHeader displays the assistant header
func PrintHeader(name string) {
	fmt.Println()
	fmt.Println(Magenta(fmt.Sprintf("  🚀 %s - natural language to shell commands", name)))
	fmt.Println()
}

// Spinner represents a loading spinner
type Spinner struct {
	frames  []string
	current int
	message string
}

// NewSpinner creates a new spinner
func NewSpinner(message string) *Spinner {
	return &Spinner{
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message: message,
	}
}

// Frame returns the next spinner frame
func (s *Spinner) Frame() string {
	frame := s.frames[s.current]
	s.current = (s.current + 1) % len(s.frames)
	return fmt.Sprintf("\r%s %s", Cyan(frame), s.message)
}

// Clear returns the sequence that erases the spinner line
func (s *Spinner) Clear() string {
	return "\r" + strings.Repeat(" ", len(s.message)+2) + "\r"
}

// truncate shortens s to maxLen runes
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// FormatDurationShort formats a duration in a short human-readable format
func FormatDurationShort(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	if days < 30 {
		return fmt.Sprintf("%dd ago", days)
	}
	return fmt.Sprintf("%dmo ago", days/30)
}

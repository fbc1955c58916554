package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// ErrAborted is returned when the user interrupts a prompt with Ctrl+C or
// closes the input
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the user for confirmation
type Prompter interface {
	// Confirm asks a yes/no question; anything but yes is no
	Confirm(question string) (bool, error)

	// Acknowledge waits for the user to press Enter
	Acknowledge(message string) error
}

// LinePrompter reads answers through liner so Ctrl+C is reported instead of
// killing the process. The terminal is only held while a question is open.
// Redirected input is read through one shared reader so answers queued on a
// pipe survive from one question to the next.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter on the process stdin
func NewLinePrompter() *LinePrompter {
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return &LinePrompter{}
	}
	return newReaderPrompter(os.Stdin, os.Stdout)
}

func newReaderPrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks question with a [y/N] suffix
func (p *LinePrompter) Confirm(question string) (bool, error) {
	// liner does not support ANSI colors in prompts
	input, err := p.prompt(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	return IsYes(input), nil
}

// Acknowledge shows message and waits for any line of input
func (p *LinePrompter) Acknowledge(message string) error {
	_, err := p.prompt(message + " ")
	return err
}

func (p *LinePrompter) prompt(text string) (string, error) {
	if p.in != nil {
		return p.readLine(text)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	input, err := line.Prompt(text)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", err
	}
	return input, nil
}

func (p *LinePrompter) readLine(text string) (string, error) {
	fmt.Fprint(p.out, text)

	input, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimRight(input, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}

// IsYes reports whether input is an affirmative answer
func IsYes(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

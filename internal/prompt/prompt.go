// Package prompt implements the interactive question loop. Validation
// is pure (ParseChoice, ParsePositiveInt, ParsePath) and driven by any
// reader, so the retry loop and the rules it enforces stay separate.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/t2ne/sad-cli/internal/config"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// ErrInvalid marks input outside the allowed domain.
var ErrInvalid = errors.New("invalid input")

// Choice is one selectable option.
type Choice struct {
	Key   string
	Label string
}

// ParseChoice validates raw against the choice keys. Empty input picks
// the default.
func ParseChoice(raw string, choices []Choice, def string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	for _, c := range choices {
		if raw == c.Key {
			return raw, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
}

// ParsePositiveInt validates raw as a positive integer, empty input
// picking the default.
func ParsePositiveInt(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a positive integer", ErrInvalid, raw)
	}
	return n, nil
}

// ParsePath cleans quotes, expands ~ and requires the file to exist.
func ParsePath(raw string) (string, error) {
	raw = strings.Trim(strings.TrimSpace(raw), `"'`)
	if raw == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalid)
	}
	path := config.ExpandPath(raw)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: path not found: %s", ErrInvalid, path)
	}
	return path, nil
}

// Prompter asks questions on Out and reads answers from In, retrying
// until an answer validates.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Choice presents options and loops until a valid key (or Enter for the
// default) is entered.
func (p *Prompter) Choice(title string, choices []Choice, def string) (string, error) {
	fmt.Fprintln(p.out, titleStyle.Render(title))
	for _, c := range choices {
		label := c.Label
		if c.Key == def {
			label += hintStyle.Render(" [default]")
		}
		fmt.Fprintf(p.out, "  %s) %s\n", c.Key, optionStyle.Render(label))
	}
	for {
		fmt.Fprintf(p.out, "Select option [%s]: ", def)
		raw, err := p.readLine()
		if err != nil {
			return "", err
		}
		value, err := ParseChoice(raw, choices, def)
		if err != nil {
			fmt.Fprintln(p.out, errorStyle.Render("Invalid choice, try again."))
			continue
		}
		return value, nil
	}
}

// Text loops until a non-empty line is entered.
func (p *Prompter) Text(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", titleStyle.Render(label))
		raw, err := p.readLine()
		if err != nil {
			return "", err
		}
		if text := strings.TrimSpace(raw); text != "" {
			return text, nil
		}
		fmt.Fprintln(p.out, errorStyle.Render("Please type a non-empty message."))
	}
}

// Path loops until an existing path is entered.
func (p *Prompter) Path(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", titleStyle.Render(label))
		raw, err := p.readLine()
		if err != nil {
			return "", err
		}
		path, err := ParsePath(raw)
		if err != nil {
			fmt.Fprintln(p.out, errorStyle.Render(err.Error()))
			continue
		}
		return path, nil
	}
}

// PositiveInt loops until a positive integer (or Enter for the default)
// is entered.
func (p *Prompter) PositiveInt(label string, def int) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s [%d]: ", titleStyle.Render(label), def)
		raw, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, err := ParsePositiveInt(raw, def)
		if err != nil {
			fmt.Fprintln(p.out, errorStyle.Render("Invalid value. Enter a positive integer, or press Enter for the default."))
			continue
		}
		return n, nil
	}
}

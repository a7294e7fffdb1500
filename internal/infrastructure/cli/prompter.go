package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tavernari/kuaa/internal/ports"
)

const (
	actionPrompt = "What would you like to do? [c]ommit, [a]dd-info, [n]othing: "
	infoPrompt   = "Additional information (empty line to stop): "
)

// Prompter implements ports.ActionPrompter using line input.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter on the given streams, defaulting to stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// AskAction prints the action prompt and reads one line.
func (p *Prompter) AskAction() (string, error) {
	return p.ask(actionPrompt)
}

// AskInfo reads one line of extra context for the next generation.
func (p *Prompter) AskInfo() (string, error) {
	return p.ask(infoPrompt)
}

// ask returns io.EOF only when the input ended before any text was read.
func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, "\n", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			fmt.Fprintln(p.out)
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ ports.ActionPrompter = (*Prompter)(nil)

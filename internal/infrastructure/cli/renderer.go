package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/ports"
)

// Renderer prints results for a terminal. Colour is only used when out is a
// terminal and NO_COLOR is unset.
type Renderer struct {
	out    io.Writer
	errOut io.Writer

	heading  *color.Color
	emphasis *color.Color
	value    *color.Color
	failure  *color.Color
	success  *color.Color
}

// NewRenderer writes results to out and progress indicators to errOut.
func NewRenderer(out, errOut io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	_, tty := terminalFile(out)
	enabled := tty && os.Getenv("NO_COLOR") == ""
	return &Renderer{
		out:      out,
		errOut:   errOut,
		heading:  style(enabled, color.Bold),
		emphasis: style(enabled, color.Bold, color.Italic),
		value:    style(enabled, color.FgYellow),
		failure:  style(enabled, color.FgRed, color.Bold),
		success:  style(enabled, color.FgGreen),
	}
}

func style(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// StartProgress implements ports.Renderer.
func (r *Renderer) StartProgress(label string) func() {
	return startSpinner(r.errOut, label)
}

// ShowGeneration prints the message followed by its token usage.
func (r *Renderer) ShowGeneration(result domain.GenerationResult) {
	r.heading.Fprintln(r.out, "### Git Commit Message")
	fmt.Fprintln(r.out)
	r.emphasis.Fprintln(r.out, result.Content)
	fmt.Fprintln(r.out)
	r.heading.Fprintln(r.out, "### Usage Summary")
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "- Prompt Tokens: %s\n", r.value.Sprint(result.Usage.PromptTokens))
	fmt.Fprintf(r.out, "- Completion Tokens: %s\n", r.value.Sprint(result.Usage.CompletionTokens))
	fmt.Fprintf(r.out, "- Total Tokens: %s\n", r.value.Sprint(result.Usage.TotalTokens))
}

// ShowInvalidAction lists the accepted choices.
func (r *Renderer) ShowInvalidAction(input string) {
	r.failure.Fprintf(r.out, "Invalid action. Please choose one of: %s\n", domain.ActionChoices)
}

// ShowCommitted echoes the subject line of the new commit.
func (r *Renderer) ShowCommitted(message string) {
	subject, _, _ := strings.Cut(message, "\n")
	r.success.Fprintf(r.out, "Committed: %s\n", subject)
}

// ShowBalance prints the exact balance, plus a grouped form when it has
// more than three digits.
func (r *Renderer) ShowBalance(result domain.BalanceResult) {
	fmt.Fprintf(r.out, "%s %s\n", r.heading.Sprint("K-Tokens Balance:"), r.emphasis.Sprint(result.String()))
	if result.Balance != nil && len(result.Balance.String()) > 3 {
		fmt.Fprintf(r.out, "(%s K-Tokens)\n", humanize.BigComma(result.Balance))
	}
}

// ShowBalanceRejected reports a non-2xx balance response.
func (r *Renderer) ShowBalanceRejected(status string) {
	fmt.Fprintf(r.out, "%s %s\n", r.failure.Sprint("Failed to fetch balance. Status:"), status)
}

// ShowMissingCredential explains how to store an API key.
func (r *Renderer) ShowMissingCredential() {
	fmt.Fprintf(r.out, "%s environment variable is not set.\n", domain.CredentialEnvVar)
	fmt.Fprintln(r.out, "Run `kuaa config api-key <KEY>` to store one.")
}

// ShowCredentialSaved names the file the key was written to.
func (r *Renderer) ShowCredentialSaved(path string) {
	r.success.Fprintf(r.out, "API key saved to %s\n", path)
}

var _ ports.Presenter = (*Renderer)(nil)

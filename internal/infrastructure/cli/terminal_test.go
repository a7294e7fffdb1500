package cli

import (
	"bytes"
	"errors"
	"io"
	"math/big"
	"strings"
	"testing"

	"github.com/tavernari/kuaa/internal/domain"
)

func TestPrompterReadsTrimmedLines(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  C \nmore context\n"), &out)

	action, err := p.AskAction()
	if err != nil || action != "C" {
		t.Fatalf("AskAction() = (%q, %v)", action, err)
	}
	info, err := p.AskInfo()
	if err != nil || info != "more context" {
		t.Fatalf("AskInfo() = (%q, %v)", info, err)
	}
	if !strings.Contains(out.String(), actionPrompt) || !strings.Contains(out.String(), infoPrompt) {
		t.Fatalf("prompts not printed: %q", out.String())
	}
}

func TestPrompterLastLineWithoutNewline(t *testing.T) {
	p := NewPrompter(strings.NewReader("n"), io.Discard)
	got, err := p.AskAction()
	if err != nil || got != "n" {
		t.Fatalf("AskAction() = (%q, %v)", got, err)
	}
}

func TestPrompterEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), io.Discard)
	if _, err := p.AskAction(); !errors.Is(err, io.EOF) {
		t.Fatalf("AskAction() error = %v, want io.EOF", err)
	}
}

func TestRendererShowGeneration(t *testing.T) {
	var out bytes.Buffer
	NewRenderer(&out, io.Discard).ShowGeneration(domain.GenerationResult{
		Content: "fix: handle empty diff",
		Usage:   domain.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	})

	want := strings.Join([]string{
		"### Git Commit Message",
		"",
		"fix: handle empty diff",
		"",
		"### Usage Summary",
		"",
		"- Prompt Tokens: 10",
		"- Completion Tokens: 5",
		"- Total Tokens: 15",
		"",
	}, "\n")
	if out.String() != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", out.String(), want)
	}
}

func TestRendererBalance(t *testing.T) {
	tests := []struct {
		balance *big.Int
		want    string
	}{
		{balance: big.NewInt(12345), want: "K-Tokens Balance: 12345\n(12,345 K-Tokens)\n"},
		{balance: big.NewInt(999), want: "K-Tokens Balance: 999\n"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		NewRenderer(&out, io.Discard).ShowBalance(domain.BalanceResult{Balance: tt.balance})
		if out.String() != tt.want {
			t.Errorf("ShowBalance(%s) = %q, want %q", tt.balance, out.String(), tt.want)
		}
	}
}

func TestRendererMessages(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, io.Discard)
	r.ShowInvalidAction("x")
	r.ShowBalanceRejected("401 Unauthorized")
	r.ShowMissingCredential()
	r.ShowCommitted("feat: subject\n\nbody")

	got := out.String()
	for _, want := range []string{
		"Invalid action. Please choose one of: c (commit), a (add-info), n (nothing)\n",
		"Failed to fetch balance. Status: 401 Unauthorized\n",
		"KUAA_API_KEY environment variable is not set.\n",
		"kuaa config api-key",
		"Committed: feat: subject\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "Invalid action") != 1 {
		t.Errorf("invalid notice printed more than once")
	}
}

func TestStartProgressSilentWhenNotTerminal(t *testing.T) {
	var errOut bytes.Buffer
	stop := NewRenderer(io.Discard, &errOut).StartProgress("Generating commit message...")
	stop()
	if errOut.Len() != 0 {
		t.Fatalf("spinner wrote to a non-terminal: %q", errOut.String())
	}
}

package domain_test

import (
	"testing"

	"github.com/tavernari/kuaa/internal/domain"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "tagged fence",
			input: "```plaintext\nfeat: add balance command\n```",
			want:  "feat: add balance command",
		},
		{
			name:  "untagged fence",
			input: "```\nfix: handle empty diff\n\n- keep going\n```\n",
			want:  "fix: handle empty diff\n\n- keep going",
		},
		{
			name:  "no fence",
			input: "chore: bump deps",
			want:  "chore: bump deps",
		},
		{
			name:  "surrounding whitespace only",
			input: "\n\n  docs: readme  \n",
			want:  "docs: readme",
		},
		{
			name:  "adjacent backticks",
			input: "``````plaintext x",
			want:  "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := domain.StripCodeFences(tt.input)
			if once != tt.want {
				t.Fatalf("StripCodeFences() = %q, want %q", once, tt.want)
			}
			if twice := domain.StripCodeFences(once); twice != once {
				t.Fatalf("not idempotent: %q then %q", once, twice)
			}
		})
	}
}

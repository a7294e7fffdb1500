package domain

import "strings"

const (
	taggedFence = "```plaintext"
	plainFence  = "```"
)

// StripCodeFences removes Markdown fence markers the service sometimes wraps
// around a commit message and trims surrounding whitespace. Applying it twice
// yields the same result as applying it once.
func StripCodeFences(content string) string {
	cleaned := strings.ReplaceAll(content, taggedFence, "")
	cleaned = strings.ReplaceAll(cleaned, plainFence, "")
	return strings.TrimSpace(cleaned)
}

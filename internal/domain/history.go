package domain

import "time"

// HistoryRecord captures one generated commit message and what happened to it.
type HistoryRecord struct {
	ID               string     `json:"id"`
	Timestamp        time.Time  `json:"timestamp"`
	Comments         string     `json:"comments"`
	Content          string     `json:"content"`
	PromptTokens     uint64     `json:"prompt_tokens"`
	CompletionTokens uint64     `json:"completion_tokens"`
	TotalTokens      uint64     `json:"total_tokens"`
	Action           PostAction `json:"action"`
}

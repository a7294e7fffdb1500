package domain

import "math/big"

// PromptRequest is the input of a commit message generation.
// An empty Diff is valid and means nothing is staged.
type PromptRequest struct {
	Diff     string
	Comments string
}

// Usage reports the tokens billed for one generation.
type Usage struct {
	PromptTokens     uint64
	CompletionTokens uint64
	TotalTokens      uint64
}

// GenerationResult is the content returned by a successful generation call.
type GenerationResult struct {
	Content string
	Usage   Usage
}

// BalanceResult holds the remaining K-Tokens. The server reports values in
// the uint128 range, so the balance is arbitrary precision.
type BalanceResult struct {
	Balance *big.Int
}

// String renders the balance as a plain base-10 integer.
func (b BalanceResult) String() string {
	if b.Balance == nil {
		return "0"
	}
	return b.Balance.String()
}

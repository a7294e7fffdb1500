package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/ports"
)

// Client talks to the kuaa prompt service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     ports.Logger
}

// NewClient builds a client for baseURL. Every request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, logger ports.Logger) *Client {
	if timeout <= 0 {
		timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type balanceEnvelope struct {
	Data struct {
		Balance *big.Int `json:"balance"`
	} `json:"data"`
}

type promptEnvelope struct {
	Data promptData `json:"data"`
}

type promptData struct {
	PromptModel promptModel `json:"promptModel"`
}

type promptModel struct {
	Type string            `json:"type"`
	Data commitMessageData `json:"data"`
}

type commitMessageData struct {
	Diff     string `json:"diff"`
	Comments string `json:"comments"`
}

type generationEnvelope struct {
	Result *struct {
		Content string `json:"content"`
		Usage   struct {
			PromptTokens     uint64 `json:"prompt_tokens"`
			CompletionTokens uint64 `json:"completion_tokens"`
			TotalTokens      uint64 `json:"total_tokens"`
		} `json:"usage"`
	} `json:"result"`
}

// GetBalance fetches the K-Tokens balance.
func (c *Client) GetBalance(ctx context.Context, apiKey string) (domain.BalanceResult, error) {
	var envelope balanceEnvelope
	if err := c.do(ctx, http.MethodGet, domain.BalancePath, apiKey, nil, &envelope); err != nil {
		return domain.BalanceResult{}, err
	}
	balance := envelope.Data.Balance
	if balance == nil {
		return domain.BalanceResult{}, fmt.Errorf("decode %s response: missing data.balance", domain.BalancePath)
	}
	if balance.Sign() < 0 {
		return domain.BalanceResult{}, fmt.Errorf("decode %s response: negative balance %s", domain.BalancePath, balance)
	}
	return domain.BalanceResult{Balance: balance}, nil
}

// GenerateCommitMessage asks the service for a commit message describing req.Diff.
func (c *Client) GenerateCommitMessage(ctx context.Context, apiKey string, req domain.PromptRequest) (domain.GenerationResult, error) {
	payload := promptEnvelope{
		Data: promptData{
			PromptModel: promptModel{
				Type: domain.PromptTypeGitCommitMessage,
				Data: commitMessageData{Diff: req.Diff, Comments: req.Comments},
			},
		},
	}

	var envelope generationEnvelope
	if err := c.do(ctx, http.MethodPost, domain.PromptPath, apiKey, payload, &envelope); err != nil {
		return domain.GenerationResult{}, err
	}
	if envelope.Result == nil {
		return domain.GenerationResult{}, fmt.Errorf("decode %s response: missing result", domain.PromptPath)
	}
	return domain.GenerationResult{
		Content: envelope.Result.Content,
		Usage: domain.Usage{
			PromptTokens:     envelope.Result.Usage.PromptTokens,
			CompletionTokens: envelope.Result.Usage.CompletionTokens,
			TotalTokens:      envelope.Result.Usage.TotalTokens,
		},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path, apiKey string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending request", map[string]interface{}{"method": method, "url": req.URL.String()})
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("received response", map[string]interface{}{
		"status":  resp.StatusCode,
		"elapsed": time.Since(started).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &domain.StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("decode %s response: empty body", path)
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

var _ ports.KuaaAPI = (*Client)(nil)

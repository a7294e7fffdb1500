package commitmsg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/ports"
)

const progressLabel = "Generating commit message..."

// Request carries the inputs of one `gen git-commit-message` invocation.
type Request struct {
	APIKey   string
	Comments string
}

// Outcome summarises what the flow did.
type Outcome struct {
	Generations []domain.GenerationResult
	// Action is the last action taken.
	Action domain.PostAction
	// Committed holds the message passed to git, if any.
	Committed string
}

// Service generates a commit message for the staged diff and drives the
// follow-up prompt.
type Service struct {
	API       ports.KuaaAPI
	Diffs     ports.DiffSource
	Committer ports.Committer
	Prompter  ports.ActionPrompter
	Renderer  ports.Renderer
	History   ports.HistoryRepository
	Logger    ports.Logger
}

// WithIO returns a copy of s that talks to the given prompter and renderer.
func (s *Service) WithIO(prompter ports.ActionPrompter, renderer ports.Renderer) *Service {
	clone := *s
	clone.Prompter = prompter
	clone.Renderer = renderer
	return &clone
}

// Run generates a message, shows it and asks what to do next. Choosing
// add-info regenerates with the extra context and asks again.
func (s *Service) Run(ctx context.Context, req Request) (Outcome, error) {
	if s.API == nil || s.Diffs == nil || s.Committer == nil || s.Prompter == nil ||
		s.Renderer == nil || s.Logger == nil {
		return Outcome{}, errors.New("commitmsg.Service dependencies not satisfied")
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return Outcome{}, domain.ErrMissingCredential
	}

	var outcome Outcome
	comments := req.Comments
	for {
		result, err := s.generate(ctx, req.APIKey, comments)
		if err != nil {
			return outcome, err
		}
		outcome.Generations = append(outcome.Generations, result)
		s.Renderer.ShowGeneration(result)

		action, extra, err := s.followUp(ctx, result)
		outcome.Action = action
		s.record(comments, result, action)
		if err != nil {
			return outcome, err
		}
		if action == domain.ActionCommit {
			outcome.Committed = domain.StripCodeFences(result.Content)
		}
		if action != domain.ActionAddInfo || extra == "" {
			return outcome, nil
		}
		comments = appendComment(comments, extra)
	}
}

func (s *Service) generate(ctx context.Context, apiKey, comments string) (domain.GenerationResult, error) {
	diff := s.Diffs.StagedDiff(ctx)
	s.Logger.Debug("requesting commit message", map[string]interface{}{
		"diff_bytes":   len(diff),
		"has_comments": comments != "",
	})

	stop := s.Renderer.StartProgress(progressLabel)
	started := time.Now()
	result, err := s.API.GenerateCommitMessage(ctx, apiKey, domain.PromptRequest{Diff: diff, Comments: comments})
	stop()
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generate commit message: %w", err)
	}

	s.Logger.Info("commit message generated", map[string]interface{}{
		"total_tokens": result.Usage.TotalTokens,
		"elapsed":      time.Since(started).String(),
	})
	return result, nil
}

// followUp asks for one action. A closed input counts as "nothing".
func (s *Service) followUp(ctx context.Context, result domain.GenerationResult) (domain.PostAction, string, error) {
	input, err := s.Prompter.AskAction()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ActionNothing, "", nil
		}
		return domain.ActionNothing, "", fmt.Errorf("read action: %w", err)
	}

	action, ok := domain.ParseAction(input)
	if !ok {
		s.Renderer.ShowInvalidAction(input)
		return domain.ActionInvalid, "", nil
	}

	switch action {
	case domain.ActionCommit:
		message := domain.StripCodeFences(result.Content)
		if message == "" {
			return action, "", domain.ErrEmptyCommitMessage
		}
		if err := s.Committer.Commit(ctx, message); err != nil {
			return action, "", fmt.Errorf("commit: %w", err)
		}
		s.Renderer.ShowCommitted(message)
		return action, "", nil
	case domain.ActionAddInfo:
		extra, err := s.Prompter.AskInfo()
		if err != nil && !errors.Is(err, io.EOF) {
			return action, "", fmt.Errorf("read additional info: %w", err)
		}
		return action, strings.TrimSpace(extra), nil
	default:
		return action, "", nil
	}
}

func (s *Service) record(comments string, result domain.GenerationResult, action domain.PostAction) {
	if s.History == nil {
		return
	}
	err := s.History.Save(domain.HistoryRecord{
		Timestamp:        time.Now(),
		Comments:         comments,
		Content:          result.Content,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		TotalTokens:      result.Usage.TotalTokens,
		Action:           action,
	})
	if err != nil {
		s.Logger.Warn("failed to record history", map[string]interface{}{"error": err.Error()})
	}
}

func appendComment(comments, extra string) string {
	if comments == "" {
		return extra
	}
	return comments + "\n" + extra
}

package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tavernari/kuaa/internal/ports"
)

// runner executes the git binary and returns its captured output.
type runner func(ctx context.Context, dir string, args ...string) (stdout, stderr string, err error)

// CommandError reports a git invocation that did not exit cleanly.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Output != "" {
		msg += ": " + e.Output
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Client wraps the local git binary.
type Client struct {
	dir    string
	logger ports.Logger
	run    runner
}

// NewClient runs git inside dir. An empty dir means the working directory.
func NewClient(dir string, logger ports.Logger) *Client {
	return &Client{dir: dir, logger: logger, run: execGit}
}

// StagedDiff returns the output of `git diff --cached`.
//
// Any failure (git missing, not a repository, non-zero exit) yields the
// empty string. The request is still sent upstream with an empty diff and
// the remote side decides whether that is acceptable.
func (c *Client) StagedDiff(ctx context.Context) string {
	stdout, stderr, err := c.run(ctx, c.dir, "diff", "--cached")
	if err != nil {
		c.logger.Debug("staged diff unavailable, using empty diff", map[string]interface{}{
			"error":  err.Error(),
			"stderr": strings.TrimSpace(stderr),
		})
		return ""
	}
	return stdout
}

// Commit runs `git commit -m message`.
func (c *Client) Commit(ctx context.Context, message string) error {
	args := []string{"commit", "-m", message}
	stdout, stderr, err := c.run(ctx, c.dir, args...)
	if err == nil {
		c.logger.Debug("git commit finished", map[string]interface{}{"output": strings.TrimSpace(stdout)})
		return nil
	}

	cmdErr := &CommandError{
		Args:   []string{"commit"},
		Output: strings.TrimSpace(strings.TrimSpace(stdout) + "\n" + strings.TrimSpace(stderr)),
		Err:    err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cmdErr.ExitCode = exitErr.ExitCode()
	}
	return cmdErr
}

// Version returns the first line of `git --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := c.run(ctx, c.dir, "--version")
	if err != nil {
		return "", &CommandError{Args: []string{"--version"}, Output: strings.TrimSpace(stderr), Err: err}
	}
	return strings.TrimSpace(stdout), nil
}

func execGit(ctx context.Context, dir string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

var (
	_ ports.DiffSource   = (*Client)(nil)
	_ ports.Committer    = (*Client)(nil)
	_ ports.GitInspector = (*Client)(nil)
)

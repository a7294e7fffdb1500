package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type fakeService struct {
	mu            sync.Mutex
	auth          []string
	prompts       []map[string]interface{}
	balanceStatus int
	promptStatus  int
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	switch r.URL.Path {
	case "/api/ktokens/balance":
		if f.balanceStatus != 0 {
			w.WriteHeader(f.balanceStatus)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"balance":12345}}`)
	case "/api/prompt":
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.prompts = append(f.prompts, body)
		if f.promptStatus != 0 {
			w.WriteHeader(f.promptStatus)
			return
		}
		_, _ = io.WriteString(w, `{"result":{"content":"feat: add login","usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeService) requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.auth)
}

type env struct {
	home    string
	work    string
	envFile string
	service *fakeService
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	service := &fakeService{}
	server := httptest.NewServer(service)
	t.Cleanup(server.Close)

	home := t.TempDir()
	work := filepath.Join(home, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatal(err)
	}
	e := &env{home: home, work: work, envFile: filepath.Join(home, ".env"), service: service}

	t.Setenv("HOME", home)
	t.Setenv("KUAA_CONFIG", filepath.Join(home, "config.yaml"))
	t.Setenv("KUAA_BASE_URL", server.URL)
	t.Setenv("KUAA_TIMEOUT", "")
	t.Setenv("KUAA_ENV_FILE", e.envFile)
	t.Setenv("KUAA_API_KEY", "")
	t.Setenv("GIT_CEILING_DIRECTORIES", home)
	return e
}

func (e *env) run(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), Options{
		WorkDir: e.work,
		In:      strings.NewReader(input),
		Out:     &out,
		ErrOut:  &errOut,
	}, args)
	return out.String(), errOut.String(), err
}

func TestBalanceCommand(t *testing.T) {
	e := setupEnv(t)
	t.Setenv("KUAA_API_KEY", "sk-test")

	out, _, err := e.run(t, "", "balance")
	if err != nil {
		t.Fatalf("balance error = %v", err)
	}
	if !strings.Contains(out, "K-Tokens Balance: 12345\n") {
		t.Fatalf("output = %q", out)
	}
	if e.service.auth[0] != "Bearer sk-test" {
		t.Fatalf("Authorization = %q", e.service.auth[0])
	}
}

func TestBalanceRejectedExitsCleanly(t *testing.T) {
	e := setupEnv(t)
	t.Setenv("KUAA_API_KEY", "sk-test")
	e.service.balanceStatus = http.StatusUnauthorized

	out, _, err := e.run(t, "", "balance")
	if err != nil {
		t.Fatalf("balance error = %v, want nil", err)
	}
	if !strings.Contains(out, "Failed to fetch balance. Status: 401 Unauthorized") {
		t.Fatalf("output = %q", out)
	}
}

func TestMissingCredentialPrintsGuidance(t *testing.T) {
	for _, args := range [][]string{{"balance"}, {"gen", "git-commit-message"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			e := setupEnv(t)
			out, _, err := e.run(t, "", args...)
			if err != nil {
				t.Fatalf("error = %v, want nil", err)
			}
			if !strings.Contains(out, "KUAA_API_KEY environment variable is not set.") {
				t.Fatalf("output = %q", out)
			}
			if e.service.requests() != 0 {
				t.Fatal("API called without credential")
			}
		})
	}
}

func TestConfigAPIKeyThenBalance(t *testing.T) {
	e := setupEnv(t)
	if err := os.WriteFile(e.envFile, []byte("OTHER=1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := e.run(t, "", "config", "api-key", "sk=new==")
	if err != nil {
		t.Fatalf("config api-key error = %v", err)
	}
	if !strings.Contains(out, "API key saved to "+e.envFile) {
		t.Fatalf("output = %q", out)
	}
	data, _ := os.ReadFile(e.envFile)
	if string(data) != "OTHER=1\nKUAA_API_KEY=sk=new==\n" {
		t.Fatalf("env file = %q", data)
	}

	if _, _, err := e.run(t, "", "balance"); err != nil {
		t.Fatalf("balance error = %v", err)
	}
	if e.service.auth[0] != "Bearer sk=new==" {
		t.Fatalf("Authorization = %q", e.service.auth[0])
	}
}

func TestGenerateInvalidActionDoesNotCommit(t *testing.T) {
	e := setupEnv(t)
	t.Setenv("KUAA_API_KEY", "sk-test")

	out, _, err := e.run(t, "x\nc\n", "gen", "git-commit-message", "mention the ticket")
	if err != nil {
		t.Fatalf("gen error = %v", err)
	}
	for _, want := range []string{
		"### Git Commit Message",
		"feat: add login",
		"- Total Tokens: 15",
		"Invalid action. Please choose one of: c (commit), a (add-info), n (nothing)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, actionPrompt) != 1 {
		t.Fatalf("prompt shown %d times", strings.Count(out, actionPrompt))
	}

	if len(e.service.prompts) != 1 {
		t.Fatalf("prompt requests = %d", len(e.service.prompts))
	}
	data := e.service.prompts[0]["data"].(map[string]interface{})["promptModel"].(map[string]interface{})["data"].(map[string]interface{})
	if data["diff"] != "" || data["comments"] != "mention the ticket" {
		t.Fatalf("request data = %v", data)
	}

	out, _, err = e.run(t, "", "history", "list")
	if err != nil {
		t.Fatalf("history list error = %v", err)
	}
	if !strings.Contains(out, "feat: add login") || !strings.Contains(out, "invalid") {
		t.Fatalf("history output = %q", out)
	}
}

func TestGenerateRejectedSkipsPrompt(t *testing.T) {
	e := setupEnv(t)
	t.Setenv("KUAA_API_KEY", "sk-test")
	e.service.promptStatus = http.StatusUnauthorized

	out, _, err := e.run(t, "c\n", "gen", "git-commit-message")
	if err == nil || !strings.Contains(err.Error(), "401 Unauthorized") {
		t.Fatalf("gen error = %v", err)
	}
	if strings.Contains(out, actionPrompt) {
		t.Fatal("action prompt shown after failed generation")
	}
}

func TestDispatcherRejectsBadInvocations(t *testing.T) {
	tests := [][]string{
		{},
		{"unknown"},
		{"config"},
		{"config", "nope"},
		{"config", "api-key"},
		{"config", "api-key", "a", "b"},
		{"gen"},
		{"gen", "git-commit-message", "a", "b"},
		{"balance", "extra"},
		{"balance", "--no-such-flag"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			e := setupEnv(t)
			out, errOut, err := e.run(t, "", args...)
			if err == nil {
				t.Fatalf("expected error for %v", args)
			}
			if !strings.Contains(out+errOut, "Usage:") {
				t.Fatalf("no usage printed for %v:\n%s%s", args, out, errOut)
			}
			if e.service.requests() != 0 {
				t.Fatal("API called for rejected invocation")
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	e := setupEnv(t)
	out, _, err := e.run(t, "", "version")
	if err != nil || !strings.HasPrefix(out, "kuaa version ") {
		t.Fatalf("version = %q, %v", out, err)
	}
	if _, statErr := os.Stat(filepath.Join(e.home, "config.yaml")); !os.IsNotExist(statErr) {
		t.Fatal("version should not touch the config file")
	}
}

func TestBaseURLFlagOverridesEnvironment(t *testing.T) {
	e := setupEnv(t)
	t.Setenv("KUAA_API_KEY", "sk-test")
	t.Setenv("KUAA_BASE_URL", "http://127.0.0.1:1")

	other := &fakeService{}
	server := httptest.NewServer(other)
	t.Cleanup(server.Close)

	if _, _, err := e.run(t, "", "--base-url", server.URL, "balance"); err != nil {
		t.Fatalf("balance error = %v", err)
	}
	if other.requests() != 1 || e.service.requests() != 0 {
		t.Fatalf("flag override not applied: other=%d default=%d", other.requests(), e.service.requests())
	}
}

func TestDoctorCommand(t *testing.T) {
	e := setupEnv(t)
	out, _, _ := e.run(t, "", "doctor")
	for _, want := range []string{"Config file", "API key", "API endpoint"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "[WARN] API key") {
		t.Errorf("missing credential should warn:\n%s", out)
	}
}

func TestConfigInspection(t *testing.T) {
	e := setupEnv(t)

	out, _, err := e.run(t, "", "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	for _, want := range []string{"config: " + filepath.Join(e.home, "config.yaml"), "env file: " + e.envFile} {
		if !strings.Contains(out, want) {
			t.Errorf("config path missing %q:\n%s", want, out)
		}
	}

	out, _, err = e.run(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "base_url:") || !strings.Contains(out, os.Getenv("KUAA_BASE_URL")) {
		t.Errorf("config show should reflect the override:\n%s", out)
	}

	out, _, err = e.run(t, "", "config", "diff")
	if err != nil {
		t.Fatalf("config diff error = %v", err)
	}
	if !strings.Contains(out, "Differences from default") || !strings.Contains(out, os.Getenv("KUAA_BASE_URL")) {
		t.Errorf("config diff output:\n%s", out)
	}
}

func TestMalformedDotenvDoesNotBlockCommands(t *testing.T) {
	e := setupEnv(t)
	if err := os.WriteFile(e.envFile, []byte("SOME_FLAG\nKUAA_API_KEY=k1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := e.run(t, "", "balance"); err != nil {
		t.Fatalf("balance error = %v", err)
	}
	if _, _, err := e.run(t, "", "config", "api-key", "'abc"); err != nil {
		t.Fatalf("config api-key error = %v", err)
	}
	if _, _, err := e.run(t, "", "balance"); err != nil {
		t.Fatalf("balance after quoted key error = %v", err)
	}

	want := []string{"Bearer k1", "Bearer 'abc"}
	if len(e.service.auth) != len(want) {
		t.Fatalf("requests = %v", e.service.auth)
	}
	for i := range want {
		if e.service.auth[i] != want[i] {
			t.Errorf("Authorization[%d] = %q, want %q", i, e.service.auth[i], want[i])
		}
	}
}

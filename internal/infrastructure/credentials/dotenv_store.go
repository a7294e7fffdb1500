package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/ports"
)

// StoreError reports a filesystem failure while reading or writing the
// credential file.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// DotenvStore keeps the API key as a NAME=value line in a dotenv file.
//
// A value exported in the process environment before Load wins over the file,
// matching how the file is merged into the environment at startup.
type DotenvStore struct {
	path     string
	variable string
	getenv   func(string) string
	logger   ports.Logger

	loaded   bool
	exported string
}

// NewDotenvStore builds a store for domain.CredentialEnvVar backed by path.
func NewDotenvStore(path string, logger ports.Logger) *DotenvStore {
	return &DotenvStore{
		path:     path,
		variable: domain.CredentialEnvVar,
		getenv:   os.Getenv,
		logger:   logger,
	}
}

// Path returns the backing file path.
func (s *DotenvStore) Path() string {
	return s.path
}

// Load merges the file into the process environment without overriding
// variables that are already set. A missing file is not an error; lines the
// dotenv parser rejects are skipped with a warning.
func (s *DotenvStore) Load() error {
	s.exported = s.getenv(s.variable)
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &StoreError{Op: "load", Path: s.path, Err: err}
	}

	env, err := gotenv.StrictParse(bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("dotenv file has lines that cannot be parsed, skipping them", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		env = parseLenient(data)
	}
	for name, value := range env {
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			return &StoreError{Op: "load", Path: s.path, Err: err}
		}
	}
	return nil
}

// parseLenient parses each line on its own and keeps the ones that parse.
func parseLenient(data []byte) gotenv.Env {
	env := make(gotenv.Env)
	for _, line := range strings.Split(string(data), "\n") {
		parsed, err := gotenv.StrictParse(strings.NewReader(line))
		if err != nil {
			continue
		}
		for name, value := range parsed {
			env[name] = value
		}
	}
	return env
}

// Exported reports whether the environment already carried a key before the
// file was merged, in which case Set does not change what Get returns.
func (s *DotenvStore) Exported() bool {
	return s.loaded && s.exported != ""
}

// Get implements ports.CredentialStore.
func (s *DotenvStore) Get() (string, bool) {
	if s.loaded && s.exported != "" {
		return s.exported, true
	}
	if !s.loaded {
		if value := s.getenv(s.variable); value != "" {
			return value, true
		}
	}
	// The raw line is authoritative for values the dotenv parser would
	// reinterpret (quotes, '#', '$').
	if value, found, err := s.readValue(); err == nil && found && value != "" {
		return value, true
	}
	if value := s.getenv(s.variable); value != "" {
		return value, true
	}
	return "", false
}

// Set writes NAME=key, replacing an existing line in place or appending one.
// Unrelated lines keep their content and order.
func (s *DotenvStore) Set(key string) error {
	if key == "" {
		return domain.ErrEmptyCredential
	}
	if strings.ContainsAny(key, "\r\n") {
		return domain.ErrInvalidCredential
	}

	lines, err := s.readLines()
	if err != nil {
		return err
	}

	entry := s.variable + "=" + key
	prefix := s.variable + "="
	out := make([]string, 0, len(lines)+1)
	replaced := false
	for _, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			out = append(out, line)
			continue
		}
		if replaced {
			continue
		}
		out = append(out, entry)
		replaced = true
	}
	if !replaced {
		out = append(out, entry)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
			return &StoreError{Op: "create", Path: dir, Err: err}
		}
	}
	content := strings.Join(out, "\n") + "\n"
	if err := os.WriteFile(s.path, []byte(content), domain.SecureFilePermissions); err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

func (s *DotenvStore) readLines() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &StoreError{Op: "read", Path: s.path, Err: err}
	}
	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}

func (s *DotenvStore) readValue() (string, bool, error) {
	lines, err := s.readLines()
	if err != nil {
		return "", false, err
	}
	prefix := s.variable + "="
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSuffix(line[len(prefix):], "\r"), true, nil
		}
	}
	return "", false, nil
}

var _ ports.CredentialStore = (*DotenvStore)(nil)

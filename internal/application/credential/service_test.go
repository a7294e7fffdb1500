package credential

import (
	"errors"
	"testing"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/pkg/logger"
)

type memoryStore struct {
	key string
	err error
}

func (m *memoryStore) Set(key string) error {
	if m.err != nil {
		return m.err
	}
	m.key = key
	return nil
}

func (m *memoryStore) Get() (string, bool) { return m.key, m.key != "" }
func (m *memoryStore) Path() string        { return "memory" }

func TestConfigureThenResolve(t *testing.T) {
	svc := &Service{Store: &memoryStore{}, Logger: logger.Nop()}
	if err := svc.Configure("sk=abc=="); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	got, err := svc.Resolve()
	if err != nil || got != "sk=abc==" {
		t.Fatalf("Resolve() = (%q, %v)", got, err)
	}
}

func TestConfigureRejectsEmpty(t *testing.T) {
	store := &memoryStore{key: "old"}
	svc := &Service{Store: store, Logger: logger.Nop()}
	if err := svc.Configure(""); !errors.Is(err, domain.ErrEmptyCredential) {
		t.Fatalf("Configure(\"\") error = %v", err)
	}
	if store.key != "old" {
		t.Fatal("empty key overwrote stored value")
	}
}

func TestConfigurePropagatesStoreError(t *testing.T) {
	boom := errors.New("read-only")
	svc := &Service{Store: &memoryStore{err: boom}, Logger: logger.Nop()}
	if err := svc.Configure("k"); !errors.Is(err, boom) {
		t.Fatalf("Configure() error = %v", err)
	}
}

func TestResolveMissing(t *testing.T) {
	for name, store := range map[string]*memoryStore{"unset": {}, "blank": {key: "   "}} {
		t.Run(name, func(t *testing.T) {
			svc := &Service{Store: store, Logger: logger.Nop()}
			if _, err := svc.Resolve(); !errors.Is(err, domain.ErrMissingCredential) {
				t.Fatalf("Resolve() error = %v", err)
			}
		})
	}
}

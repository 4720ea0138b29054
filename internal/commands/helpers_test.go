package commands

import (
	"bytes"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/diogo/startychat/internal/api"
	"github.com/diogo/startychat/internal/config"
	"github.com/diogo/startychat/internal/tui"
)

type memStore struct {
	items map[string]string
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]string)}
}

func (s *memStore) GetItem(key string) (string, bool) {
	v, ok := s.items[key]
	return v, ok
}

func (s *memStore) SetItem(key, value string) error {
	s.items[key] = value
	return nil
}

func (s *memStore) RemoveItem(key string) error {
	delete(s.items, key)
	return nil
}

func (s *memStore) Keys() []string {
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type fakeTUI struct {
	called bool
	deps   tui.Deps
	err    error
}

func (f *fakeTUI) RunChat(deps tui.Deps) error {
	f.called = true
	f.deps = deps
	return f.err
}

// testEnv collects what a command run touched.
type testEnv struct {
	client *api.MockClient
	store  *memStore
	tui    *fakeTUI
	stdin  *bytes.Buffer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	cfg    config.Config
	sleeps []time.Duration
	piped  bool
	tty    bool
}

func newTestEnv(t *testing.T) (*Dependencies, *testEnv) {
	t.Helper()
	t.Setenv("STARTYCHAT_HOME", t.TempDir())

	env := &testEnv{
		client: &api.MockClient{Reply: "hi there"},
		store:  newMemStore(),
		tui:    &fakeTUI{},
		stdin:  &bytes.Buffer{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}

	deps := &Dependencies{
		NewClient: func(cfg config.Config, logger *zap.Logger) (api.ChatClientInterface, error) {
			env.cfg = cfg
			return env.client, nil
		},
		OpenStore: func() (Store, error) {
			return env.store, nil
		},
		TUI:           env.tui,
		Stdin:         env.stdin,
		Stdout:        env.stdout,
		Stderr:        env.stderr,
		StdinPiped:    func() bool { return env.piped },
		IsTerminal:    func() bool { return env.tty },
		TerminalWidth: func() int { return 100 },
		Sleep:         func(d time.Duration) { env.sleeps = append(env.sleeps, d) },
	}
	return deps, env
}

func execute(deps *Dependencies, args ...string) error {
	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected %q in output:\n%s", want, got)
	}
}

package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	apierrors "github.com/diogo/startychat/internal/errors"
)

func TestRootCommand_Help(t *testing.T) {
	cmd := NewRootCmd(NewDependencies())
	if cmd.Use != "startychat [prompt]" {
		t.Errorf("Expected use 'startychat [prompt]', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}

	for _, name := range []string{"service-url", "components-url", "verbose"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("global flag --%s not registered", name)
		}
	}
}

func TestRootCommand_NoInputShowsHelp(t *testing.T) {
	deps, env := newTestEnv(t)

	if err := execute(deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertContains(t, env.stdout.String(), "startychat [prompt]")
	if len(env.client.Sent()) != 0 {
		t.Error("nothing should be sent without a prompt")
	}
}

func TestRootCommand_Version(t *testing.T) {
	deps, env := newTestEnv(t)

	if err := execute(deps, "--version"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertContains(t, env.stdout.String(), "startychat "+Version)
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	deps, _ := newTestEnv(t)

	if err := execute(deps, "one", "two"); err == nil {
		t.Error("expected an error for two positional arguments")
	}
}

func TestQuery_Argument(t *testing.T) {
	deps, env := newTestEnv(t)

	if err := execute(deps, "  hello  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent := env.client.Sent()
	if len(sent) != 1 || sent[0] != "hello" {
		t.Errorf("sent = %v, want [hello]", sent)
	}
	if env.stdout.String() != "hi there\n" {
		t.Errorf("stdout = %q, want the raw reply", env.stdout.String())
	}
	if !env.client.IsClosed() {
		t.Error("client should be closed")
	}
	if len(env.sleeps) != 0 {
		t.Error("plain output should not be revealed word by word")
	}
}

func TestQuery_Stdin(t *testing.T) {
	deps, env := newTestEnv(t)
	env.piped = true
	env.stdin.WriteString("from stdin\n")

	if err := execute(deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sent := env.client.Sent(); len(sent) != 1 || sent[0] != "from stdin" {
		t.Errorf("sent = %v", sent)
	}
}

func TestQuery_File(t *testing.T) {
	deps, env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("from file"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := execute(deps, "-f", path, "ignored"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sent := env.client.Sent(); len(sent) != 1 || sent[0] != "from file" {
		t.Errorf("sent = %v", sent)
	}
}

func TestQuery_MissingFile(t *testing.T) {
	deps, _ := newTestEnv(t)

	err := execute(deps, "-f", filepath.Join(t.TempDir(), "missing.md"))
	if err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestQuery_EmptyPrompt(t *testing.T) {
	deps, env := newTestEnv(t)

	err := execute(deps, "   ")
	if err == nil || !strings.Contains(err.Error(), "prompt cannot be empty") {
		t.Errorf("expected empty prompt error, got %v", err)
	}
	if len(env.client.Sent()) != 0 {
		t.Error("empty prompt should not be sent")
	}
}

func TestQuery_Output(t *testing.T) {
	deps, env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "reply.md")

	if err := execute(deps, "hello", "-o", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(data) != "hi there" {
		t.Errorf("file = %q", string(data))
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", env.stdout.String())
	}
}

func TestQuery_ServiceError(t *testing.T) {
	deps, env := newTestEnv(t)
	env.client.ReplyErr = apierrors.NewAPIError(500, "/chat", "service down")

	err := execute(deps, "hello")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apierrors.IsAPIError(err) {
		t.Errorf("expected wrapped APIError, got %v", err)
	}
	assertContains(t, env.stderr.String(), "service down")
	assertContains(t, env.stderr.String(), "HTTP Status: 500")
}

func TestQuery_Flags(t *testing.T) {
	deps, env := newTestEnv(t)

	err := execute(deps, "--service-url", "https://chat.example.com/chat",
		"--components-url", "https://site.example.com/", "--verbose", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.cfg.ServiceURL != "https://chat.example.com/chat" {
		t.Errorf("ServiceURL = %s", env.cfg.ServiceURL)
	}
	if env.cfg.ComponentsURL != "https://site.example.com/" {
		t.Errorf("ComponentsURL = %s", env.cfg.ComponentsURL)
	}
	if !env.cfg.Verbose {
		t.Error("Verbose should be set by the flag")
	}
}

func TestQuery_Terminal(t *testing.T) {
	deps, env := newTestEnv(t)
	env.tty = true

	if err := execute(deps, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := ansi.Strip(env.stdout.String())
	assertContains(t, out, "Starty")
	assertContains(t, out, "there")
	assertContains(t, ansi.Strip(env.stderr.String()), "Done")

	if len(env.sleeps) == 0 {
		t.Error("terminal output should be revealed word by word")
	}
	for _, d := range env.sleeps {
		if d != 75*time.Millisecond {
			t.Errorf("reveal pause = %v, want 75ms", d)
		}
	}
}

func TestQuery_RawOnTerminal(t *testing.T) {
	deps, env := newTestEnv(t)
	env.tty = true

	if err := execute(deps, "--raw", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.stdout.String() != "hi there\n" {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if len(env.sleeps) != 0 {
		t.Error("raw output should not be revealed")
	}
}

func TestReadPrompt_Order(t *testing.T) {
	deps, env := newTestEnv(t)
	env.piped = true
	env.stdin.WriteString("stdin")

	got, ok, err := readPrompt(deps, &flags{}, []string{"arg"})
	if err != nil || !ok {
		t.Fatalf("readPrompt() = %q, %v, %v", got, ok, err)
	}
	if got != "stdin" {
		t.Errorf("piped stdin should win over the argument, got %q", got)
	}

	env.piped = false
	got, ok, _ = readPrompt(deps, &flags{}, nil)
	if ok || got != "" {
		t.Errorf("no input should report ok=false, got %q", got)
	}
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	deps, env := newTestEnv(t)
	home := os.Getenv("STARTYCHAT_HOME")
	if err := os.WriteFile(filepath.Join(home, "config.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := loadConfig(deps, &flags{serviceURL: "https://x.example.com"})

	assertContains(t, env.stderr.String(), "Warning")
	if cfg.ServiceURL != "https://x.example.com" {
		t.Errorf("flag should still apply, got %s", cfg.ServiceURL)
	}
}

func TestRevealWords(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		pauses int
	}{
		{"single word", "hello", 0},
		{"three words", "a b c", 2},
		{"padding", "a   b", 1},
		{"escape only", "a \x1b[0m b", 1},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			pauses := 0
			revealWords(&out, tt.text, time.Millisecond, func(time.Duration) { pauses++ })

			if out.String() != tt.text {
				t.Errorf("output = %q, want %q", out.String(), tt.text)
			}
			if pauses != tt.pauses {
				t.Errorf("pauses = %d, want %d", pauses, tt.pauses)
			}
		})
	}
}

func TestFormatErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"api", apierrors.NewAPIError(502, "/chat", "bad gateway"), []string{"Request failed: bad gateway", "HTTP Status: 502"}},
		{"network", apierrors.NewNetworkError("POST", "/chat", errors.New("refused")), []string{"internet connection"}},
		{"parse", apierrors.NewParseError("missing response", "response"), []string{"--service-url"}},
		{"partial", apierrors.NewPartialLoadError("chat"), []string{"--components-url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(formatErrorMessage(tt.err, "Request failed"))
			for _, w := range tt.want {
				assertContains(t, got, w)
			}
		})
	}

	if formatErrorMessage(nil, "x") != "" {
		t.Error("nil error should format to an empty string")
	}
}

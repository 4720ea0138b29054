package dom

import (
	"errors"
	"strings"
	"testing"

	apierrors "github.com/diogo/startychat/internal/errors"
)

const testPage = `<!DOCTYPE html>
<html><head><title>t</title></head>
<body>
  <div id="header-container"></div>
  <div id="chat-container"><p>placeholder</p></div>
</body></html>`

const testChat = `
<ul class="suggestion-list">
  <li class="suggestion"><h4 class="text">What is Go?</h4></li>
  <li class="suggestion"><h4 class="text">Tell me a joke</h4></li>
</ul>
<div class="chat-list"></div>
<div class="typing-area">
  <form action="#" class="typing-form">
    <input type="text" class="typing-input" placeholder="Ask">
    <span id="theme-toggle-button" class="icon">light_mode</span>
    <span id="delete-chat-button" class="icon">delete</span>
  </form>
</div>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(testPage)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func TestMount(t *testing.T) {
	doc := mustParse(t)

	if doc.Query(".typing-form") != nil {
		t.Fatal("form should not exist before mount")
	}

	if err := doc.Mount("chat-container", testChat); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}

	if doc.Query(".typing-form") == nil {
		t.Error("form should exist after mount")
	}
	if doc.Query("#chat-container > p") != nil {
		t.Error("old container content should be replaced")
	}
	if strings.Contains(doc.Query("#chat-container").Text(), "placeholder") {
		t.Error("old container text should be gone")
	}
}

func TestMount_UnknownContainer(t *testing.T) {
	doc := mustParse(t)

	err := doc.Mount("missing-container", "<p>x</p>")
	if !errors.Is(err, apierrors.ErrNoContainer) {
		t.Errorf("expected ErrNoContainer, got %v", err)
	}
}

func TestQuery_Selectors(t *testing.T) {
	doc := mustParse(t)
	_ = doc.Mount("chat-container", testChat)

	tests := []struct {
		selector string
		count    int
	}{
		{".typing-form", 1},
		{"form.typing-form", 1},
		{"div.typing-form", 0},
		{"#theme-toggle-button", 1},
		{"span.icon", 2},
		{".suggestion", 2},
		{".suggestion .text", 2},
		{".typing-area .typing-input", 1},
		{".chat-list .text", 0},
		{"li", 2},
		{"span#delete-chat-button.icon", 1},
		{"#chat-container > .chat-list", 1},
		{"#chat-container > .typing-form", 0},
		{"input[placeholder]", 1},
		{".suggestion:first-child .text", 1},
		{"", 0},
		{".", 0},
		{"[", 0},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			if got := len(doc.QueryAll(tt.selector)); got != tt.count {
				t.Errorf("QueryAll(%q) = %d, want %d", tt.selector, got, tt.count)
			}
		})
	}
}

func TestElement_Text(t *testing.T) {
	doc := mustParse(t)
	_ = doc.Mount("chat-container", testChat)

	chips := doc.QueryAll(".suggestion")
	if len(chips) != 2 {
		t.Fatalf("expected 2 chips, got %d", len(chips))
	}

	if got := chips[1].Query(".text").Text(); got != "Tell me a joke" {
		t.Errorf("chip text = %q", got)
	}

	if got := doc.Text("#theme-toggle-button"); got != "light_mode" {
		t.Errorf("toggle text = %q", got)
	}

	if doc.Text("#nope") != "" {
		t.Error("missing element text should be empty")
	}

	p := doc.Query(".chat-list")
	p.SetText("  two\n  lines ")
	if got := p.TextContent(); got != "  two\n  lines " {
		t.Errorf("TextContent() = %q", got)
	}
	if got := p.Text(); got != "two\n  lines" {
		t.Errorf("Text() = %q", got)
	}
}

func TestElement_SetText(t *testing.T) {
	doc := mustParse(t)
	_ = doc.Mount("header-container", `<h1>Title</h1><p id="mensaje"><b>old</b></p>`)

	msg := doc.Query("#mensaje")
	msg.SetText("new <text>")

	if msg.Text() != "new <text>" {
		t.Errorf("Text() = %q", msg.Text())
	}
	if !strings.Contains(msg.InnerHTML(), "new &lt;text&gt;") {
		t.Errorf("text should be escaped when rendered, got %q", msg.InnerHTML())
	}
}

func TestElement_Classes(t *testing.T) {
	doc := mustParse(t)
	_ = doc.Mount("header-container", `<h1 class="title">Title</h1>`)

	h1 := doc.Query("h1")
	h1.AddClass("highlight")
	if !h1.HasClass("highlight") || !h1.HasClass("title") {
		t.Errorf("class = %q", h1.Attr("class"))
	}

	h1.AddClass("highlight")
	if h1.Attr("class") != "title highlight" {
		t.Errorf("AddClass should not duplicate, got %q", h1.Attr("class"))
	}

	if h1.ToggleClass("highlight") {
		t.Error("ToggleClass should report removal")
	}
	if h1.HasClass("highlight") {
		t.Error("highlight should be removed")
	}

	h1.RemoveClass("absent")
	if h1.Attr("class") != "title" {
		t.Errorf("class = %q", h1.Attr("class"))
	}

	h1.SetAttr("style", "color: white")
	if h1.Attr("style") != "color: white" {
		t.Error("SetAttr failed")
	}
}

func TestElement_Events(t *testing.T) {
	doc := mustParse(t)
	_ = doc.Mount("chat-container", testChat)

	var calls []string
	form := doc.Query(".typing-form")
	form.On("submit", func() { calls = append(calls, "first") })
	form.On("submit", func() { calls = append(calls, "second") })

	// A fresh handle on the same node sees the same listeners.
	if n := doc.Query("form").Dispatch("submit"); n != 2 {
		t.Errorf("Dispatch ran %d listeners, want 2", n)
	}
	if strings.Join(calls, ",") != "first,second" {
		t.Errorf("calls = %v", calls)
	}

	if n := form.Dispatch("click"); n != 0 {
		t.Errorf("unbound event ran %d listeners", n)
	}
}

func TestElement_DispatchCanQueryDocument(t *testing.T) {
	doc := mustParse(t)
	_ = doc.Mount("chat-container", testChat)

	var got string
	doc.Query("#theme-toggle-button").On("click", func() {
		got = doc.Text("#theme-toggle-button")
	})

	doc.Query("#theme-toggle-button").Dispatch("click")
	if got != "light_mode" {
		t.Errorf("listener read %q", got)
	}
}

func TestMount_DropsOldListeners(t *testing.T) {
	doc := mustParse(t)
	_ = doc.Mount("chat-container", testChat)

	doc.Query(".typing-form").On("submit", func() {})
	if len(doc.listeners) != 1 {
		t.Fatalf("expected 1 listener entry, got %d", len(doc.listeners))
	}

	_ = doc.Mount("chat-container", testChat)
	if len(doc.listeners) != 0 {
		t.Errorf("listeners of replaced nodes should be dropped, got %d", len(doc.listeners))
	}
	if doc.Query(".typing-form").Dispatch("submit") != 0 {
		t.Error("new form should have no listeners")
	}
}

func TestElement_ReadableText(t *testing.T) {
	doc := mustParse(t)
	_ = doc.Mount("header-container", `<nav><h1>Starty   Bot</h1><ul><li>Home</li><li>About</li></ul></nav><script>x()</script>`)

	got := doc.Query("#header-container").ReadableText()
	want := "Starty Bot\nHome\nAbout"
	if got != want {
		t.Errorf("ReadableText() = %q, want %q", got, want)
	}
}

func TestMount_Concurrent(t *testing.T) {
	doc := mustParse(t)
	done := make(chan error, 2)

	go func() { done <- doc.Mount("header-container", "<h1>H</h1>") }()
	go func() { done <- doc.Mount("chat-container", testChat) }()

	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Errorf("Mount failed: %v", err)
		}
	}

	if doc.Query("h1") == nil || doc.Query(".chat-list") == nil {
		t.Error("both fragments should be mounted")
	}
}

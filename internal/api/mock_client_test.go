package api

import (
	"context"
	"errors"
	"testing"
)

func TestMockClient_Replies(t *testing.T) {
	mock := &MockClient{
		Replies: map[string]string{"hello": "hi there"},
		Reply:   "default",
	}

	got, err := mock.SendMessage(context.Background(), "hello")
	if err != nil || got != "hi there" {
		t.Errorf("SendMessage(hello) = %q, %v", got, err)
	}

	got, _ = mock.SendMessage(context.Background(), "other")
	if got != "default" {
		t.Errorf("SendMessage(other) = %q, want default", got)
	}

	if sent := mock.Sent(); len(sent) != 2 || sent[0] != "hello" {
		t.Errorf("Sent() = %v", sent)
	}
}

func TestMockClient_FragmentErrors(t *testing.T) {
	boom := errors.New("boom")
	mock := &MockClient{
		Fragments:    map[string]string{"chat": "<div></div>"},
		FragmentErrs: map[string]error{"header": boom},
	}

	if _, err := mock.FetchFragment(context.Background(), "header"); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if got, err := mock.FetchFragment(context.Background(), "chat"); err != nil || got != "<div></div>" {
		t.Errorf("FetchFragment(chat) = %q, %v", got, err)
	}

	mock.Close()
	if !mock.IsClosed() {
		t.Error("expected closed after Close")
	}
}

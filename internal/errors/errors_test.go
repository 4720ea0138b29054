package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(500, "https://example.com/chat", "rate limited")

	if err == nil {
		t.Fatal("Expected non-nil error")
	}

	expected := "API error [500] at https://example.com/chat: rate limited"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "chat", "boom")
	if noStatus.Error() != "API error at chat: boom" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("send message", "https://example.com/chat", cause)

	expected := "network error during send message at https://example.com/chat: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsNetworkError(wrapped) {
		t.Error("IsNetworkError should see through wrapping")
	}
	if IsNetworkError(errors.New("plain")) {
		t.Error("IsNetworkError should be false for plain errors")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing response field", "response")

	if err.Error() != "parse error: missing response field" {
		t.Errorf("Error() = %s", err.Error())
	}

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}

	if errors.Is(err, ErrPartialLoad) {
		t.Error("ParseError should not match ErrPartialLoad")
	}
}

func TestFragmentError(t *testing.T) {
	tests := []struct {
		name string
		err  *FragmentError
		want string
	}{
		{"status", NewFragmentError("sidebar", 404, nil), "component sidebar not found [404]"},
		{"cause", NewFragmentError("chat", 0, errors.New("dial tcp")), "component chat: dial tcp"},
		{"bare", NewFragmentError("header", 0, nil), "component header not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMissingControlError(t *testing.T) {
	err := NewMissingControlError(".typing-form", "#delete-chat-button")

	if !errors.Is(err, ErrMissingControl) {
		t.Error("MissingControlError should match ErrMissingControl")
	}

	expected := "required chat controls not found: .typing-form, #delete-chat-button"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestPartialLoadError(t *testing.T) {
	err := fmt.Errorf("load: %w", NewPartialLoadError("sidebar"))
	if !errors.Is(err, ErrPartialLoad) {
		t.Error("PartialLoadError should match ErrPartialLoad")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"api error", NewAPIError(429, "chat", "slow down"), 429},
		{"wrapped api error", fmt.Errorf("x: %w", NewAPIError(500, "chat", "x")), 500},
		{"fragment error", NewFragmentError("chat", 404, nil), 404},
		{"plain", errors.New("plain"), 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.want {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"api message", NewAPIError(500, "chat", "rate limited"), "rate limited"},
		{"network", NewNetworkError("send message", "chat", errors.New("EOF")), "failed to reach the chat service"},
		{"parse", NewParseError("missing response field", ""), "missing response field"},
		{"plain", errors.New("something odd"), "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

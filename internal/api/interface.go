package api

import "context"

// ChatClientInterface is the client surface used by the loader, the chat
// orchestrator and the commands.
type ChatClientInterface interface {
	SendMessage(ctx context.Context, message string) (string, error)
	FetchFragment(ctx context.Context, name string) (string, error)
	ServiceURL() string
	ComponentsURL() string
	Close()
	IsClosed() bool
}

var _ ChatClientInterface = (*Client)(nil)

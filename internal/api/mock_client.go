package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of ChatClientInterface for testing
type MockClient struct {
	// Replies maps a message to its reply; Reply is used otherwise.
	Replies  map[string]string
	Reply    string
	ReplyErr error

	// Fragments maps a component name to its markup.
	Fragments    map[string]string
	FragmentErrs map[string]error

	ServiceURLVal    string
	ComponentsURLVal string

	mu          sync.Mutex
	sent        []string
	fetched     []string
	closeCalled bool
}

// Ensure MockClient implements ChatClientInterface
var _ ChatClientInterface = (*MockClient)(nil)

func (m *MockClient) SendMessage(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	m.sent = append(m.sent, message)
	m.mu.Unlock()

	if m.ReplyErr != nil {
		return "", m.ReplyErr
	}
	if reply, ok := m.Replies[message]; ok {
		return reply, nil
	}
	return m.Reply, nil
}

func (m *MockClient) FetchFragment(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, name)
	m.mu.Unlock()

	if err, ok := m.FragmentErrs[name]; ok {
		return "", err
	}
	return m.Fragments[name], nil
}

func (m *MockClient) ServiceURL() string {
	return m.ServiceURLVal
}

func (m *MockClient) ComponentsURL() string {
	return m.ComponentsURLVal
}

func (m *MockClient) Close() {
	m.mu.Lock()
	m.closeCalled = true
	m.mu.Unlock()
}

func (m *MockClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalled
}

// Sent returns the messages passed to SendMessage, in order.
func (m *MockClient) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

// Fetched returns the component names passed to FetchFragment.
func (m *MockClient) Fetched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

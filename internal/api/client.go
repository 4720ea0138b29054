package api

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/startychat/internal/models"
)

// Client talks to the chat service and, optionally, to the site serving
// the page components.
type Client struct {
	httpClient    tls_client.HttpClient
	serviceURL    string
	componentsURL string
	timeout       time.Duration
	logger        *zap.Logger
	mu            sync.RWMutex
	closed        bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithServiceURL sets the chat endpoint
func WithServiceURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.serviceURL = url
		}
	}
}

// WithComponentsURL sets the base URL components are fetched from
func WithComponentsURL(url string) ClientOption {
	return func(c *Client) {
		c.componentsURL = url
	}
}

// WithTimeout bounds every request. Zero means no limit.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		serviceURL: models.DefaultServiceURL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Chrome profile so the service sees an ordinary browser handshake.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Close releases idle connections. Further requests fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ServiceURL returns the chat endpoint
func (c *Client) ServiceURL() string {
	return c.serviceURL
}

// ComponentsURL returns the components base URL, empty when unset
func (c *Client) ComponentsURL() string {
	return c.componentsURL
}

// componentURL joins the components base URL and a fragment name.
func (c *Client) componentURL(name string) string {
	base := c.componentsURL
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + fmt.Sprintf(models.ComponentPathFormat, name)
}

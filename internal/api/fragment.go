package api

import (
	"context"
	"fmt"
	"io"

	http "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	apierrors "github.com/diogo/startychat/internal/errors"
)

// maxFragmentSize caps the markup read for one component.
const maxFragmentSize = 1 << 20

// FetchFragment downloads the markup of a named component. Any non-2xx
// status is a FragmentError.
func (c *Client) FetchFragment(ctx context.Context, name string) (string, error) {
	if c.IsClosed() {
		return "", fmt.Errorf("client is closed")
	}

	endpoint := c.componentURL(name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	c.logger.Debug("fetching component", zap.String("name", name), zap.String("url", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewFragmentError(name, 0,
			apierrors.NewNetworkError("fetch component", endpoint, err))
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apierrors.NewFragmentError(name, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFragmentSize))
	if err != nil {
		return "", apierrors.NewFragmentError(name, 0, fmt.Errorf("failed to read body: %w", err))
	}

	return string(body), nil
}

// withTimeout applies the configured request limit, if any.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

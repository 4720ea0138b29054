package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/startychat/internal/errors"
	"github.com/diogo/startychat/internal/models"
)

// Response fields of the chat service.
const (
	PathResponse = "response"
	PathError    = "error"
)

// fallbackErrorMessage is used when a failed response carries no error text.
const fallbackErrorMessage = "invalid response from chat service"

// maxResponseSize caps the body read from the chat service.
const maxResponseSize = 4 << 20

// SendMessage posts {"message": message} to the chat service and returns
// the reply text.
func (c *Client) SendMessage(ctx context.Context, message string) (string, error) {
	if c.IsClosed() {
		return "", fmt.Errorf("client is closed")
	}

	payload, err := json.Marshal(models.ChatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("sending message", zap.String("url", c.serviceURL), zap.Int("length", len(message)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("send message", c.serviceURL, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", apierrors.NewNetworkError("read response", c.serviceURL, err)
	}

	return c.parseChatResponse(resp.StatusCode, body)
}

// parseChatResponse maps a status and body to the reply text or a typed
// error.
func (c *Client) parseChatResponse(status int, body []byte) (string, error) {
	ok := status >= 200 && status <= 299
	valid := gjson.ValidBytes(body)

	if !ok {
		message := fallbackErrorMessage
		if valid {
			if e := gjson.GetBytes(body, PathError); e.Exists() && e.String() != "" {
				message = e.String()
			}
		}
		c.logger.Debug("chat service error", zap.Int("status", status), zap.String("error", message))
		return "", apierrors.NewAPIError(status, c.serviceURL, message)
	}

	if !valid {
		return "", apierrors.NewParseError(fallbackErrorMessage, "")
	}

	if e := gjson.GetBytes(body, PathError); reportsError(e) {
		message := fallbackErrorMessage
		if e.Type == gjson.String {
			message = e.String()
		}
		return "", apierrors.NewAPIError(status, c.serviceURL, message)
	}

	reply := gjson.GetBytes(body, PathResponse)
	if !reply.Exists() || reply.Type != gjson.String {
		return "", apierrors.NewParseError(fallbackErrorMessage, PathResponse)
	}

	return reply.String(), nil
}

// reportsError reports whether an error field on a successful response
// carries a value. Empty strings, false, zero and null do not.
func reportsError(e gjson.Result) bool {
	switch e.Type {
	case gjson.String:
		return e.String() != ""
	case gjson.True:
		return true
	case gjson.Number:
		return e.Num != 0
	case gjson.JSON:
		return true
	}
	return false
}

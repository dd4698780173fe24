// Package authfetch performs JSON requests against the upload backend with a
// bearer token, retrying once with a fresh token on 401/403.
package authfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var (
	// ErrNoToken is returned when the token source yields no token.
	ErrNoToken = errors.New("Authentication token not available")

	// ErrTokenRefresh is returned when a fresh token could not be obtained after a rejection.
	ErrTokenRefresh = errors.New("failed to refresh authentication token")
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	return fmt.Sprintf("API Error: %d - %s", e.StatusCode, msg)
}

// Client is an authenticated JSON client.
type Client struct {
	http   *http.Client
	tokens oauth2.TokenSource
	logger *zap.Logger
}

// NewClient creates a new authenticated client. tokens is asked again for a
// token after a 401/403, so it should be able to hand out a refreshed one.
func NewClient(httpClient *http.Client, tokens oauth2.TokenSource, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{http: httpClient, tokens: tokens, logger: logger}
}

// DoJSON sends in as a JSON body (nil for none) and decodes a 2xx response into out.
func (c *Client) DoJSON(ctx context.Context, method, url string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	token, err := c.token()
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, method, url, payload, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.logger.Warn("auth failed, retrying with fresh token",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)

		fresh, err := c.token()
		if err != nil {
			drain(resp)
			return fmt.Errorf("%w: %w", ErrTokenRefresh, err)
		}
		if fresh != token {
			drain(resp)
			resp, err = c.send(ctx, method, url, payload, fresh)
			if err != nil {
				return err
			}
		}
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
		c.logger.Error("API error",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) token() (string, error) {
	if c.tokens == nil {
		return "", ErrNoToken
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoToken, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", ErrNoToken
	}
	return tok.AccessToken, nil
}

func (c *Client) send(ctx context.Context, method, url string, payload []byte, token string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// errorMessage extracts "message" from {"message"}, {"error": {"message"}} or {"error": "..."} bodies.
func errorMessage(r io.Reader) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || json.Unmarshal(data, &body) != nil {
		return ""
	}
	if body.Message != "" || len(body.Error) == 0 {
		return body.Message
	}

	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body.Error, &nested) == nil && nested.Message != "" {
		return nested.Message
	}
	var plain string
	if json.Unmarshal(body.Error, &plain) == nil {
		return plain
	}
	return ""
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}

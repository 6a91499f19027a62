// Package httpjson is the JSON-over-HTTP transport shared by the model
// provider adapters.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/askontube/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 2048

// StatusError reports a non-2xx response. It unwraps to domain.ErrRateLimited
// for 429 and to domain.ErrUpstream otherwise.
type StatusError struct {
	Provider string
	Status   int

	// Code and Message come from the provider's error object when present.
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, msg)
}

// Unwrap maps the status onto a domain error.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return domain.ErrUpstream
}

// Client sends JSON requests to one provider.
type Client struct {
	provider string
	baseURL  string
	header   http.Header
	http     *http.Client
}

// New creates a client. header is sent with every request.
func New(provider, baseURL string, timeout time.Duration, header http.Header) *Client {
	if header == nil {
		header = http.Header{}
	}
	return &Client{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		header:   header,
		http:     &http.Client{Timeout: timeout},
	}
}

// Do sends in as the JSON body (omitted when nil) and decodes the response
// into out (skipped when nil). Transport failures wrap domain.ErrUpstream.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", c.provider, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.provider, err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %w", domain.ErrUpstream, c.provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %w", domain.ErrUpstream, c.provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", domain.ErrUpstream, c.provider, err)
	}
	return nil
}

// statusError extracts the provider's error object. Both the nested
// {"error": {"message", "code"}} form and the flat {"error": "..."} form
// are understood.
func (c *Client) statusError(status int, raw []byte) *StatusError {
	se := &StatusError{Provider: c.provider, Status: status}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil && len(envelope.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
			Code    any    `json:"code"`
			Type    string `json:"type"`
		}
		var flat string
		switch {
		case json.Unmarshal(envelope.Error, &flat) == nil:
			se.Message = flat
			return se
		case json.Unmarshal(envelope.Error, &nested) == nil:
			se.Message = nested.Message
			se.Code = nested.Type
			if code, ok := nested.Code.(string); ok && code != "" {
				se.Code = code
			}
			return se
		}
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	se.Message = text
	return se
}

// IsCode reports whether err is a StatusError carrying code.
func IsCode(err error, code string) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

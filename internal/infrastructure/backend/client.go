// Package backend implements the authenticated HTTP client for the upstream
// API. Every call resolves a bearer token, serialises the body, and
// normalises any failure into a *domain.APIError before it reaches callers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hirewave/portal-gateway/internal/core/domain"
)

// HTTPTransport is the capability the client needs from an HTTP stack.
// *http.Client satisfies it; tests substitute deterministic fakes.
type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	// BaseURL is prefixed to every request path. A trailing slash is trimmed.
	BaseURL string
	// Transport defaults to http.DefaultClient when nil.
	Transport HTTPTransport
	// DefaultToken is the last-resort bearer token.
	DefaultToken string
	// TokenResolver, when set and returning a non-empty string, wins over
	// both the per-call token and DefaultToken.
	TokenResolver func() string
	Logger        zerolog.Logger
}

// Client issues calls against the backend API. It implements ports.APIClient.
type Client struct {
	baseURL      string
	transport    HTTPTransport
	defaultToken string
	resolver     func() string
	log          zerolog.Logger
}

func New(opts Options) *Client {
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultClient
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		transport:    transport,
		defaultToken: opts.DefaultToken,
		resolver:     opts.TokenResolver,
		log:          opts.Logger,
	}
}

func (c *Client) Get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, token, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, token string, out any) error {
	return c.do(ctx, http.MethodPost, path, body, token, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, token string, out any) error {
	return c.do(ctx, http.MethodPut, path, body, token, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, token string, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, token, out)
}

func (c *Client) Delete(ctx context.Context, path string, body any, token string, out any) error {
	return c.do(ctx, http.MethodDelete, path, body, token, out)
}

// resolveToken applies the precedence: resolver callback, explicit per-call
// token, configured default. Empty string means "send no Authorization".
func (c *Client) resolveToken(explicit string) string {
	if c.resolver != nil {
		if t := c.resolver(); t != "" {
			return t
		}
	}
	if explicit != "" {
		return explicit
	}
	return c.defaultToken
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, out any) error {
	reader, contentType, err := encodeBody(body)
	if err != nil {
		return networkError(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return networkError(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.resolveToken(token); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.transport.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend transport failure")
		return networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			var discard any
			out = &discard
		}
		if err := json.Unmarshal(data, out); err != nil {
			return networkError(err)
		}
		return nil
	}

	var envelope struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Payload map[string]any `json:"payload"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return networkError(err)
	}
	return domain.NewAPIError(envelope.Code, envelope.Message, envelope.Payload)
}

// encodeBody serialises the request body. Multipart forms pass through with
// their own boundary content type, nil stays nil, everything else becomes
// JSON text.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "application/json", nil
	case *Form:
		return b.Reader(), b.ContentType(), nil
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(buf), "application/json", nil
	}
}

// networkError wraps a transport-level failure as NETWORK_ERROR, preserving
// the original message. An *domain.APIError passes through untouched so
// failures are never double-wrapped.
func networkError(err error) error {
	var api *domain.APIError
	if errors.As(err, &api) {
		return api
	}
	return domain.NewAPIError(domain.CodeNetworkError, err.Error(), map[string]any{
		"originalError": err.Error(),
	})
}

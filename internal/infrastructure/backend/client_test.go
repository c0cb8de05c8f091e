package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hirewave/portal-gateway/internal/core/domain"
)

type fakeTransport struct {
	lastReq  *http.Request
	lastBody []byte
	status   int
	respBody string
	err      error
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	if req.Body != nil {
		f.lastBody, _ = io.ReadAll(req.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(f.respBody)),
	}, nil
}

func newTestClient(ft *fakeTransport, opts Options) *Client {
	opts.BaseURL = "http://backend.local/api/v1"
	opts.Transport = ft
	opts.Logger = zerolog.Nop()
	return New(opts)
}

func TestClient_Get_Success(t *testing.T) {
	ft := &fakeTransport{status: http.StatusOK, respBody: `{"id":7,"name":"Alice"}`}
	c := newTestClient(ft, Options{})

	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := c.Get(context.Background(), "/auth/me", "tok-123", &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if out.ID != 7 || out.Name != "Alice" {
		t.Fatalf("unexpected decode: %+v", out)
	}
	if got := ft.lastReq.Header.Get("Authorization"); got != "Bearer tok-123" {
		t.Fatalf("unexpected Authorization header: %q", got)
	}
	if got := ft.lastReq.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected Content-Type: %q", got)
	}
	if got := ft.lastReq.URL.String(); got != "http://backend.local/api/v1/auth/me" {
		t.Fatalf("unexpected URL: %q", got)
	}
}

func TestClient_Post_SerializesJSONBody(t *testing.T) {
	ft := &fakeTransport{status: http.StatusOK, respBody: `{}`}
	c := newTestClient(ft, Options{})

	body := map[string]string{"email": "a@b.co"}
	if err := c.Post(context.Background(), "/auth/login", body, "", nil); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if string(ft.lastBody) != `{"email":"a@b.co"}` {
		t.Fatalf("unexpected body: %s", ft.lastBody)
	}
}

func TestClient_BackendErrorBody(t *testing.T) {
	ft := &fakeTransport{
		status:   http.StatusConflict,
		respBody: `{"code":"CONFLICT","message":"email already registered","payload":{"field":"email"}}`,
	}
	c := newTestClient(ft, Options{})

	err := c.Post(context.Background(), "/auth/register", map[string]string{}, "", nil)
	api := domain.APIErrorFrom(err)
	if api == nil {
		t.Fatalf("expected APIError, got %v", err)
	}
	if api.Code != domain.CodeConflict || !api.IsConflictError() {
		t.Fatalf("expected CONFLICT, got %s", api.Code)
	}
	if api.Message != "email already registered" {
		t.Fatalf("unexpected message: %q", api.Message)
	}
	if api.Payload["field"] != "email" {
		t.Fatalf("payload not carried through: %v", api.Payload)
	}
}

func TestClient_BackendErrorBody_Defaults(t *testing.T) {
	ft := &fakeTransport{status: http.StatusInternalServerError, respBody: `{}`}
	c := newTestClient(ft, Options{})

	err := c.Get(context.Background(), "/auth/me", "", nil)
	api := domain.APIErrorFrom(err)
	if api.Code != domain.CodeUnknownError {
		t.Fatalf("expected UNKNOWN_ERROR, got %s", api.Code)
	}
	if api.Message != "An unknown error occurred" {
		t.Fatalf("unexpected default message: %q", api.Message)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	ft := &fakeTransport{err: errors.New("dial tcp: connection refused")}
	c := newTestClient(ft, Options{})

	err := c.Get(context.Background(), "/auth/me", "", nil)
	api := domain.APIErrorFrom(err)
	if api.Code != domain.CodeNetworkError {
		t.Fatalf("expected NETWORK_ERROR, got %s", api.Code)
	}
	if api.Payload["originalError"] != "dial tcp: connection refused" {
		t.Fatalf("original error not preserved: %v", api.Payload)
	}
}

func TestClient_NoDoubleWrapping(t *testing.T) {
	orig := domain.NewAPIError(domain.CodeUnauthorized, "expired", nil)
	ft := &fakeTransport{err: orig}
	c := newTestClient(ft, Options{})

	err := c.Get(context.Background(), "/auth/me", "", nil)
	api := domain.APIErrorFrom(err)
	if api != orig {
		t.Fatalf("APIError was re-wrapped: %v", api)
	}
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	ft := &fakeTransport{status: http.StatusOK, respBody: `<!doctype html>`}
	c := newTestClient(ft, Options{})

	err := c.Get(context.Background(), "/auth/me", "", nil)
	api := domain.APIErrorFrom(err)
	if api.Code != domain.CodeNetworkError {
		t.Fatalf("expected NETWORK_ERROR for unparseable body, got %s", api.Code)
	}
}

func TestClient_TokenResolution(t *testing.T) {
	cases := []struct {
		name     string
		resolver func() string
		explicit string
		fallback string
		want     string
	}{
		{"resolver wins", func() string { return "from-resolver" }, "explicit", "default", "Bearer from-resolver"},
		{"empty resolver falls through", func() string { return "" }, "explicit", "default", "Bearer explicit"},
		{"explicit over default", nil, "explicit", "default", "Bearer explicit"},
		{"default last", nil, "", "default", "Bearer default"},
		{"no token no header", nil, "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ft := &fakeTransport{status: http.StatusOK, respBody: `{}`}
			c := newTestClient(ft, Options{DefaultToken: tc.fallback, TokenResolver: tc.resolver})

			if err := c.Get(context.Background(), "/x", tc.explicit, nil); err != nil {
				t.Fatalf("Get returned error: %v", err)
			}
			if got := ft.lastReq.Header.Get("Authorization"); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestClient_FormBodyContentType(t *testing.T) {
	form, err := NewForm(map[string]any{"name": "cv"})
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}

	ft := &fakeTransport{status: http.StatusOK, respBody: `{}`}
	c := newTestClient(ft, Options{})
	if err := c.Post(context.Background(), "/upload", form, "", nil); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}

	ct := ft.lastReq.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
		t.Fatalf("expected multipart content type with boundary, got %q", ct)
	}
	if strings.Contains(ct, "application/json") {
		t.Fatalf("JSON content type must not be set for forms")
	}
}

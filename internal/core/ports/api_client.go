package ports

import "context"

// APIClient issues authenticated calls against the backend API. The token
// argument is the explicit per-call bearer token; pass "" to let the client
// fall back to its resolver or default token. The response body is decoded
// into out when out is non-nil. Every returned error is a *domain.APIError.
type APIClient interface {
	Get(ctx context.Context, path, token string, out any) error
	Post(ctx context.Context, path string, body any, token string, out any) error
	Put(ctx context.Context, path string, body any, token string, out any) error
	Patch(ctx context.Context, path string, body any, token string, out any) error
	Delete(ctx context.Context, path string, body any, token string, out any) error
}

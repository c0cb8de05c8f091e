package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hirewave/portal-gateway/internal/core/domain"
)

// stubAPIClient records the last call and plays back a canned JSON response.
type stubAPIClient struct {
	method   string
	path     string
	token    string
	body     any
	response string
	err      error
}

func (s *stubAPIClient) respond(out any) error {
	if s.err != nil {
		return s.err
	}
	if out == nil || s.response == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.response), out)
}

func (s *stubAPIClient) Get(_ context.Context, path, token string, out any) error {
	s.method, s.path, s.token = "GET", path, token
	return s.respond(out)
}

func (s *stubAPIClient) Post(_ context.Context, path string, body any, token string, out any) error {
	s.method, s.path, s.token, s.body = "POST", path, token, body
	return s.respond(out)
}

func (s *stubAPIClient) Put(_ context.Context, path string, body any, token string, out any) error {
	s.method, s.path, s.token, s.body = "PUT", path, token, body
	return s.respond(out)
}

func (s *stubAPIClient) Patch(_ context.Context, path string, body any, token string, out any) error {
	s.method, s.path, s.token, s.body = "PATCH", path, token, body
	return s.respond(out)
}

func (s *stubAPIClient) Delete(_ context.Context, path string, body any, token string, out any) error {
	s.method, s.path, s.token, s.body = "DELETE", path, token, body
	return s.respond(out)
}

const signInBody = `{"user":{"id":4,"email":"a@b.co"},"tokens":{"access_token":"at","refresh_token":"rt","expires_at":1900000000}}`

func TestAuthService_Login(t *testing.T) {
	stub := &stubAPIClient{response: signInBody}
	svc := NewAuthService(stub)

	resp, err := svc.Login(context.Background(), domain.SignInRequest{Email: "a@b.co", Password: "pw"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if stub.method != "POST" || stub.path != "/auth/login" {
		t.Fatalf("unexpected call: %s %s", stub.method, stub.path)
	}
	if stub.token != "" {
		t.Fatalf("login must not carry a bearer token, got %q", stub.token)
	}
	if resp.Tokens.Pair() != (domain.TokenPair{AccessToken: "at", RefreshToken: "rt"}) {
		t.Fatalf("token mapping broken: %+v", resp.Tokens)
	}
	if resp.User == nil || resp.User.ID != 4 {
		t.Fatalf("user not decoded: %+v", resp.User)
	}
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	stub := &stubAPIClient{response: `{"id":9,"name":"Bea","user_type":"poster"}`}
	svc := NewAuthService(stub)

	user, err := svc.GetCurrentUser(context.Background(), "access-123")
	if err != nil {
		t.Fatalf("GetCurrentUser returned error: %v", err)
	}
	if stub.method != "GET" || stub.path != "/auth/me" {
		t.Fatalf("unexpected call: %s %s", stub.method, stub.path)
	}
	if stub.token != "access-123" {
		t.Fatalf("access token not passed through, got %q", stub.token)
	}
	if user.UserType != domain.UserTypePoster {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_GetCurrentUser_Error(t *testing.T) {
	stub := &stubAPIClient{err: domain.NewAPIError(domain.CodeUnauthorized, "expired", nil)}
	svc := NewAuthService(stub)

	if _, err := svc.GetCurrentUser(context.Background(), "bad"); err == nil {
		t.Fatalf("expected error to propagate")
	} else if !domain.APIErrorFrom(err).IsAuthError() {
		t.Fatalf("error shape changed in transit: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	stub := &stubAPIClient{response: `{"authToken":"fresh"}`}
	svc := NewAuthService(stub)

	resp, err := svc.ChangePassword(context.Background(), "tok", domain.ChangePasswordRequest{
		OldPassword: "a", NewPassword: "b", NewPasswordConfirm: "b",
	})
	if err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if stub.path != "/auth/change-password" || stub.token != "tok" {
		t.Fatalf("unexpected call: %s token=%q", stub.path, stub.token)
	}
	if resp.AuthToken != "fresh" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	stub := &stubAPIClient{response: signInBody}
	svc := NewAuthService(stub)

	if _, err := svc.LoginWithGoogle(context.Background(), "oauth-code"); err != nil {
		t.Fatalf("LoginWithGoogle returned error: %v", err)
	}
	if stub.path != "/auth/google/login" {
		t.Fatalf("unexpected path: %s", stub.path)
	}
	body, ok := stub.body.(map[string]string)
	if !ok || body["code"] != "oauth-code" {
		t.Fatalf("code not carried in body: %v", stub.body)
	}
}

func TestAuthService_Register(t *testing.T) {
	stub := &stubAPIClient{response: signInBody}
	svc := NewAuthService(stub)

	resp, err := svc.Register(context.Background(), domain.SignUpRequest{Email: "new@b.co"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if stub.method != "POST" || stub.path != "/auth/register" {
		t.Fatalf("unexpected call: %s %s", stub.method, stub.path)
	}
	if !resp.Tokens.Pair().Complete() {
		t.Fatalf("expected complete token pair: %+v", resp.Tokens)
	}
}

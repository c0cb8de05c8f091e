package service

import (
	"context"

	"github.com/hirewave/portal-gateway/internal/core/domain"
	"github.com/hirewave/portal-gateway/internal/core/ports"
)

// AuthService is a thin typed facade over the backend auth endpoints. Each
// method maps to one fixed path and verb; no business logic lives here.
type AuthService struct {
	api ports.APIClient
}

func NewAuthService(api ports.APIClient) *AuthService {
	return &AuthService{api: api}
}

func (s *AuthService) Login(ctx context.Context, req domain.SignInRequest) (*domain.SignInResponse, error) {
	var out domain.SignInResponse
	if err := s.api.Post(ctx, "/auth/login", req, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) Register(ctx context.Context, req domain.SignUpRequest) (*domain.SignUpResponse, error) {
	var out domain.SignUpResponse
	if err := s.api.Post(ctx, "/auth/register", req, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	var out domain.User
	if err := s.api.Get(ctx, "/auth/me", accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, accessToken string, req domain.ChangePasswordRequest) (*domain.ChangePasswordResponse, error) {
	var out domain.ChangePasswordResponse
	if err := s.api.Post(ctx, "/auth/change-password", req, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*domain.SignInResponse, error) {
	var out domain.SignInResponse
	body := map[string]string{"code": code}
	if err := s.api.Post(ctx, "/auth/google/login", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

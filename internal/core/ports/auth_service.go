package ports

import (
	"context"

	"github.com/hirewave/portal-gateway/internal/core/domain"
)

// AuthService is the typed facade over the backend's auth endpoints.
type AuthService interface {
	Login(ctx context.Context, req domain.SignInRequest) (*domain.SignInResponse, error)
	Register(ctx context.Context, req domain.SignUpRequest) (*domain.SignUpResponse, error)
	GetCurrentUser(ctx context.Context, accessToken string) (*domain.User, error)
	ChangePassword(ctx context.Context, accessToken string, req domain.ChangePasswordRequest) (*domain.ChangePasswordResponse, error)
	LoginWithGoogle(ctx context.Context, code string) (*domain.SignInResponse, error)
}

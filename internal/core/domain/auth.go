package domain

import "errors"

var (
	ErrEmptyAccessToken  = errors.New("access token cannot be empty")
	ErrEmptyRefreshToken = errors.New("refresh token cannot be empty")
	ErrNilUser           = errors.New("user cannot be nil")
)

// TokenPair holds the two opaque bearer credentials of a session. The empty
// string is the canonical "no credential" value for either field.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Complete reports whether both tokens are present and non-empty, the only
// shape in which a session counts as present.
func (p TokenPair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// IssuedTokens is the token envelope the backend returns from login and
// register. Field names follow the backend's wire format.
type IssuedTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Pair maps the wire envelope to the gateway's internal token pair.
func (t IssuedTokens) Pair() TokenPair {
	return TokenPair{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignInResponse struct {
	User   *User        `json:"user"`
	Tokens IssuedTokens `json:"tokens"`
}

type SignUpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SignUpResponse mirrors SignInResponse: a fresh account is signed in
// immediately.
type SignUpResponse struct {
	User   *User        `json:"user"`
	Tokens IssuedTokens `json:"tokens"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

type ChangePasswordResponse struct {
	AuthToken string `json:"authToken"`
}

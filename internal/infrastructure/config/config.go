package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Cookies CookieConfig
	Auth    AuthConfig
	Google  GoogleConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	// BaseURL is the root of the backend API all outbound calls target.
	BaseURL string `env:"BACKEND_BASE_URL, default=http://localhost:9000/api/v1"`
	// Token is the fallback bearer token used when neither the session state
	// nor the call site supplies one. Usually empty.
	Token string `env:"BACKEND_TOKEN"`
}

type CookieConfig struct {
	AccessTokenName  string `env:"COOKIE_ACCESS_TOKEN_NAME,  default=access_token"`
	RefreshTokenName string `env:"COOKIE_REFRESH_TOKEN_NAME, default=refresh_token"`
	Domain           string `env:"COOKIE_DOMAIN"`
	MaxAgeSeconds    int    `env:"COOKIE_MAX_AGE_SECONDS, default=604800"`
	SameSite         string `env:"COOKIE_SAME_SITE,       default=lax"`
}

type AuthConfig struct {
	LoginPath           string   `env:"AUTH_LOGIN_PATH,            default=/login"`
	DefaultRedirectPath string   `env:"AUTH_DEFAULT_REDIRECT_PATH, default=/"`
	PublicRoutes        []string `env:"AUTH_PUBLIC_ROUTES,         default=/login,/authorize,/logout,/register,/login/google,/health,/health/ready,/metrics"`
	// NoRedirectPreservation lists paths whose login redirects carry no
	// return destination. Empty means "the default redirect path only".
	NoRedirectPreservation []string `env:"AUTH_NO_REDIRECT_PRESERVATION"`
	// LoginRateLimit caps POST /login attempts per client per window.
	// Zero disables the limiter even when Redis is configured.
	LoginRateLimit      int `env:"AUTH_LOGIN_RATE_LIMIT,       default=10"`
	LoginRateWindowSecs int `env:"AUTH_LOGIN_RATE_WINDOW_SECS, default=60"`
}

type GoogleConfig struct {
	ClientID    string `env:"GOOGLE_CLIENT_ID"`
	RedirectURL string `env:"GOOGLE_REDIRECT_URL"`
	AuthURL     string `env:"GOOGLE_AUTH_URL, default=https://accounts.google.com/o/oauth2/v2/auth"`
}

type RedisConfig struct {
	// Addr empty disables Redis-backed features (login limiter, readiness).
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Dev reports whether the gateway runs in development mode. Cookies drop the
// Secure attribute only in this mode.
func (c *Config) Dev() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

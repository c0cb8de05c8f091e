package cookies

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hirewave/portal-gateway/internal/core/domain"
)

const (
	defaultAccessTokenName  = "access_token"
	defaultRefreshTokenName = "refresh_token"
	defaultMaxAgeSeconds    = 60 * 60 * 24 * 7 // one week
)

// Options configures a Store. Every field is optional; unset strings mean
// "omit the attribute" and an unset max age falls back to one week.
type Options struct {
	AccessTokenName  string
	RefreshTokenName string
	Domain           string
	MaxAgeSeconds    int
	// SameSite is one of "strict", "lax", "none", or "" to omit the
	// attribute. Unrecognised values are treated as "".
	SameSite string
	// Insecure drops the Secure attribute. Only for local development.
	Insecure bool
	Logger   zerolog.Logger
}

// Store reads and writes the session token pair through a Jar. Option
// normalisation happens once here, not per call.
type Store struct {
	accessName  string
	refreshName string
	domain      string
	maxAge      int
	sameSite    http.SameSite
	secure      bool
	log         zerolog.Logger
}

func NewStore(opts Options) *Store {
	s := &Store{
		accessName:  opts.AccessTokenName,
		refreshName: opts.RefreshTokenName,
		domain:      opts.Domain,
		maxAge:      opts.MaxAgeSeconds,
		sameSite:    parseSameSite(opts.SameSite),
		secure:      !opts.Insecure,
		log:         opts.Logger,
	}
	if s.accessName == "" {
		s.accessName = defaultAccessTokenName
	}
	if s.refreshName == "" {
		s.refreshName = defaultRefreshTokenName
	}
	if s.maxAge <= 0 {
		s.maxAge = defaultMaxAgeSeconds
	}
	return s
}

// GetTokens never fails; a missing cookie yields an empty string.
func (s *Store) GetTokens(jar Jar) domain.TokenPair {
	access, _ := jar.Get(s.accessName)
	refresh, _ := jar.Get(s.refreshName)
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}
}

// Login writes both session cookies with the configured attributes.
func (s *Store) Login(jar Jar, accessToken, refreshToken string) error {
	if err := jar.Set(s.accessName, accessToken, s.setOptions()); err != nil {
		return err
	}
	return jar.Set(s.refreshName, refreshToken, s.setOptions())
}

// Logout deletes both session cookies. It never fails: a deletion error is
// retried once with a minimal option set and then only logged, because
// Logout runs on failure paths that must still complete a redirect.
func (s *Store) Logout(jar Jar) {
	s.deleteCookie(jar, s.accessName)
	s.deleteCookie(jar, s.refreshName)
}

// IsAuthenticated reports whether both tokens are present and non-empty.
func (s *Store) IsAuthenticated(jar Jar) bool {
	return s.GetTokens(jar).Complete()
}

func (s *Store) setOptions() CookieOptions {
	return CookieOptions{
		MaxAge:   s.maxAge,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite,
		Domain:   s.domain,
	}
}

func (s *Store) deleteCookie(jar Jar, name string) {
	err := jar.Delete(name, CookieOptions{Path: "/", Domain: s.domain})
	if err == nil {
		return
	}
	s.log.Warn().Err(err).Str("cookie", name).Msg("cookie deletion failed, retrying with minimal options")

	if err := jar.Delete(name, CookieOptions{Path: "/"}); err != nil {
		s.log.Error().Err(err).Str("cookie", name).Msg("fallback cookie deletion failed")
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		// DefaultMode leaves the attribute off the Set-Cookie header.
		return http.SameSiteDefaultMode
	}
}

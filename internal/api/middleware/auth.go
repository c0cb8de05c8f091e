package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hirewave/portal-gateway/internal/api/cookies"
	"github.com/hirewave/portal-gateway/internal/api/metrics"
	"github.com/hirewave/portal-gateway/internal/core/domain"
)

// Context keys under which the gate publishes the resolved session.
const (
	ContextKeyUser         = "auth_user"
	ContextKeyAccessToken  = "auth_access_token"
	ContextKeyRefreshToken = "auth_refresh_token"
)

// FetchUserFunc resolves the current user from an access token.
type FetchUserFunc func(ctx context.Context, accessToken string) (*domain.User, error)

// AuthConfig configures the auth gate. Zero values fall back to the
// documented defaults; normalisation happens once in Auth, not per request.
type AuthConfig struct {
	// Store reads and tears down the session cookies.
	Store *cookies.Store
	// FetchUser resolves the user for a protected request. Required.
	FetchUser FetchUserFunc
	// PublicRoutes bypass the gate entirely (exact path match).
	// Default: LoginPath, "/authorize", "/logout".
	PublicRoutes []string
	// ProtectedRoutes, when set, is the exhaustive list of protected paths.
	// ProtectedPredicate wins over the list when both are set. When neither
	// is configured every non-public path is protected.
	ProtectedRoutes    []string
	ProtectedPredicate func(path string) bool
	// LoginPath is the redirect target for unauthenticated requests.
	// Default "/login".
	LoginPath string
	// DefaultRedirectPath is where the login flow lands when no destination
	// was preserved. Default "/".
	DefaultRedirectPath string
	// NoRedirectPreservation lists paths whose redirects carry no return
	// destination. Default: DefaultRedirectPath only.
	NoRedirectPreservation []string
	// OnAuthError is invoked on user-fetch failures. Defaults to logging.
	OnAuthError func(err error, c echo.Context)
	Logger      zerolog.Logger
}

// Action is the typed control result of a gate evaluation, replacing
// exception-style redirects: every exit path is an explicit value.
type Action int

const (
	ActionContinue Action = iota
	ActionRedirect
)

// Outcome is what one gate step decided for the request.
type Outcome struct {
	Action   Action
	Location string
}

func continueOutcome() Outcome { return Outcome{Action: ActionContinue} }

func redirectOutcome(location string) Outcome {
	return Outcome{Action: ActionRedirect, Location: location}
}

// gate holds the normalised configuration.
type gate struct {
	store      *cookies.Store
	fetchUser  FetchUserFunc
	public     map[string]struct{}
	protected  map[string]struct{}
	predicate  func(path string) bool
	loginPath  string
	noPreserve map[string]struct{}
	onError    func(err error, c echo.Context)
	log        zerolog.Logger
}

func newGate(cfg AuthConfig) *gate {
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	defaultRedirect := cfg.DefaultRedirectPath
	if defaultRedirect == "" {
		defaultRedirect = "/"
	}

	public := cfg.PublicRoutes
	if public == nil {
		public = []string{loginPath, "/authorize", "/logout"}
	}
	noPreserve := cfg.NoRedirectPreservation
	if noPreserve == nil {
		noPreserve = []string{defaultRedirect}
	}

	g := &gate{
		store:      cfg.Store,
		fetchUser:  cfg.FetchUser,
		public:     make(map[string]struct{}, len(public)),
		loginPath:  loginPath,
		noPreserve: make(map[string]struct{}, len(noPreserve)),
		predicate:  cfg.ProtectedPredicate,
		onError:    cfg.OnAuthError,
		log:        cfg.Logger,
	}
	for _, p := range public {
		g.public[p] = struct{}{}
	}
	for _, p := range noPreserve {
		g.noPreserve[p] = struct{}{}
	}
	if cfg.ProtectedRoutes != nil {
		g.protected = make(map[string]struct{}, len(cfg.ProtectedRoutes))
		for _, p := range cfg.ProtectedRoutes {
			g.protected[p] = struct{}{}
		}
	}
	return g
}

// isProtected classifies a path. Public routes always bypass; otherwise a
// configured predicate or list decides, and with neither configured every
// path is protected.
func (g *gate) isProtected(path string) bool {
	if _, ok := g.public[path]; ok {
		return false
	}
	if g.predicate != nil {
		return g.predicate(path)
	}
	if g.protected != nil {
		_, ok := g.protected[path]
		return ok
	}
	return true
}

// loginRedirect builds the redirect outcome shared by every failure exit.
// The current destination is preserved as a base64 redirect parameter unless
// the path is exempt and carries no query string.
func (g *gate) loginRedirect(path, rawQuery string) Outcome {
	if _, exempt := g.noPreserve[path]; exempt && rawQuery == "" {
		return redirectOutcome(g.loginPath)
	}
	encoded := EncodeRedirect(path, rawQuery)
	return redirectOutcome(g.loginPath + "?redirect=" + url.QueryEscape(encoded))
}

// Auth returns the gate middleware. Per request it classifies the route,
// checks the cookie session, fetches the user, and either populates the
// request context or tears the session down and redirects to login. An auth
// failure never surfaces to the handler chain.
func Auth(cfg AuthConfig) echo.MiddlewareFunc {
	g := newGate(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			jar := cookies.NewEchoJar(c)

			if !g.isProtected(path) {
				// Reaching the login form always yields a clean slate, so a
				// user with a broken session can log in again.
				if path == g.loginPath && req.Method == http.MethodGet {
					g.store.Logout(jar)
					metrics.SessionLogoutsTotal.WithLabelValues("login_page").Inc()
				}
				metrics.GateDecisionsTotal.WithLabelValues(metrics.DecisionPublic).Inc()
				return next(c)
			}

			if !g.store.IsAuthenticated(jar) {
				metrics.GateDecisionsTotal.WithLabelValues(metrics.DecisionRedirectNoSession).Inc()
				return g.deny(c, jar, req.URL)
			}

			tokens := g.store.GetTokens(jar)
			if !tokens.Complete() {
				// Defensive: IsAuthenticated passed but the tokens read back
				// incomplete. Treat exactly like a missing session.
				metrics.GateDecisionsTotal.WithLabelValues(metrics.DecisionRedirectBadTokens).Inc()
				return g.deny(c, jar, req.URL)
			}

			start := time.Now()
			user, err := g.fetchUser(req.Context(), tokens.AccessToken)
			if err != nil {
				metrics.UserFetchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
				metrics.GateDecisionsTotal.WithLabelValues(metrics.DecisionRedirectFetchFail).Inc()
				if g.onError != nil {
					g.onError(err, c)
				} else {
					g.log.Error().Err(err).Str("path", path).Msg("failed to fetch authenticated user")
				}
				metrics.SessionLogoutsTotal.WithLabelValues("auth_failure").Inc()
				return g.deny(c, jar, req.URL)
			}
			metrics.UserFetchDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyAccessToken, tokens.AccessToken)
			c.Set(ContextKeyRefreshToken, tokens.RefreshToken)

			metrics.GateDecisionsTotal.WithLabelValues(metrics.DecisionAllowed).Inc()
			return next(c)
		}
	}
}

// deny tears down the session and answers with the login redirect. Cookie
// deletion is best effort and never blocks the redirect.
func (g *gate) deny(c echo.Context, jar cookies.Jar, u *url.URL) error {
	g.store.Logout(jar)
	outcome := g.loginRedirect(u.Path, u.RawQuery)
	return c.Redirect(http.StatusSeeOther, outcome.Location)
}

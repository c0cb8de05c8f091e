package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hirewave/portal-gateway/internal/api/cookies"
	"github.com/hirewave/portal-gateway/internal/api/metrics"
	"github.com/hirewave/portal-gateway/internal/api/middleware"
	"github.com/hirewave/portal-gateway/internal/core/domain"
	"github.com/hirewave/portal-gateway/internal/core/ports"
	redisinfra "github.com/hirewave/portal-gateway/internal/infrastructure/db/redis"
)

const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 600 // ten minutes to complete the consent flow
)

// GoogleOAuth holds the settings for the Google login leg. An empty ClientID
// disables the flow.
type GoogleOAuth struct {
	ClientID    string
	RedirectURL string
	AuthURL     string
}

// AuthHandlerParams wires an AuthHandler.
type AuthHandlerParams struct {
	Service ports.AuthService
	Store   *cookies.Store
	// Limiter is optional; nil disables login rate limiting.
	Limiter *redisinfra.LoginLimiter
	Google  GoogleOAuth
	// LoginPath and DefaultRedirectPath mirror the gate configuration.
	LoginPath           string
	DefaultRedirectPath string
	Insecure            bool
	Logger              zerolog.Logger
}

// AuthHandler implements the gateway's own auth surface: credential login,
// registration, the Google OAuth flow, logout, and password changes.
type AuthHandler struct {
	svc             ports.AuthService
	store           *cookies.Store
	limiter         *redisinfra.LoginLimiter
	google          GoogleOAuth
	loginPath       string
	defaultRedirect string
	insecure        bool
	log             zerolog.Logger
}

func NewAuthHandler(p AuthHandlerParams) *AuthHandler {
	h := &AuthHandler{
		svc:             p.Service,
		store:           p.Store,
		limiter:         p.Limiter,
		google:          p.Google,
		loginPath:       p.LoginPath,
		defaultRedirect: p.DefaultRedirectPath,
		insecure:        p.Insecure,
		log:             p.Logger,
	}
	if h.loginPath == "" {
		h.loginPath = "/login"
	}
	if h.defaultRedirect == "" {
		h.defaultRedirect = "/"
	}
	return h
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// LoginForm answers GET on the login path with the data the login page
// needs. The gate has already cleared any stale session by this point.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	resp := map[string]string{"login_path": h.loginPath}
	if h.google.ClientID != "" {
		resp["google_login_path"] = "/login/google"
	}
	if redirect := c.QueryParam("redirect"); redirect != "" {
		resp["redirect"] = redirect
	}
	return c.JSON(http.StatusOK, resp)
}

// Login authenticates credentials against the backend and installs the
// session cookies on success.
func (h *AuthHandler) Login(c echo.Context) error {
	var req domain.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Request().Context(), c.RealIP())
		if err != nil {
			h.log.Warn().Err(err).Msg("login limiter unavailable, failing open")
		}
		if !allowed {
			metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		}
	}

	resp, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	jar := cookies.NewEchoJar(c)
	if err := h.store.Login(jar, resp.Tokens.AccessToken, resp.Tokens.RefreshToken); err != nil {
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, userResponse{User: resp.User})
}

// Register creates an account and signs it in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req domain.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	jar := cookies.NewEchoJar(c)
	if err := h.store.Login(jar, resp.Tokens.AccessToken, resp.Tokens.RefreshToken); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: resp.User})
}

// Logout clears the session cookies and sends the browser to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.store.Logout(cookies.NewEchoJar(c))
	metrics.SessionLogoutsTotal.WithLabelValues("explicit").Inc()
	return c.Redirect(http.StatusSeeOther, h.loginPath)
}

// GoogleStart begins the OAuth flow: mint a state nonce, remember it in a
// short-lived cookie, and send the browser to the consent screen. The
// caller's redirect parameter rides along on the redirect URI so the
// authorize landing can restore the destination.
func (h *AuthHandler) GoogleStart(c echo.Context) error {
	if h.google.ClientID == "" {
		return echo.NewHTTPError(http.StatusNotFound, "google login is not configured")
	}

	state := uuid.NewString()
	jar := cookies.NewEchoJar(c)
	err := jar.Set(stateCookieName, state, cookies.CookieOptions{
		MaxAge:   stateCookieMaxAge,
		Path:     "/",
		HTTPOnly: true,
		Secure:   !h.insecure,
		SameSite: http.SameSiteLaxMode,
	})
	if err != nil {
		return err
	}

	redirectURI := h.google.RedirectURL
	if preserved := c.QueryParam("redirect"); preserved != "" {
		redirectURI += "?redirect=" + url.QueryEscape(preserved)
	}

	q := url.Values{}
	q.Set("client_id", h.google.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)

	return c.Redirect(http.StatusFound, h.google.AuthURL+"?"+q.Encode())
}

// Authorize is the OAuth landing: verify the state nonce, restore the
// preserved destination, exchange the authorization code, and install the
// session. Any failure tears the session down and redirects; the caller
// never sees an error page.
func (h *AuthHandler) Authorize(c echo.Context) error {
	jar := cookies.NewEchoJar(c)
	dest := h.decodeDestination(c.QueryParam("redirect"))

	// Already signed in: skip the exchange and go straight through.
	if h.store.IsAuthenticated(jar) {
		if dest == "" {
			dest = h.defaultRedirect
		}
		return c.Redirect(http.StatusSeeOther, dest)
	}

	if !h.stateMatches(c, jar) {
		h.log.Warn().Msg("oauth state mismatch, rejecting authorization")
		h.store.Logout(jar)
		return c.Redirect(http.StatusSeeOther, h.loginPath)
	}

	resp, err := h.svc.LoginWithGoogle(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		h.log.Error().Err(err).Msg("google login failed")
		h.store.Logout(jar)
		return c.Redirect(http.StatusSeeOther, "/logout")
	}

	if err := h.store.Login(jar, resp.Tokens.AccessToken, resp.Tokens.RefreshToken); err != nil {
		return err
	}

	if dest == "" {
		dest = h.defaultRedirect
	}
	return c.Redirect(http.StatusSeeOther, dest)
}

// Me returns the user the gate resolved for this request.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// ChangePassword forwards the password change to the backend with the
// session's access token.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req domain.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.ChangePassword(c.Request().Context(), ctxAccessToken(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// decodeDestination soft-decodes the redirect parameter. Malformed values
// and destinations that are not local absolute paths fall back to "".
func (h *AuthHandler) decodeDestination(param string) string {
	dest, ok := middleware.DecodeRedirect(param)
	if !ok {
		return ""
	}
	if !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		return ""
	}
	return dest
}

// stateMatches verifies the state nonce when both sides are present, and
// clears the nonce cookie. Flows started outside GoogleStart carry no
// cookie and pass unchecked, matching the pre-nonce behavior.
func (h *AuthHandler) stateMatches(c echo.Context, jar cookies.Jar) bool {
	expected, ok := jar.Get(stateCookieName)
	if ok {
		_ = jar.Delete(stateCookieName, cookies.CookieOptions{Path: "/"})
	}
	if !ok || expected == "" {
		return true
	}
	return c.QueryParam("state") == expected
}

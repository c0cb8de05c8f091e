// Package cookies implements the cookie-backed session store: two HTTP-only
// cookies carrying the opaque access and refresh tokens.
package cookies

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CookieOptions are the attributes applied when writing or deleting a cookie.
type CookieOptions struct {
	MaxAge   int
	Path     string
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

// Jar is the capability the store needs from a cookie carrier. The request
// side answers Get; Set and Delete stage response headers. Tests substitute
// in-memory fakes.
type Jar interface {
	Get(name string) (string, bool)
	Set(name, value string, opts CookieOptions) error
	Delete(name string, opts CookieOptions) error
}

// echoJar adapts an echo.Context to the Jar interface.
type echoJar struct {
	c echo.Context
}

// NewEchoJar wraps a request context as a Jar.
func NewEchoJar(c echo.Context) Jar {
	return &echoJar{c: c}
}

func (j *echoJar) Get(name string) (string, bool) {
	ck, err := j.c.Cookie(name)
	if err != nil || ck == nil {
		return "", false
	}
	return ck.Value, true
}

func (j *echoJar) Set(name, value string, opts CookieOptions) error {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   opts.MaxAge,
		Path:     opts.Path,
		HttpOnly: opts.HTTPOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
		Domain:   opts.Domain,
	}
	if err := ck.Valid(); err != nil {
		return err
	}
	j.c.SetCookie(ck)
	return nil
}

func (j *echoJar) Delete(name string, opts CookieOptions) error {
	ck := &http.Cookie{
		Name:     name,
		Value:    "",
		MaxAge:   -1,
		Path:     opts.Path,
		Domain:   opts.Domain,
		HttpOnly: true,
	}
	if err := ck.Valid(); err != nil {
		return err
	}
	j.c.SetCookie(ck)
	return nil
}

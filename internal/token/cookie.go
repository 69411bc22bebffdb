package token

import (
	"net/http"
	"net/url"
	"strings"
)

// CookieName is the cookie carrying the serialized session token.
const CookieName = "jwt_token"

// ExtractToken finds the session token in a raw Cookie header. The header is
// parsed as semicolon-delimited name=value pairs, each possibly surrounded by
// whitespace. Values are percent-decoded; when decoding fails the raw value
// is used instead of reporting an error.
func ExtractToken(cookieHeader string) (string, bool) {
	if cookieHeader == "" {
		return "", false
	}

	for _, part := range strings.Split(cookieHeader, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found || name != CookieName {
			continue
		}
		if value == "" {
			return "", false
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			return decoded, true
		}
		return value, true
	}

	return "", false
}

// Carrier attaches session tokens to responses as cookies with the security
// attributes the session design requires.
type Carrier struct {
	secure bool
}

// NewCarrier creates a carrier. secure controls the cookie's Secure attribute
// and should be true in production.
func NewCarrier(secure bool) *Carrier {
	return &Carrier{secure: secure}
}

// Attach sets the session cookie on the response. Calling it again replaces
// any previously attached token instead of adding a second cookie.
func (c *Carrier) Attach(w http.ResponseWriter, token string) {
	c.dropExisting(w)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie on the client.
func (c *Carrier) Clear(w http.ResponseWriter) {
	c.dropExisting(w)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// dropExisting removes any Set-Cookie entries for the session cookie so a
// repeated Attach stays idempotent.
func (c *Carrier) dropExisting(w http.ResponseWriter) {
	existing := w.Header().Values("Set-Cookie")
	if len(existing) == 0 {
		return
	}
	w.Header().Del("Set-Cookie")
	for _, line := range existing {
		if !strings.HasPrefix(line, CookieName+"=") {
			w.Header().Add("Set-Cookie", line)
		}
	}
}

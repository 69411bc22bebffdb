package token

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
		found    bool
	}{
		{
			name:     "Single session cookie",
			header:   "jwt_token=abc123",
			expected: "abc123",
			found:    true,
		},
		{
			name:     "Among other cookies",
			header:   "foo=bar; jwt_token=abc123; baz=qux",
			expected: "abc123",
			found:    true,
		},
		{
			name:     "Leading whitespace around pair",
			header:   "foo=bar;   jwt_token=abc123",
			expected: "abc123",
			found:    true,
		},
		{
			name:     "Percent-encoded value",
			header:   "jwt_token=abc%3D%3D123",
			expected: "abc==123",
			found:    true,
		},
		{
			name:     "Broken percent encoding falls back to raw",
			header:   "jwt_token=abc%GGdef",
			expected: "abc%GGdef",
			found:    true,
		},
		{
			name:   "Empty header",
			header: "",
			found:  false,
		},
		{
			name:   "No session cookie",
			header: "foo=bar; baz=qux",
			found:  false,
		},
		{
			name:   "Empty value",
			header: "jwt_token=",
			found:  false,
		},
		{
			name:   "Name is a prefix of another cookie",
			header: "jwt_token_old=abc123",
			found:  false,
		},
		{
			name:   "Pair without equals sign",
			header: "jwt_token",
			found:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found := ExtractToken(tt.header)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestCarrier_Attach(t *testing.T) {
	carrier := NewCarrier(true)
	rec := httptest.NewRecorder()

	carrier.Attach(rec, "token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(TTL.Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestCarrier_AttachNotSecureInDevelopment(t *testing.T) {
	carrier := NewCarrier(false)
	rec := httptest.NewRecorder()

	carrier.Attach(rec, "token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure)
}

func TestCarrier_AttachTwiceReplacesCookie(t *testing.T) {
	carrier := NewCarrier(false)
	rec := httptest.NewRecorder()

	carrier.Attach(rec, "first")
	carrier.Attach(rec, "second")

	var sessionCookies []*http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == CookieName {
			sessionCookies = append(sessionCookies, cookie)
		}
	}

	require.Len(t, sessionCookies, 1)
	assert.Equal(t, "second", sessionCookies[0].Value)
}

func TestCarrier_AttachKeepsUnrelatedCookies(t *testing.T) {
	carrier := NewCarrier(false)
	rec := httptest.NewRecorder()

	http.SetCookie(rec, &http.Cookie{Name: "other", Value: "keep-me", Path: "/"})
	carrier.Attach(rec, "token-value")

	names := make(map[string]string)
	for _, cookie := range rec.Result().Cookies() {
		names[cookie.Name] = cookie.Value
	}

	assert.Equal(t, "keep-me", names["other"])
	assert.Equal(t, "token-value", names[CookieName])
}

func TestCarrier_Clear(t *testing.T) {
	carrier := NewCarrier(false)
	rec := httptest.NewRecorder()

	carrier.Attach(rec, "token-value")
	carrier.Clear(rec)

	var sessionCookies []*http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == CookieName {
			sessionCookies = append(sessionCookies, cookie)
		}
	}

	require.Len(t, sessionCookies, 1)
	assert.Empty(t, sessionCookies[0].Value)
	assert.Equal(t, -1, sessionCookies[0].MaxAge)
}

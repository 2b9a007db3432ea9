package httpx

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csrfCookieToken = "cookie-token"

// csrfProbe wraps a handler that records whether it ran and the token it saw.
type csrfProbe struct {
	called bool
	token  string
}

func (p *csrfProbe) handler(cfg CSRFConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	return CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.token = GetCSRFToken(r)
		w.WriteHeader(http.StatusOK)
	}))
}

func csrfCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

func TestCSRFProtection_Submissions(t *testing.T) {
	form := func(token string) string {
		return url.Values{"name": {"Engineer"}, "csrf_token": {token}}.Encode()
	}

	tests := []struct {
		name        string
		method      string
		cookie      string
		header      string
		contentType string
		body        string
		wantStatus  int
	}{
		{name: "GET passes without token", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "HEAD passes", method: http.MethodHead, wantStatus: http.StatusOK},
		{name: "OPTIONS passes", method: http.MethodOptions, wantStatus: http.StatusOK},
		{name: "POST without cookie", method: http.MethodPost, header: csrfCookieToken, wantStatus: http.StatusForbidden},
		{name: "POST without submitted token", method: http.MethodPost, cookie: csrfCookieToken, wantStatus: http.StatusForbidden},
		{name: "POST with matching header", method: http.MethodPost, cookie: csrfCookieToken, header: csrfCookieToken, wantStatus: http.StatusOK},
		{name: "POST with mismatched header", method: http.MethodPost, cookie: csrfCookieToken, header: "other", wantStatus: http.StatusForbidden},
		{
			name: "POST with matching form field", method: http.MethodPost, cookie: csrfCookieToken,
			contentType: "application/x-www-form-urlencoded", body: form(csrfCookieToken), wantStatus: http.StatusOK,
		},
		{
			name: "form field ignored for JSON body", method: http.MethodPost, cookie: csrfCookieToken,
			contentType: "application/json", body: `{"csrf_token":"cookie-token"}`, wantStatus: http.StatusForbidden,
		},
		{
			name: "header wins over form field", method: http.MethodPost, cookie: csrfCookieToken, header: "other",
			contentType: "application/x-www-form-urlencoded", body: form(csrfCookieToken), wantStatus: http.StatusForbidden,
		},
		{name: "DELETE is checked", method: http.MethodDelete, cookie: csrfCookieToken, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var probe csrfProbe
			req := httptest.NewRequest(tt.method, "/job-roles", strings.NewReader(tt.body))
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(DefaultCSRFHeaderName, tt.header)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			probe.handler(CSRFConfig{}).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, probe.called)
		})
	}
}

func TestCSRFProtection_IssuesCookie(t *testing.T) {
	tests := []struct {
		name       string
		prepare    func(*http.Request)
		wantSecure bool
	}{
		{name: "plain http", prepare: func(*http.Request) {}},
		{name: "tls", prepare: func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, wantSecure: true},
		{name: "forwarded https", prepare: func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https, http") }, wantSecure: true},
		{name: "forwarded http", prepare: func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "http") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var probe csrfProbe
			req := httptest.NewRequest(http.MethodGet, "/posts", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			probe.handler(CSRFConfig{CookieDomain: "records.example.com"}).ServeHTTP(rec, req)

			cookie := csrfCookieFrom(t, rec)
			require.NotNil(t, cookie, "expected a csrf cookie")
			assert.NotEmpty(t, cookie.Value)
			assert.Equal(t, cookie.Value, probe.token, "handler sees the issued token")
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, "records.example.com", cookie.Domain)
			assert.False(t, cookie.HttpOnly, "htmx must be able to read the token")
			assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
			assert.Equal(t, tt.wantSecure, cookie.Secure)
			assert.Positive(t, cookie.MaxAge)
		})
	}
}

func TestCSRFProtection_KeepsExistingCookie(t *testing.T) {
	var probe csrfProbe
	req := httptest.NewRequest(http.MethodGet, "/job-roles", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfCookieToken})
	rec := httptest.NewRecorder()
	probe.handler(CSRFConfig{}).ServeHTTP(rec, req)

	assert.Nil(t, csrfCookieFrom(t, rec), "no new cookie when one is present")
	assert.Equal(t, csrfCookieToken, probe.token)
}

func TestCSRFProtection_TokensAreUnique(t *testing.T) {
	seen := map[string]bool{}
	var probe csrfProbe
	h := probe.handler(CSRFConfig{TokenLength: 16})
	for range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		cookie := csrfCookieFrom(t, rec)
		require.NotNil(t, cookie)
		assert.False(t, seen[cookie.Value], "token reused")
		seen[cookie.Value] = true
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestCSRFProtection_HTMXRejectionToasts(t *testing.T) {
	var probe csrfProbe
	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	req.Header.Set("Hx-Request", "true")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: csrfCookieToken})
	rec := httptest.NewRecorder()
	probe.handler(CSRFConfig{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, probe.called)
	got := rec.Header().Get("Hx-Trigger")
	assert.Contains(t, got, EventShowToast)
	assert.Contains(t, got, "session expired")
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walidBc-blip/finance-dashboard/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestGetCSRFTokenSetsCookieAndHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	GetCSRFToken(rec, httptest.NewRequest(http.MethodGet, "/api/auth/csrf", nil))

	res := rec.Result()
	defer res.Body.Close()

	token := res.Header.Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == csrfCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestCSRFMiddlewareAllowsSafeMethods(t *testing.T) {
	next, called := okHandler()
	mw := CSRFMiddleware([]byte("csrf-test-key"))(next)

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMiddlewareRejectsMissingToken(t *testing.T) {
	next, called := okHandler()
	mw := CSRFMiddleware([]byte("csrf-test-key"))(next)

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))

	assert.False(t, *called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFMiddlewareAcceptsMatchingPair(t *testing.T) {
	next, called := okHandler()
	mw := CSRFMiddleware([]byte("csrf-test-key"))(next)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", nil)
	req.Header.Set("X-CSRF-Token", "tok-123")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok-123"})

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMiddlewareRejectsMismatchedPair(t *testing.T) {
	next, called := okHandler()
	mw := CSRFMiddleware([]byte("csrf-test-key"))(next)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", nil)
	req.Header.Set("X-CSRF-Token", "tok-123")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok-456"})

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

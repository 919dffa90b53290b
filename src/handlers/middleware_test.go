package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walidBc-blip/finance-dashboard/src/logger"
)

func TestGetUserIDFromContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), userIDContextKey, int64(7))
	userID, ok := GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), userID)
}

func TestContextualLoggerMiddleware(t *testing.T) {
	var sawRequestID string
	var sawLogger bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := r.Context().Value(requestIDContextKey).(string); ok {
			sawRequestID = id
		}
		sawLogger = logger.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	ContextualLoggerMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, sawRequestID)
	assert.True(t, sawLogger)
}

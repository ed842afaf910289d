package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error { return f.err }

func healthRouter(p Pinger) *gin.Engine {
	r := gin.New()
	h := NewHealthHandler(p, "user-records-api")
	r.GET("/health", h.Check)
	return r
}

func TestHealthDatabaseConnected(t *testing.T) {
	r := healthRouter(fakePinger{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "user-records-api", body["service"])
	assert.Equal(t, "connected", body["database"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealthDatabaseDown(t *testing.T) {
	r := healthRouter(fakePinger{err: errors.New("dial refused")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Liveness stays 200; only the database field degrades.
	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "disconnected", body["database"])
}

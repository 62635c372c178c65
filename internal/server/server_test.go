package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mindguard/internal/config"
	"mindguard/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerHandlerServesRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(config.ServerConfig{Addr: "127.0.0.1:0", SessionTTL: time.Minute}, &fakePipeline{moods: pkg.MoodLog{}}, zerolog.Nop())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/moods", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(config.ServerConfig{Addr: "127.0.0.1:0", SessionTTL: time.Minute}, &fakePipeline{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

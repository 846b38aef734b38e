package server

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type helloController struct{}

func (helloController) Key() string { return "/hello" }

func (helloController) Register(r *mux.Router) {
	r.HandleFunc("/hello", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, strings.Repeat("hello ", 400))
	}).Methods(http.MethodGet)
}

func TestHTTPServer_RoutesAndCompresses(t *testing.T) {
	s := NewHTTPServer(nil, helloController{})

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(body), "hello hello"))

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hello", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHTTPServer_AppliesMiddlewares(t *testing.T) {
	s := NewHTTPServer(nil, helloController{})
	s.Middlewares = append(s.Middlewares, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Seen", "1")
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-Seen"))
}

func TestHTTPServer_WebsocketUpgradeSkipsGzip(t *testing.T) {
	s := NewHTTPServer(nil, helloController{})

	req := httptest.NewRequest(http.MethodGet, "/hello", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Content-Encoding"))
}

func TestHTTPServer_StartRunsShutdownHooks(t *testing.T) {
	s := NewHTTPServer(nil, helloController{})
	var hooks []string
	s.OnShutdown = append(s.OnShutdown,
		func() { hooks = append(hooks, "streams") },
		func() { hooks = append(hooks, "cache") },
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Start(ctx, "127.0.0.1:0"))
	require.Equal(t, []string{"streams", "cache"}, hooks)
}

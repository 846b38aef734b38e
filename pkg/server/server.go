package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Controller mounts its routes on the router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

const shutdownTimeout = 5 * time.Second

func NewHTTPServer(log *logrus.Logger, controllers ...Controller) *HTTPServer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HTTPServer{
		Controllers: controllers,
		log:         log.WithField("component", "http"),
	}
}

type HTTPServer struct {
	Controllers []Controller
	Middlewares []mux.MiddlewareFunc
	// OnShutdown runs before the listener is shut down, for connections
	// such as websockets that Shutdown does not track.
	OnShutdown []func()
	log        *logrus.Entry
}

func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.Middlewares...)
	for _, controller := range s.Controllers {
		controller.Register(r)
	}
	return r
}

// Handler compresses responses. Websocket upgrades go to the router
// directly since the gzip writer cannot be hijacked.
func (s *HTTPServer) Handler() http.Handler {
	router := s.Router()
	compressed := gziphandler.GzipHandler(router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			router.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
}

// Start serves until ctx is cancelled and then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context, socketAddress string) error {
	srv := &http.Server{
		Addr:              socketAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", socketAddress).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	for _, fn := range s.OnShutdown {
		fn()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

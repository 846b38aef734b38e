package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const DefaultPath = "/debug/prometheus"

// PrometheusController exposes a gatherer on the watch server.
type PrometheusController struct {
	path     string
	gatherer prometheus.Gatherer
	log      logrus.FieldLogger
}

type Option func(*PrometheusController)

// WithGatherer serves g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *PrometheusController) { c.gatherer = g }
}

// WithLogger reports scrape errors on log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *PrometheusController) { c.log = log }
}

func NewPrometheusController(path string, opts ...Option) *PrometheusController {
	if path == "" {
		path = DefaultPath
	}
	c := &PrometheusController{
		path:     path,
		gatherer: prometheus.DefaultGatherer,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	h := promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{
		ErrorLog:          c.log.WithField("component", "metrics"),
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	})
	r.Handle(c.path, h).Methods(http.MethodGet, http.MethodHead)
}

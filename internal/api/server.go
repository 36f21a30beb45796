// Package api exposes the activity registry over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/metrics"
	"mergington-activities/internal/common/observability"
	"mergington-activities/internal/events"
	"mergington-activities/internal/registry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Roster is the registry surface the HTTP layer needs.
type Roster interface {
	ListActivities() map[string]registry.Activity
	SignUp(activityName, participantID string) (registry.Enrollment, error)
	Unregister(activityName, participantID string) (registry.Enrollment, error)
}

// ReadinessCheck reports whether a backing dependency is usable.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	roster    Roster
	publisher events.Publisher
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
	obs       *observability.Observability
	staticDir string
	checks    map[string]ReadinessCheck
	gatherer  prometheus.Gatherer
}

type Option func(*Server)

// WithPublisher sets where committed roster changes are announced.
func WithPublisher(p events.Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

func WithObservability(obs *observability.Observability) Option {
	return func(s *Server) { s.obs = obs }
}

// WithStaticDir serves dir under /static. Empty disables static files.
func WithStaticDir(dir string) Option {
	return func(s *Server) { s.staticDir = dir }
}

// WithMetricsGatherer sets what /metrics exposes. Defaults to the global
// Prometheus registry.
func WithMetricsGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

func New(roster Roster, log logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{
		roster:    roster,
		publisher: events.Nop(),
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
		checks:    make(map[string]ReadinessCheck),
		gatherer:  prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	for name, a := range roster.ListActivities() {
		metrics.RosterSize.WithLabelValues(name).Set(float64(len(a.Participants)))
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.UseRawPath = true
	r.Use(gin.Recovery(), requestLogger(s.logger), requestMetrics(s.obs))

	r.GET("/", s.root)
	if s.staticDir != "" {
		r.Static("/static", s.staticDir)
	}

	r.GET("/activities", s.listActivities)
	r.POST("/activities/:activity_name/signup", s.signUp)
	r.POST("/activities/:activity_name/unregister", s.unregister)

	r.GET("/health", s.health)
	r.GET("/ready", s.ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	return r
}

func (s *Server) root(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "/static/index.html")
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := make(map[string]string)
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		s.logger.Warn("Readiness check failed", map[string]interface{}{"checks": failed})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

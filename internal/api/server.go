// Package api serves the report engine over HTTP with gin.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"classreport/internal/logging"
	"classreport/internal/matrix"
	"classreport/internal/metrics"
	"classreport/internal/record"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Options are the tunables the handlers read from configuration.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxUploadBytes  int64
	SheetNameLimit  int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		DefaultPageSize: 50,
		MaxPageSize:     500,
		MaxUploadBytes:  32 << 20,
		SheetNameLimit:  20,
	}
}

// Server owns the record store that all handlers share.
type Server struct {
	store   *record.Store
	agg     matrix.Aggregator
	opts    Options
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New returns a Server over store. m may be nil.
func New(store *record.Store, opts Options, m *metrics.Metrics) *Server {
	return &Server{
		store:   store,
		agg:     matrix.New(store.Validator().Classes),
		opts:    opts,
		metrics: m,
		log:     logging.New("api"),
	}
}

// Handler builds the gin engine with middleware and routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.accessLog())
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all API routes.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/data/upload", s.Upload)
		api.POST("/data/detail", s.Detail)
		api.GET("/filters/options", s.FilterOptions)
		api.POST("/report/generate", s.GenerateReport)
		api.POST("/report/text", s.ReportText)
		api.POST("/export/excel", s.ExportExcel)
	}

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		code := c.Writer.Status()
		s.metrics.ObserveRequest(route, c.Request.Method, code, elapsed)

		level := slog.LevelInfo
		if code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.log.Log(c.Request.Context(), level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", code),
			slog.Duration("elapsed", elapsed),
			slog.String("request_id", c.GetString("request_id")),
		)
	}
}

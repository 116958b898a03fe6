// Package logger builds the process-wide zap logger and the gin
// middleware that stamps every request with an id and a structured
// access log entry.
package logger

import (
	"context"
	"strings"
	"time"

	"github.com/X-CodesTech/wassel-api/internal/config"
	"github.com/X-CodesTech/wassel-api/internal/requestcontext"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("logger",
	fx.Provide(New),
)

// New builds the root logger. Production gets JSON, everything else a
// console encoder. The logger is also installed as zap's global so
// FromContext works outside fx-wired code.
func New(cfg *config.Config) (*zap.Logger, error) {
	var base *zap.Logger
	var err error
	if cfg.IsProduction() {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	base = base.With(
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Environment),
	)
	zap.ReplaceGlobals(base)
	return base, nil
}

// FromContext returns the global logger enriched with the request id
// and the current trace and span ids when a recording span is present.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	if ctx == nil {
		return log
	}

	if requestID := requestcontext.RequestIDFromContext(ctx); requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}

	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		log = log.With(zap.String("trace_id", sc.TraceID().String()))
	}
	if sc.HasSpanID() {
		log = log.With(zap.String("span_id", sc.SpanID().String()))
	}
	return log
}

// MiddlewareConfig tunes the access-log middleware.
type MiddlewareConfig struct {
	// SkipPaths lists exact paths that never log, e.g. health checks.
	SkipPaths []string
}

const requestIDHeader = "X-Request-Id"

// GinMiddleware assigns each request an id, echoes it back in the
// response headers and writes one access log entry per request with
// sensitive headers masked.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[strings.TrimSpace(p)] = true
	}

	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Set("request_id", requestID)

		ctx := requestcontext.WithRequestID(c.Request.Context(), requestID)
		ctx = requestcontext.WithIPAddress(ctx, c.ClientIP())
		ctx = requestcontext.WithUserAgent(ctx, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		FromContext(c.Request.Context()).Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Any("headers", MaskHeaders(c.Request.Header)),
		)
	}
}

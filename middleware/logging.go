package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/certpanel/certpanel/core/handler"
	"github.com/certpanel/certpanel/core/logger"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Logger receives the log records (default: slog.Default()).
	Logger *slog.Logger

	// Skip disables logging for matching requests, typically health probes.
	Skip func(ctx handler.Context) bool

	// SlowRequestThreshold raises the log level to warn for requests
	// taking longer (default: 5s).
	SlowRequestThreshold time.Duration
}

// Logging creates a request logging middleware with default configuration.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a request logging middleware that records
// method, path, status, response size, and duration for each completed
// request. Server errors log at error level, client errors at warn.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			req := ctx.Request()
			requestID, _ := GetRequestID(ctx)

			response := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
				err := response(wrapped, r)
				duration := time.Since(start)

				attrs := []slog.Attr{
					logger.Component("http"),
					logger.Method(req.Method),
					logger.Path(req.URL.Path),
					logger.StatusCode(wrapped.statusCode),
					logger.BytesOut(wrapped.size),
					logger.Duration(duration),
				}
				if requestID != "" {
					attrs = append(attrs, logger.RequestID(requestID))
				}

				level := slog.LevelInfo
				switch {
				case wrapped.statusCode >= 500:
					level = slog.LevelError
					if err != nil {
						attrs = append(attrs, logger.Error(err))
					}
				case wrapped.statusCode >= 400:
					level = slog.LevelWarn
				case duration > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}

				cfg.Logger.LogAttrs(req.Context(), level, "request completed", attrs...)
				return err
			}
		}
	}
}

// statusWriter captures the status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	statusCode    int
	size          int
	headerWritten bool
}

func (sw *statusWriter) WriteHeader(statusCode int) {
	if !sw.headerWritten {
		sw.statusCode = statusCode
		sw.headerWritten = true
	}
	sw.ResponseWriter.WriteHeader(statusCode)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.headerWritten {
		sw.headerWritten = true
	}
	n, err := sw.ResponseWriter.Write(b)
	sw.size += n
	return n, err
}

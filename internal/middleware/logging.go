package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gigboard/marketplace-api/internal/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggerHolder is shared between Logging and inner middleware so attrs
// resolved later in the chain, like profile_id, reach the completion line.
type loggerHolder struct {
	logger *slog.Logger
}

type loggerHolderKey struct{}

// EnrichLogger rebinds the request-scoped logger with extra attrs. Downstream
// code sees the enriched logger via logging.FromContext, and the completion
// line written by Logging carries the attrs as well.
func EnrichLogger(ctx context.Context, attrs ...any) context.Context {
	logger := logging.FromContext(ctx).With(attrs...)
	if h, ok := ctx.Value(loggerHolderKey{}).(*loggerHolder); ok {
		h.logger = logger
	}
	return logging.WithLogger(ctx, logger)
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/health") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		logger := slog.Default().With("request_id", TraceIDFromContext(r.Context()))
		holder := &loggerHolder{logger: logger}
		ctx := logging.WithLogger(r.Context(), logger)
		ctx = context.WithValue(ctx, loggerHolderKey{}, holder)
		r = r.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		holder.logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

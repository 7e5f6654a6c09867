package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/m-mizutani/freshness/pkg/domain/types"
	"github.com/m-mizutani/freshness/pkg/utils/logging"
)

const requestIDHeader = "X-Request-Id"

func preProcess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := types.RequestID(r.Header.Get(requestIDHeader))
		if reqID == "" {
			reqID = types.NewRequestID()
		}
		w.Header().Set(requestIDHeader, reqID.String())

		logger := logging.Default().With(slog.String("request_id", reqID.String()))
		ctx := logging.With(r.Context(), logger)
		ctx = logging.CtxWithRequestID(ctx, reqID)

		lw := &statusCodeLogger{
			ResponseWriter: w,
			statusCode:     http.StatusOK, // Default to 200 if WriteHeader is not called
		}

		requestedAt := time.Now()
		next.ServeHTTP(lw, r.WithContext(ctx))

		logger.Info("http access",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.Int("status_code", lw.statusCode),
			slog.String("user_agent", r.UserAgent()),
			slog.String("referer", r.Referer()),
			slog.Duration("elapsed", time.Since(requestedAt)),
		)
	})
}

type statusCodeLogger struct {
	http.ResponseWriter
	statusCode int
}

func (x *statusCodeLogger) WriteHeader(code int) {
	x.statusCode = code
	x.ResponseWriter.WriteHeader(code)
}

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger - лог каждого запроса через zap. Ставится после chi RequestID,
// чтобы request_id попал в запись
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	log = log.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("took", time.Since(start)),
					zap.String("remote", r.RemoteAddr),
				}
				if id := chimw.GetReqID(r.Context()); id != "" {
					fields = append(fields, zap.String("request_id", id))
				}

				if status >= http.StatusInternalServerError {
					log.Warn("request", fields...)
					return
				}
				log.Info("request", fields...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

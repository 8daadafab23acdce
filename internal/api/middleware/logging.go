package middleware

import (
	"net/http"
	"time"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Logging пишет строку лога на каждый запрос
func Logging(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start).Round(time.Microsecond)
			id := RequestIDFrom(r.Context())
			switch {
			case rec.status >= http.StatusInternalServerError:
				log.Error("%s %s - %d in %s [request_id=%s]", r.Method, r.URL.Path, rec.status, duration, id)
			case rec.status >= http.StatusBadRequest:
				log.Warn("%s %s - %d in %s [request_id=%s]", r.Method, r.URL.Path, rec.status, duration, id)
			default:
				log.Info("%s %s - %d in %s [request_id=%s]", r.Method, r.URL.Path, rec.status, duration, id)
			}
		})
	}
}

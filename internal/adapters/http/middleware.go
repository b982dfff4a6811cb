package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type ctxKeyRequestID struct{}

// RequestID returns the correlation id assigned to the request, so a
// question can be traced from the access log through collaborator retries.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}

func correlate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}

		r = r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID{}, id))
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		trace := &responseTrace{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(trace, r)

		attrs := []any{
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", trace.status,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"bytes_out", trace.bytes,
			"client", clientAddr(r),
		}

		switch {
		case trace.status >= 500:
			slog.Error("request_completed", attrs...)
		case trace.status >= 400:
			slog.Warn("request_completed", attrs...)
		default:
			slog.Info("request_completed", attrs...)
		}
	})
}

// responseTrace captures status and size for the access log. Every endpoint
// returns buffered JSON, so nothing fancier than WriteHeader/Write needs
// proxying.
type responseTrace struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (t *responseTrace) WriteHeader(status int) {
	t.status = status
	t.ResponseWriter.WriteHeader(status)
}

func (t *responseTrace) Write(b []byte) (int, error) {
	n, err := t.ResponseWriter.Write(b)
	t.bytes += n
	return n, err
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

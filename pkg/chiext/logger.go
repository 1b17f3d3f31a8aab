package chiext

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger emits one slog line per request through the process handler.
func Logger() func(next http.Handler) http.Handler {
	return middleware.RequestLogger(&slogFormatter{})
}

type slogFormatter struct{}

// NewLogEntry creates a new LogEntry for the request.
func (f *slogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	attrs := []any{}

	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		attrs = append(attrs, slog.String("request", reqID))
	}
	attrs = append(attrs, slog.String("from", r.RemoteAddr))

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return &slogEntry{
		attrs: attrs,
		msg:   fmt.Sprintf("%s %s://%s%s %s", r.Method, scheme, r.Host, r.RequestURI, r.Proto),
	}
}

type slogEntry struct {
	attrs []any
	msg   string
}

func (e *slogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	attrs := append(e.attrs,
		slog.Int("status", status),
		slog.Int("bytes", bytes),
		slog.String("elapsed", elapsed.String()),
	)

	if status >= http.StatusInternalServerError {
		slog.Error(e.msg, attrs...)
		return
	}
	slog.Info(e.msg, attrs...)
}

func (e *slogEntry) Panic(v interface{}, stack []byte) {
	middleware.PrintPrettyStack(v)
}

package argserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger is chi request-logging middleware writing to logger. It
// records the path but never the query string, which holds plaintext pairs
// on /encrypt and tokens on /decrypt.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&accessLogFormatter{log: logger})
}

type accessLogFormatter struct {
	log *slog.Logger
}

func (f *accessLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &accessLogEntry{
		log: f.log.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		),
	}
}

type accessLogEntry struct {
	log *slog.Logger
}

func (e *accessLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra any) {
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	e.log.Log(context.Background(), level, "request", "status", status, "bytes", bytes, "elapsed", elapsed)
}

func (e *accessLogEntry) Panic(v any, stack []byte) {
	e.log.Error("request panicked", "panic", fmt.Sprint(v), "stack", string(stack))
}

// Package logger owns the process-wide zap logger and the request logging
// middleware of the devserver.
package logger

import (
	"errors"
	"net/http"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Log discards everything until Init replaces it, so packages may log
// before the configuration is loaded.
var Log = zap.NewNop().Sugar()

// Init installs a development-style logger at level, one of debug, info,
// warn, error or fatal.
func Init(level string) error {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = atomicLevel
	built, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = built.Sugar()

	return nil
}

// Sync flushes Log before exit.
func Sync() error {
	err := Log.Sync()
	// stdout and stderr cannot be synced when attached to a terminal or pipe
	if err == nil || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) ||
		errors.Is(err, os.ErrInvalid) || errors.Is(err, os.ErrClosed) {
		return nil
	}

	return err
}

// recordingWriter remembers the status and the body size of a response.
type recordingWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *recordingWriter) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *recordingWriter) Write(b []byte) (int, error) {
	written, err := r.ResponseWriter.Write(b)
	r.size += written

	return written, err
}

// WithLoggingHTTPMiddleware logs one line per request, tagged with the
// client's X-Request-ID.
func WithLoggingHTTPMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &recordingWriter{ResponseWriter: w, status: http.StatusOK}

		h.ServeHTTP(recorder, r)

		Log.Infow("request served",
			"uri", r.RequestURI,
			"method", r.Method,
			"request_id", r.Header.Get("X-Request-ID"),
			"status", recorder.status,
			"duration", time.Since(start),
			"size", recorder.size,
		)
	})
}

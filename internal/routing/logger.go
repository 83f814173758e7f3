package routing

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pelyams/car_catalog_service/internal/domain"
)

const (
	RequestIDHeader = "X-Request-Id"
	maxLoggedBody   = 4 << 10
)

type Logger struct {
	file   *os.File
	logger *log.Logger
}

// NewLogger writes request logs to fileName and stdout. An empty fileName
// logs to stdout only.
func NewLogger(fileName string) (*Logger, error) {
	if fileName == "" {
		return NewLoggerWithWriter(os.Stdout), nil
	}
	file, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	mw := io.MultiWriter(file, os.Stdout)
	return &Logger{
		file:   file,
		logger: log.New(mw, "", log.LstdFlags),
	}, nil
}

func NewLoggerWithWriter(w io.Writer) *Logger {
	return &Logger{logger: log.New(w, "", log.LstdFlags)}
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) Printf(format string, v ...any) {
	l.logger.Printf(format, v...)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (l *Logger) LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)

		errContainer := domain.NewErrorContainer()
		body := "none"
		if r.Method != http.MethodGet && r.Method != http.MethodDelete && r.Body != nil {
			bodyBytes, err := io.ReadAll(r.Body)
			r.Body.Close()
			if err != nil {
				errContainer.Add(fmt.Errorf("logger error: failed to read request body: %w", err))
				body = "failed to read body"
			} else {
				body = truncate(string(bodyBytes), maxLoggedBody)
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		ctx := domain.WithErrorContainer(r.Context(), errContainer)
		next.ServeHTTP(rec, r.WithContext(ctx))
		duration := time.Since(started)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		if errs := errContainer.Unwrap(); len(errs) > 0 {
			l.logger.Printf(
				"Request: %s | ERROR | Method: %s | Path: %s | Status: %d | Body: %s | Duration: %v | Error(s):\n",
				reqID,
				r.Method,
				r.URL.RequestURI(),
				rec.status,
				body,
				duration)
			for i, err := range errs {
				l.logger.Printf(" %d. %v\n", i+1, err)
			}
			return
		}
		l.logger.Printf(
			"Request: %s | OK | Method: %s | Path: %s | Status: %d | Body: %s | Duration: %v\n",
			reqID,
			r.Method,
			r.URL.RequestURI(),
			rec.status,
			body,
			duration)
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

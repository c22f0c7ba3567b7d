package audit

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"call-data-gen/internal/auth"
)

const maxDigestBody = 1 << 20

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Middleware records an audit entry for every generation request.
func Middleware(logger Logger, appLog *zap.Logger, next http.Handler) http.Handler {
	if appLog == nil {
		appLog = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if logger == nil || !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		var digest string
		if r.Body != nil {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxDigestBody))
			if err == nil {
				digest = DigestJSON(body)
				r.Body = io.NopCloser(bytes.NewReader(body))
			}
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		entry := Entry{
			ID:            NewID(),
			Actor:         auth.UserFromContext(r.Context()),
			Action:        actionFor(r.URL.Path),
			Method:        r.Method,
			Path:          r.URL.Path,
			Status:        sw.status,
			PayloadDigest: digest,
			IP:            ClientIP(r),
			UserAgent:     r.UserAgent(),
			CreatedAt:     time.Now().UTC(),
		}
		if err := logger.Log(r.Context(), entry); err != nil {
			appLog.Warn("audit log failed", zap.Error(err), zap.String("path", r.URL.Path))
		}
	})
}

func actionFor(path string) string {
	switch {
	case strings.HasSuffix(path, "/generateKpiData"):
		return "generate.kpi"
	case strings.HasSuffix(path, "/generateCdrData"):
		return "generate.cdr"
	default:
		return "api.request"
	}
}

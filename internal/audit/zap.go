package audit

import (
	"context"

	"go.uber.org/zap"
)

// ZapLogger writes audit entries to the application log. It stands in when
// no audit database is configured.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger constructs a log-backed audit logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger}
}

// Log emits the entry as a structured log line.
func (l *ZapLogger) Log(_ context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = NewID()
	}
	l.logger.Info("audit",
		zap.String("audit_id", entry.ID),
		zap.String("actor", entry.Actor),
		zap.String("action", entry.Action),
		zap.String("method", entry.Method),
		zap.String("path", entry.Path),
		zap.Int("status", entry.Status),
		zap.String("payload_digest", entry.PayloadDigest),
		zap.String("ip", entry.IP),
		zap.String("user_agent", entry.UserAgent),
	)
	return nil
}

package jobs

import (
	"context"
	"log/slog"
)

// SessionCleaner drops expired sessions
type SessionCleaner interface {
	CleanExpiredSessions() int
}

// CleanSessions returns a task that drops expired sessions
func CleanSessions(cleaner SessionCleaner, logger *slog.Logger) Task {
	return func(context.Context) error {
		if n := cleaner.CleanExpiredSessions(); n > 0 {
			logger.Info("expired sessions removed", slog.Int("count", n))
		}
		return nil
	}
}

package cooking

import (
	"context"
	"log/slog"
	"time"
)

// RunTicker is the single tick source for live timer updates. Once per tick
// it recomputes the remaining time of every watched session and broadcasts a
// fresh snapshot through the hub. Runs until the context is cancelled;
// intended to be started once from the application.
func (s *Service) RunTicker(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.log.InfoContext(ctx, "tick broadcaster started", slog.Duration("interval", s.tick))

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "tick broadcaster stopped")
			return
		case <-ticker.C:
			s.broadcastWatched(ctx)
		}
	}
}

func (s *Service) broadcastWatched(ctx context.Context) {
	now := s.now()
	for _, key := range s.hub.WatchedSessions() {
		session := s.load(ctx, key.userID, key.recipeID)
		s.hub.Publish(key.userID, key.recipeID, newSnapshot(session, now))
	}
}

// services/scheduler.go
package services

import (
	"time"

	"gamification-service/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

// StartDailyScheduler keeps the daily quest set warm and prunes the
// activity feed. EnsureDailyQuests is idempotent, so running it on a
// short interval is safe: it only inserts once per UTC day, and lazy
// generation on access remains the correctness fallback.
func (s *QuestService) StartDailyScheduler(activity *ActivityFeedService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(func() {
			if _, err := s.EnsureDailyQuests(); err != nil {
				logger.Error("daily quest generation failed", "error", err)
				return
			}
			logger.Debug("daily quests ensured")
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(6*time.Hour),
		gocron.NewTask(func() {
			removed, err := activity.CleanupOld(7)
			if err != nil {
				logger.Error("activity feed cleanup failed", "error", err)
				return
			}
			if removed > 0 {
				logger.Info("activity feed cleaned up", "removed", removed)
			}
		}),
	)
}

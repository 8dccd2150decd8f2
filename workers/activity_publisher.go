package workers

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"gamification-service/models"
	"gamification-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ActivityPublisher broadcasts persisted activity feed rows to redis
// pub/sub so the webapp's live feed can subscribe. Publishing is
// best-effort: a row that fails to publish stays unpublished and is
// retried on the next tick.
type ActivityPublisher struct {
	DB      *gorm.DB
	RDB     *redis.Client
	Channel string
}

func NewActivityPublisher(db *gorm.DB, rdb *redis.Client) *ActivityPublisher {
	channel := os.Getenv("ACTIVITY_CHANNEL")
	if channel == "" {
		channel = "gamification:activity"
	}
	return &ActivityPublisher{
		DB:      db,
		RDB:     rdb,
		Channel: channel,
	}
}

// publishPending pushes unpublished rows out in creation order and flips
// their published flag. Returns the number of rows published.
func (p *ActivityPublisher) publishPending(ctx context.Context) (int, error) {
	var activities []models.ActivityFeed
	if err := p.DB.Where("published = ?", false).
		Order("created_at ASC").
		Limit(100).
		Find(&activities).Error; err != nil {
		return 0, err
	}

	published := 0
	for _, activity := range activities {
		payload, err := json.Marshal(activity)
		if err != nil {
			logger.Error("failed to marshal activity", "id", activity.ID, "error", err)
			continue
		}

		if err := p.RDB.Publish(ctx, p.Channel, payload).Err(); err != nil {
			logger.Warn("failed to publish activity", "id", activity.ID, "error", err)
			continue
		}

		if err := p.DB.Model(&models.ActivityFeed{}).
			Where("id = ?", activity.ID).
			Update("published", true).Error; err != nil {
			logger.Error("failed to mark activity published", "id", activity.ID, "error", err)
			continue
		}
		published++
	}
	return published, nil
}

// PollActivities runs the publisher loop until the context is cancelled.
func PollActivities(ctx context.Context, p *ActivityPublisher, pollInterval time.Duration) {
	logger.Info("starting activity publisher", "channel", p.Channel, "interval", pollInterval.String())

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("activity publisher stopped")
			return
		case <-ticker.C:
			count, err := p.publishPending(ctx)
			if err != nil {
				logger.Error("activity publish cycle failed", "error", err)
				continue
			}
			if count > 0 {
				logger.Debug("published activities", "count", count)
			}
		}
	}
}

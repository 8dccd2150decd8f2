package services

import (
	"encoding/json"
	"fmt"

	"gamification-service/models"
	"gamification-service/pkg/errors"
	"gamification-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ActivityFeedService records human-readable marketplace events. Writers
// treat it as fire-and-forget: a failed feed write never fails the
// operation that produced it. The activity publisher worker broadcasts
// persisted rows to subscribers.
type ActivityFeedService struct {
	DB *gorm.DB
}

func NewActivityFeedService(db *gorm.DB) *ActivityFeedService {
	return &ActivityFeedService{DB: db}
}

func (s *ActivityFeedService) Add(activityType models.ActivityType, userID, username, message string, metadata interface{}) error {
	var metadataJSON string
	if metadata != nil {
		payload, err := json.Marshal(metadata)
		if err != nil {
			logger.Warn("failed to marshal activity metadata", "type", activityType, "error", err)
		} else {
			metadataJSON = string(payload)
		}
	}

	activity := models.ActivityFeed{
		ID:       uuid.NewString(),
		Type:     activityType,
		UserID:   userID,
		Username: username,
		Message:  message,
		Metadata: metadataJSON,
	}
	if err := s.DB.Create(&activity).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to record activity")
	}
	return nil
}

func (s *ActivityFeedService) Recent(limit int) ([]models.ActivityFeed, error) {
	if limit <= 0 {
		limit = 50
	} else if limit > 200 {
		limit = 200
	}
	var activities []models.ActivityFeed
	if err := s.DB.Order("created_at DESC").Limit(limit).Find(&activities).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load activity feed")
	}
	return activities, nil
}

func (s *ActivityFeedService) ForUser(userID string, limit int) ([]models.ActivityFeed, error) {
	if limit <= 0 {
		limit = 50
	} else if limit > 200 {
		limit = 200
	}
	var activities []models.ActivityFeed
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load user activity")
	}
	return activities, nil
}

// CleanupOld removes feed rows older than daysToKeep days.
func (s *ActivityFeedService) CleanupOld(daysToKeep int) (int64, error) {
	if daysToKeep <= 0 {
		daysToKeep = 7
	}
	result := s.DB.Unscoped().
		Where("created_at < NOW() - (? * INTERVAL '1 day')", daysToKeep).
		Delete(&models.ActivityFeed{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to clean up activity feed")
	}
	return result.RowsAffected, nil
}

func (s *ActivityFeedService) AddPurchase(buyerID, buyerName, itemName string, amount decimal.Decimal) error {
	return s.Add(models.ActivityPurchase, buyerID, buyerName,
		fmt.Sprintf("%s just bought %s for %s FLOG!", buyerName, itemName, amount),
		map[string]interface{}{"item_name": itemName, "amount": amount})
}

func (s *ActivityFeedService) AddListing(sellerID, sellerName, itemName string) error {
	return s.Add(models.ActivityListing, sellerID, sellerName,
		fmt.Sprintf("%s listed %s for sale", sellerName, itemName),
		map[string]interface{}{"item_name": itemName})
}

func (s *ActivityFeedService) AddAchievement(userID, username, achievementName, icon string) error {
	return s.Add(models.ActivityAchievement, userID, username,
		fmt.Sprintf("%s unlocked achievement: %s %s!", username, icon, achievementName),
		map[string]interface{}{"achievement_name": achievementName, "icon": icon})
}

func (s *ActivityFeedService) AddLevelUp(userID, username string, newLevel int, title string) error {
	return s.Add(models.ActivityLevelUp, userID, username,
		fmt.Sprintf("%s reached level %d - %s!", username, newLevel, title),
		map[string]interface{}{"new_level": newLevel, "title": title})
}

func (s *ActivityFeedService) AddQuestComplete(userID, username, questName string) error {
	return s.Add(models.ActivityQuestComplete, userID, username,
		fmt.Sprintf("%s completed quest: %s", username, questName),
		map[string]interface{}{"quest_name": questName})
}

func (s *ActivityFeedService) AddMysteryBox(userID, username, boxName string, itemCount int) error {
	return s.Add(models.ActivityMysteryBox, userID, username,
		fmt.Sprintf("%s opened a %s and got %d rewards!", username, boxName, itemCount),
		map[string]interface{}{"box_name": boxName, "item_count": itemCount})
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gamification-service/models"
	"gamification-service/pkg/errors"
	"gamification-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const leaderboardCacheTTL = 30 * time.Second

// GamificationService owns per-user level, XP, title and login streak.
type GamificationService struct {
	DB  *gorm.DB
	RDB *redis.Client // optional, leaderboard cache
}

func NewGamificationService(db *gorm.DB, rdb *redis.Client) *GamificationService {
	return &GamificationService{DB: db, RDB: rdb}
}

type LevelUpResult struct {
	LeveledUp      bool   `json:"leveled_up"`
	OldLevel       int    `json:"old_level"`
	NewLevel       int    `json:"new_level"`
	CurrentXP      int    `json:"current_xp"`
	XPForNextLevel int    `json:"xp_for_next_level"`
	NewTitle       string `json:"new_title"`
}

type UserStats struct {
	Level            int    `json:"level"`
	XP               int    `json:"xp"`
	XPForNextLevel   int    `json:"xp_for_next_level"`
	Title            string `json:"title"`
	StreakDays       int    `json:"streak_days"`
	AchievementCount int64  `json:"achievement_count"`
	CompletedQuests  int64  `json:"completed_quests"`
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Level  int    `json:"level"`
	XP     int    `json:"xp"`
	Title  string `json:"title"`
}

// GetOrCreateUser returns the user's gamification record, creating a
// level-1 record on first touch.
func (s *GamificationService) GetOrCreateUser(userID string) (*models.UserGamification, error) {
	var user models.UserGamification
	err := s.DB.Where("user_id = ?", userID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load user gamification")
	}

	user = models.UserGamification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Level:     1,
		XP:        0,
		Title:     TitleForLevel(1),
		LastLogin: time.Now().UTC(),
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create user gamification")
	}
	if err := s.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load user gamification")
	}
	return &user, nil
}

// AddExperience awards XP and settles any resulting level-ups.
func (s *GamificationService) AddExperience(userID string, amount int) (*LevelUpResult, error) {
	var result *LevelUpResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.AddExperienceTx(tx, userID, amount)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddExperienceTx is AddExperience inside an existing transaction, for
// reward payouts that must commit atomically with their trigger.
func (s *GamificationService) AddExperienceTx(tx *gorm.DB, userID string, amount int) (*LevelUpResult, error) {
	if amount <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidAmount, fmt.Sprintf("xp amount must be positive, got %d", amount))
	}

	user, err := s.lockUser(tx, userID)
	if err != nil {
		return nil, err
	}

	oldLevel := user.Level
	xp, level, leveledUp := SettleXP(user.XP+amount, user.Level)
	user.XP = xp
	user.Level = level
	if leveledUp {
		user.Title = TitleForLevel(level)
	}

	if err := tx.Save(user).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to save user gamification")
	}

	if leveledUp {
		logger.Info("level up", "user_id", userID, "old_level", oldLevel, "new_level", level, "title", user.Title)
	}

	return &LevelUpResult{
		LeveledUp:      leveledUp,
		OldLevel:       oldLevel,
		NewLevel:       user.Level,
		CurrentXP:      user.XP,
		XPForNextLevel: XPForNextLevel(user.Level),
		NewTitle:       user.Title,
	}, nil
}

// UpdateLoginStreak applies the consecutive-day streak rules and stamps
// the login time. Returns the updated streak length.
func (s *GamificationService) UpdateLoginStreak(userID string) (int, error) {
	var streak int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		user, err := s.lockUser(tx, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user.StreakDays = NextStreak(user.StreakDays, user.LastLogin, now)
		user.LastLogin = now
		streak = user.StreakDays

		if err := tx.Save(user).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to save login streak")
		}
		return nil
	})
	return streak, err
}

// GetUserStats aggregates the profile card numbers.
func (s *GamificationService) GetUserStats(userID string) (*UserStats, error) {
	user, err := s.GetOrCreateUser(userID)
	if err != nil {
		return nil, err
	}

	var achievementCount int64
	if err := s.DB.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Count(&achievementCount).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count achievements")
	}

	var completedQuests int64
	if err := s.DB.Model(&models.QuestProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&completedQuests).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count completed quests")
	}

	return &UserStats{
		Level:            user.Level,
		XP:               user.XP,
		XPForNextLevel:   XPForNextLevel(user.Level),
		Title:            user.Title,
		StreakDays:       user.StreakDays,
		AchievementCount: achievementCount,
		CompletedQuests:  completedQuests,
	}, nil
}

// GetLeaderboard returns the top users by level then XP. Results are
// cached in redis for a short TTL when a client is configured.
func (s *GamificationService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("gamification:leaderboard:%d", limit)
	if s.RDB != nil {
		if cached, err := s.RDB.Get(ctx, cacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	var users []models.UserGamification
	if err := s.DB.Order("level DESC").Order("xp DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load leaderboard")
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: user.UserID,
			Level:  user.Level,
			XP:     user.XP,
			Title:  user.Title,
		})
	}

	if s.RDB != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.RDB.Set(ctx, cacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				logger.Warn("failed to cache leaderboard", "error", err)
			}
		}
	}

	return entries, nil
}

func (s *GamificationService) lockUser(tx *gorm.DB, userID string) (*models.UserGamification, error) {
	var user models.UserGamification
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock user gamification")
	}

	user = models.UserGamification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Level:     1,
		XP:        0,
		Title:     TitleForLevel(1),
		LastLogin: time.Now().UTC(),
	}
	// A concurrent first touch may win the insert; re-lock the canonical
	// row whichever side created it.
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create user gamification")
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to lock user gamification")
	}
	return &user, nil
}

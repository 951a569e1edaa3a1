package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/chefbot-v2/backend/internal/models"
)

// SearchLogService records recommendation requests per user. Logging is
// best-effort: a write failure must never fail the request itself.
type SearchLogService struct {
	db *gorm.DB
}

func NewSearchLogService(db *gorm.DB) *SearchLogService {
	return &SearchLogService{db: db}
}

// Record appends one search to the user's history.
func (s *SearchLogService) Record(ctx context.Context, userID uuid.UUID, q Query) {
	rec := models.SearchRecord{
		UserID:      userID,
		Ingredients: q.Ingredients,
		MaxTime:     q.MaxTime,
	}
	if v, ok := q.NutritionTarget["calories"]; ok {
		rec.TargetCalories = &v
	}
	if v, ok := q.NutritionTarget["protein"]; ok {
		rec.TargetProtein = &v
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		log.Printf("failed to log search for user %s: %v", userID, err)
	}
}

// UserStats summarizes a user's search history.
type UserStats struct {
	Username      string `json:"username"`
	TotalSearches int64  `json:"total_searches"`
}

// Stats returns search history stats for one user.
func (s *SearchLogService) Stats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.SearchRecord{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	return &UserStats{Username: user.Username, TotalSearches: count}, nil
}

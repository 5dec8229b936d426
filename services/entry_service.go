package services

import (
	"context"
	"errors"
	"fmt"

	"carbculator/models"

	"gorm.io/gorm"
)

var ErrEntryNotFound = errors.New("entry not found")

// EntryService is the store gateway for food and water entries. All
// queries are per-user scoped and range queries use the half-open
// [start, end) convention.
type EntryService struct {
	db    *gorm.DB
	cache *ProgressCache
}

func NewEntryService(db *gorm.DB, cache *ProgressCache) *EntryService {
	return &EntryService{db: db, cache: cache}
}

type FoodEntryInput struct {
	Name        string   `json:"name" binding:"required"`
	Calories    float64  `json:"calories" binding:"min=0"`
	Protein     float64  `json:"protein" binding:"min=0"`
	Carbs       float64  `json:"carbs" binding:"min=0"`
	Fats        float64  `json:"fats" binding:"min=0"`
	Quantity    int      `json:"quantity"`
	ImageURL    string   `json:"image_url"`
	Ingredients []string `json:"ingredients"`
}

func (s *EntryService) InsertFoodEntry(ctx context.Context, userID uint, in FoodEntryInput) (*models.FoodEntry, error) {
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	entry := &models.FoodEntry{
		UserID:      userID,
		Name:        in.Name,
		Calories:    in.Calories,
		Protein:     in.Protein,
		Carbs:       in.Carbs,
		Fats:        in.Fats,
		Quantity:    in.Quantity,
		ImageURL:    in.ImageURL,
		Ingredients: models.JoinIngredients(in.Ingredients),
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("insert food entry: %w", err)
	}
	s.cache.InvalidateUser(ctx, userID)
	return entry, nil
}

func (s *EntryService) DeleteFoodEntry(ctx context.Context, userID, entryID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.FoodEntry{}, entryID)
	if res.Error != nil {
		return fmt.Errorf("delete food entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

func (s *EntryService) InsertWaterEntry(ctx context.Context, userID uint, amountML float64) (*models.WaterEntry, error) {
	if amountML <= 0 {
		return nil, fmt.Errorf("water amount must be positive")
	}
	entry := &models.WaterEntry{UserID: userID, AmountML: amountML}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("insert water entry: %w", err)
	}
	s.cache.InvalidateUser(ctx, userID)
	return entry, nil
}

func (s *EntryService) DeleteWaterEntry(ctx context.Context, userID, entryID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.WaterEntry{}, entryID)
	if res.Error != nil {
		return fmt.Errorf("delete water entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

func (s *EntryService) QueryFoodEntries(ctx context.Context, userID uint, w Window) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, w.Start, w.End).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query food entries: %w", err)
	}
	return entries, nil
}

func (s *EntryService) QueryWaterEntries(ctx context.Context, userID uint, w Window) ([]models.WaterEntry, error) {
	var entries []models.WaterEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, w.Start, w.End).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query water entries: %w", err)
	}
	return entries, nil
}

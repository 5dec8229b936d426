package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbculator/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

const (
	profileReadAttempts = 3
	profileReadBackoff  = time.Second
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetOrCreate returns the user's profile, creating it with baseline
// goals on first access. The read is retried a bounded number of times
// with fixed backoff since it is idempotent.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID uint) (*models.Profile, error) {
	var lastErr error
	for attempt := 0; attempt < profileReadAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(profileReadBackoff):
			}
		}

		profile, err := s.get(ctx, userID)
		if err == nil {
			return profile, nil
		}
		if errors.Is(err, ErrProfileNotFound) {
			return s.create(ctx, userID)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("get profile: %w", lastErr)
}

type ProfileInput struct {
	DailyCalories *float64 `json:"daily_calories"`
	DailyProtein  *float64 `json:"daily_protein"`
	DailyCarbs    *float64 `json:"daily_carbs"`
	DailyFats     *float64 `json:"daily_fats"`
	DailyWater    *float64 `json:"daily_water"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	HeightUnit    string   `json:"height_unit"`
	WeightUnit    string   `json:"weight_unit"`
}

// Update applies a partial update (onboarding, settings). Nil fields
// are left untouched.
func (s *ProfileService) Update(ctx context.Context, userID uint, in ProfileInput) (*models.Profile, error) {
	profile, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DailyCalories != nil {
		profile.DailyCalories = *in.DailyCalories
	}
	if in.DailyProtein != nil {
		profile.DailyProtein = *in.DailyProtein
	}
	if in.DailyCarbs != nil {
		profile.DailyCarbs = *in.DailyCarbs
	}
	if in.DailyFats != nil {
		profile.DailyFats = *in.DailyFats
	}
	if in.DailyWater != nil {
		profile.DailyWater = *in.DailyWater
	}
	if in.Height != nil {
		profile.Height = *in.Height
	}
	if in.Weight != nil {
		profile.Weight = *in.Weight
	}
	if in.HeightUnit != "" {
		profile.HeightUnit = in.HeightUnit
	}
	if in.WeightUnit != "" {
		profile.WeightUnit = in.WeightUnit
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) get(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) create(ctx context.Context, userID uint) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:        userID,
		DailyCalories: models.DefaultDailyCalories,
		DailyProtein:  models.DefaultDailyProtein,
		DailyCarbs:    models.DefaultDailyCarbs,
		DailyFats:     models.DefaultDailyFats,
		DailyWater:    models.DefaultDailyWater,
		HeightUnit:    "cm",
		WeightUnit:    "kg",
	}
	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"carbculator/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	err  error
	keys []string
}

func (f *fakeStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://images.example.com/" + key, nil
}

type fakeVision struct {
	result       *MealAnalysis
	err          error
	contentTypes []string
}

func (f *fakeVision) Analyze(_ context.Context, _, contentType string) (*MealAnalysis, error) {
	f.contentTypes = append(f.contentTypes, contentType)
	return f.result, f.err
}

func TestProcessUploadComplete(t *testing.T) {
	store := &fakeStore{}
	vision := &fakeVision{result: &MealAnalysis{
		Name: "Grilled chicken salad", Calories: 430, Protein: 38, Carbs: 22, Fats: 19,
		Ingredients: []string{"chicken", "lettuce", "tomato"},
	}}
	svc := NewUploadService(store, vision, nil, logger.Nop())

	result, err := svc.ProcessUpload(context.Background(), 1, "lunch.jpg", "image/jpeg", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, StateComplete, result.State)
	assert.Contains(t, result.ImageURL, "food-images/")
	require.NotNil(t, result.Analysis)
	assert.Equal(t, "Grilled chicken salad", result.Analysis.Name)
}

func TestProcessUploadStorageFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("bucket unavailable")}
	svc := NewUploadService(store, &fakeVision{}, nil, logger.Nop())

	result, err := svc.ProcessUpload(context.Background(), 1, "lunch.jpg", "image/jpeg", []byte("img"))
	assert.ErrorIs(t, err, ErrStorageFailed)
	assert.Equal(t, StateFailed, result.State)
	assert.Empty(t, result.ImageURL)
	assert.Nil(t, result.Analysis)
}

func TestProcessUploadAnalysisFailureKeepsStoredURL(t *testing.T) {
	store := &fakeStore{}
	vision := &fakeVision{err: fmt.Errorf("%w: %v", ErrAnalysisFailed, context.DeadlineExceeded)}
	svc := NewUploadService(store, vision, nil, logger.Nop())

	result, err := svc.ProcessUpload(context.Background(), 1, "lunch.jpg", "image/jpeg", []byte("img"))
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.NotErrorIs(t, err, ErrStorageFailed)
	assert.Equal(t, StateFailed, result.State)
	// Storage succeeded, so the URL is still usable by the caller.
	assert.NotEmpty(t, result.ImageURL)
	assert.Nil(t, result.Analysis)
}

func TestProcessUploadForwardsContentType(t *testing.T) {
	store := &fakeStore{}
	vision := &fakeVision{result: &MealAnalysis{Name: "Smoothie", Calories: 210}}
	svc := NewUploadService(store, vision, nil, logger.Nop())

	_, err := svc.ProcessUpload(context.Background(), 1, "breakfast.png", "image/png", []byte("img"))
	require.NoError(t, err)
	require.Len(t, vision.contentTypes, 1)
	assert.Equal(t, "image/png", vision.contentTypes[0])
}

func TestProcessUploadKeysAreUnique(t *testing.T) {
	store := &fakeStore{}
	vision := &fakeVision{result: &MealAnalysis{Name: "Toast", Calories: 150}}
	svc := NewUploadService(store, vision, nil, logger.Nop())

	for i := 0; i < 10; i++ {
		_, err := svc.ProcessUpload(context.Background(), 1, "same-name.jpg", "image/jpeg", []byte("img"))
		require.NoError(t, err)
	}

	seen := make(map[string]bool)
	for _, k := range store.keys {
		assert.False(t, seen[k], "duplicate key %s", k)
		assert.True(t, strings.HasSuffix(k, ".jpg"))
		seen[k] = true
	}
}

func TestUploadKeyDefaultsExtension(t *testing.T) {
	key := uploadKey("no-extension")
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.True(t, strings.HasPrefix(key, "food-images/"))
}

package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"carbculator/pkg/logger"

	"github.com/google/uuid"
)

// ErrStorageFailed marks a failure in the storage phase, distinct from
// ErrAnalysisFailed so the UI can message them differently.
var ErrStorageFailed = errors.New("image storage failed")

type UploadState string

const (
	StateIdle      UploadState = "idle"
	StateUploading UploadState = "uploading"
	StateStored    UploadState = "stored"
	StateAnalyzing UploadState = "analyzing"
	StateComplete  UploadState = "complete"
	StateFailed    UploadState = "failed"
)

// UploadEvent is broadcast to the user's realtime clients at every
// state transition.
type UploadEvent struct {
	Kind     string      `json:"kind"`
	State    UploadState `json:"state"`
	ImageURL string      `json:"image_url,omitempty"`
	Reason   string      `json:"reason,omitempty"`
}

type UploadResult struct {
	State    UploadState   `json:"state"`
	ImageURL string        `json:"image_url,omitempty"`
	Analysis *MealAnalysis `json:"analysis,omitempty"`
}

// UploadService sequences one upload: notify caller, store the image
// durably, then run vision analysis on the stored bytes. The phases are
// strictly ordered and never parallelized. The service is stateless per
// call and re-entrant; serializing concurrent uploads is the caller's
// concern. A failed upload never registers a food entry: entry creation
// is a separate, user-confirmed call.
type UploadService struct {
	store  ImageStore
	vision VisionAnalyzer
	hub    *RealtimeHub
	log    *logger.Logger
}

func NewUploadService(store ImageStore, vision VisionAnalyzer, hub *RealtimeHub, log *logger.Logger) *UploadService {
	return &UploadService{store: store, vision: vision, hub: hub, log: log}
}

// ProcessUpload runs the upload state machine for one image. The
// returned result carries the stored URL even when analysis fails, so
// the caller can still display the image.
func (s *UploadService) ProcessUpload(ctx context.Context, userID uint, filename, contentType string, data []byte) (*UploadResult, error) {
	s.notify(userID, UploadEvent{Kind: "upload.state", State: StateUploading})

	key := uploadKey(filename)
	url, err := s.store.Put(ctx, key, data, contentType)
	if err != nil {
		s.log.Errorw("image storage failed", "user_id", userID, "key", key, "err", err)
		s.notify(userID, UploadEvent{Kind: "upload.state", State: StateFailed, Reason: "storage_failed"})
		return &UploadResult{State: StateFailed}, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	// The stored URL is usable immediately, before analysis finishes.
	s.notify(userID, UploadEvent{Kind: "upload.state", State: StateStored, ImageURL: url})
	s.notify(userID, UploadEvent{Kind: "upload.state", State: StateAnalyzing, ImageURL: url})

	analysis, err := s.vision.Analyze(ctx, base64.StdEncoding.EncodeToString(data), contentType)
	if err != nil {
		s.log.Errorw("image analysis failed", "user_id", userID, "key", key, "err", err)
		s.notify(userID, UploadEvent{Kind: "upload.state", State: StateFailed, ImageURL: url, Reason: "analysis_failed"})
		if !errors.Is(err, ErrAnalysisFailed) {
			err = fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
		}
		return &UploadResult{State: StateFailed, ImageURL: url}, err
	}

	s.notify(userID, UploadEvent{Kind: "upload.state", State: StateComplete, ImageURL: url})
	return &UploadResult{State: StateComplete, ImageURL: url, Analysis: analysis}, nil
}

func (s *UploadService) notify(userID uint, ev UploadEvent) {
	if s.hub != nil {
		s.hub.BroadcastToUser(userID, ev)
	}
}

// uploadKey builds a collision-resistant object key: timestamp plus a
// random component, keeping the original extension.
func uploadKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("food-images/%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
}

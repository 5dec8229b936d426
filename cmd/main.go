package main

import (
	"context"
	"log"

	"carbculator/config"
	"carbculator/controllers"
	"carbculator/pkg/logger"
	"carbculator/routes"
	"carbculator/services"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.InitDB(cfg)

	zlog := logger.New()
	defer zlog.Sync()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})

	store, err := services.NewS3ImageStore(context.Background(), cfg.S3.Region, cfg.S3.Bucket, cfg.S3.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to init image store: %v", err)
	}

	hub := services.NewRealtimeHub()
	cache := services.NewProgressCache(rdb, cfg.Redis.TTL, zlog)
	aggSvc := services.NewAggregationService(zlog)
	profileSvc := services.NewProfileService(config.DB)
	entrySvc := services.NewEntryService(config.DB, cache)
	progressSvc := services.NewProgressService(entrySvc, aggSvc, profileSvc, cache)
	visionSvc := services.NewVisionService(cfg.OpenAI.APIKey, cfg.OpenAI.VisionModel, cfg.OpenAI.Timeout)
	insightSvc := services.NewInsightService(cfg.OpenAI.APIKey, cfg.OpenAI.InsightModel, cfg.OpenAI.Timeout)
	uploadSvc := services.NewUploadService(store, visionSvc, hub, zlog)

	r := routes.SetupRouter(routes.Controllers{
		Profile:  controllers.NewProfileController(profileSvc),
		Entries:  controllers.NewEntryController(entrySvc),
		Progress: controllers.NewProgressController(progressSvc),
		Calendar: controllers.NewCalendarController(progressSvc),
		Insights: controllers.NewInsightController(progressSvc, insightSvc),
		Upload:   controllers.NewUploadController(uploadSvc),
		Realtime: controllers.NewRealtimeController(hub),
	})

	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

package main

import (
	"log"
	"strings"

	"contractdesk/internal/bootstrap"
	"contractdesk/internal/config"
	"contractdesk/internal/jobs"
	searchService "contractdesk/internal/modules/search/service"
	"contractdesk/internal/server"
	"contractdesk/pkg/database"
	"contractdesk/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db := database.Connect(cfg.DatabaseURL)
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedAdminUser(db); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	if err := bootstrap.SeedCategories(db); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}

	store, err := storage.NewFromEnv(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to initialize document storage: %v", err)
	}

	opts := server.Options{
		ExpiringWindowDays: cfg.ExpiringWindowDays,
		JWTSecret:          cfg.JWTSecret,
		TokenTTL:           cfg.JWTTTL,
		AllowedOrigins:     cfg.AllowedOrigins,
	}

	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		opts.RedisClient = redis.NewClient(redisOpts)
	}

	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		opts.SearchService = searchService.NewContractSearchService(meiliClient)
	}

	srv := server.NewServer(db, store, opts)

	scheduler := jobs.NewScheduler()
	scheduler.Register(jobs.NewRecomputeJob(srv.ContractService(), cfg.RecomputeSchedule))
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("server starting on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

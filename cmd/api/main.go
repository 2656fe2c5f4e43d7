package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/questforge/questforge-backend/internal/config"
	"github.com/questforge/questforge-backend/internal/handler"
	"github.com/questforge/questforge-backend/internal/middleware"
	"github.com/questforge/questforge-backend/internal/migration"
	"github.com/questforge/questforge-backend/internal/repository"
	"github.com/questforge/questforge-backend/internal/routes"
	"github.com/questforge/questforge-backend/internal/service"
	pkgcache "github.com/questforge/questforge-backend/pkg/cache"
	pkgjwt "github.com/questforge/questforge-backend/pkg/jwt"
	pkglogger "github.com/questforge/questforge-backend/pkg/logger"
	pkgredis "github.com/questforge/questforge-backend/pkg/redis"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("dotenv_files", dotenvFiles).
		Msg("starting questforge-backend")

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	pkglogger.GetLogger().Info().Msg("connected to Postgres")

	// Redis is optional; the cache degrades to no-ops without it.
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("Redis unavailable, caching disabled")
		redisClient = nil
	}
	cacheService := pkgcache.NewService(redisClient)

	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	var generator service.TextGenerator
	if cfg.AI.APIKey != "" {
		generator = service.NewOpenAIGenerator(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
	}

	// Repositories
	contentRepo := repository.NewContentRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	entryRepo := repository.NewCampaignContentRepository(db)

	// Services
	contentSvc := service.NewContentService(contentRepo, versionRepo, linkRepo, entryRepo, generator, cacheService)
	linkSvc := service.NewLinkService(linkRepo, contentRepo)
	campaignSvc := service.NewCampaignService(campaignRepo, entryRepo, contentRepo)

	// Handlers
	contentHandler := handler.NewContentHandler(contentSvc)
	linkHandler := handler.NewLinkHandler(linkSvc)
	campaignHandler := handler.NewCampaignHandler(campaignSvc)

	if env == "production" || env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		cacheStatus := "disabled"
		if cacheService.IsAvailable() {
			cacheStatus = "up"
			if err := cacheService.Ping(c.Request.Context()); err != nil {
				cacheStatus = "down"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cache": cacheStatus})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.Setup(router, contentHandler, linkHandler, campaignHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// Map unique violations to gorm.ErrDuplicatedKey so services can
		// surface them as conflicts.
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	foodHandler "food-checker/internal/api/handlers/food"
	"food-checker/internal/api/handlers/health"
	"food-checker/internal/api/middleware"
	"food-checker/internal/core/ai/cache"
	"food-checker/internal/core/ai/classifier"
	"food-checker/internal/core/ai/service"
	foodcore "food-checker/internal/core/food"
	"food-checker/internal/core/image"
	"food-checker/internal/infrastructure/config"
	"food-checker/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (16MB，圖片 base64 編碼後會膨脹約 1/3)
	maxBodySize = 16 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheStore cache.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制與去重
	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Deduplication(cfg))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 載入食物資料庫
	db, err := foodcore.Load(cfg.Data.FoodsPath, cfg.Data.TrashPath, cfg.Matcher.Threshold)
	if err != nil {
		common.LogError("Failed to load food database", zap.Error(err))
		return nil, fmt.Errorf("failed to load food database: %w", err)
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.String("vision_model", cfg.OpenRouter.VisionModel),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 服務與分類器
	aiService, err := service.NewService(cfg, cacheStore)
	if err != nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}
	clf := classifier.New(cfg, aiService)

	// 初始化協調器與圖片服務
	checker := foodcore.NewChecker(db, clf)
	imageService := image.NewService(cfg.Image.MaxSizeBytes)

	dbStatus := &health.DatabaseStatus{
		FoodEntries:  len(db.Foods),
		TrashEntries: len(db.Trash),
	}

	// 全局中間件：設置超時與上下文注入
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("database_status", dbStatus)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		handler := foodHandler.NewHandler(checker, db, imageService)

		foodGroup := api.Group("/food")
		{
			// 文字查詢
			foodGroup.POST("/check", handler.HandleCheck)

			// 圖片辨識
			foodGroup.POST("/identify", handler.HandleIdentify)

			// 資料庫瀏覽
			foodGroup.GET("/item/:name", handler.HandleItem)
			foodGroup.GET("/categories", handler.HandleCategories)
			foodGroup.GET("/category/:category", handler.HandleCategory)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int("food_entries", len(db.Foods)),
		zap.Int("trash_entries", len(db.Trash)),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

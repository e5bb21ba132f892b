package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"credit-scoring/internal/config"
	apihttp "credit-scoring/internal/http"
	"credit-scoring/internal/model"
	"credit-scoring/internal/policy"
	"credit-scoring/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// El modelo se carga una sola vez; sin modelo no se levanta el servidor.
	classifier, err := loadClassifier(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("model load", zap.Error(err))
	}
	digest := model.DigestOf(classifier)
	logger.Info("model loaded", zap.String("digest", digest))

	catalog, err := policy.LoadCatalog(cfg.VariantsFile, cfg.DefaultVariant)
	if err != nil {
		logger.Fatal("variant catalog", zap.Error(err))
	}

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	var (
		cache       service.ProbabilityCache = service.NewMemoryProbabilityCache()
		limiter     service.RateLimiter      = service.NewMemoryRateLimiter(window, cfg.RateLimitMax)
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			cache = service.NewRedisProbabilityCache(redisClient)
			limiter = service.NewRedisRateLimiter(redisClient, window, cfg.RateLimitMax)
		}
		cancel()
	}

	scoringSvc := service.NewScoringService(logger, classifier, catalog).
		WithCache(cache, time.Duration(cfg.ScoreCacheTTLSeconds)*time.Second)
	importanceSvc := service.NewImportanceService(classifier)

	scoreHandler := apihttp.NewScoreHandler(logger, scoringSvc, importanceSvc, cfg.ImportanceTopN)
	variantHandler := apihttp.NewVariantHandler(catalog)
	router := apihttp.NewRouter(logger, scoreHandler, variantHandler, limiter, cfg.TrustedProxies, digest)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("default_variant", catalog.Default().Name),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func loadClassifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (model.Classifier, error) {
	if cfg.ModelURL != "" {
		timeout := time.Duration(cfg.ModelTimeoutSeconds) * time.Second
		return model.NewHTTPClassifier(ctx, cfg.ModelURL, timeout, logger)
	}
	return model.LoadArtifact(cfg.ModelPath)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yoockh/resumeats/config"
	"github.com/yoockh/resumeats/internal/api/handlers"
	"github.com/yoockh/resumeats/internal/api/routes"
	"github.com/yoockh/resumeats/internal/cache"
	"github.com/yoockh/resumeats/internal/logger"
	"github.com/yoockh/resumeats/internal/providers/llm"
	mongorepo "github.com/yoockh/resumeats/internal/repositories/mongo"
	pgrepo "github.com/yoockh/resumeats/internal/repositories/postgres"
	"github.com/yoockh/resumeats/internal/services"
	"github.com/yoockh/resumeats/internal/storage"
)

func main() {
	started := time.Now()
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Init MongoDB
	mc, err := config.NewMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("mongo init")
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.MongoDB)
	if err := config.EnsureMongoIndexes(ctx, db); err != nil {
		log.WithError(err).Fatal("mongo indexes")
	}
	log.Info("mongo connected")

	users := userStore(ctx, cfg, db, log)

	// Redis is optional; stats are then computed on every request.
	var statsCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb, err := config.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, stats cache disabled")
		} else {
			defer rdb.Close()
			statsCache = cache.NewRedisCache(rdb, "resumeats:")
			log.Info("redis connected")
		}
	}

	var uploader storage.Uploader
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			log.WithError(err).Warn("gcs unavailable, uploads will not be archived")
		} else {
			defer gcs.Close()
			uploader = gcs
		}
	}

	provider := llmProvider(ctx, cfg, log)
	if provider != nil {
		defer provider.Close()
	}

	tokens := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	ai := services.NewAIAnalyzer(provider, cfg.LLMTimeout, log)

	router := routes.NewRouter(routes.Deps{
		Logger:        log,
		Tokens:        tokens,
		AllowOrigins:  cfg.CORSAllowOrigins,
		ShowErrorText: !cfg.IsProduction(),

		Health:   handlers.NewHealthHandler(started),
		Auth:     handlers.NewAuthHandler(services.NewUserService(users, tokens)),
		Upload:   handlers.NewUploadHandler(services.NewUploadService(cfg.MaxUploadBytes, cfg.UploadDir, uploader, log), cfg.MaxUploadBytes),
		Analysis: handlers.NewAnalysisHandler(services.NewAnalysisService(mongorepo.NewAnalysisRepo(db), ai, statsCache, cfg.StatsCacheTTL, log)),
		Resume:   handlers.NewResumeHandler(services.NewResumeService(mongorepo.NewResumeRepo(db), ai)),
		AI:       handlers.NewAIHandler(ai),
		Chat:     handlers.NewChatHandler(services.NewChatService(mongorepo.NewChatRepo(db))),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 60*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}

// userStore picks where accounts live. Everything else stays in Mongo.
func userStore(ctx context.Context, cfg *config.Config, db *mongo.Database, log *logrus.Logger) services.UserRepository {
	if cfg.UserStore != config.UserStorePostgres {
		return mongorepo.NewUserRepo(db)
	}

	pg, err := config.NewPostgres(cfg.PostgresURI)
	if err != nil {
		log.WithError(err).Fatal("postgres init")
	}
	repo := pgrepo.NewUserRepo(pg)
	if err := repo.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("postgres migrate")
	}
	log.Info("postgres connected, users stored in postgres")
	return repo
}

// llmProvider returns a nil interface when no model is configured.
func llmProvider(ctx context.Context, cfg *config.Config, log *logrus.Logger) llm.Provider {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		p, err := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			log.WithError(err).Warn("openai provider disabled")
			return nil
		}
		return p
	case config.ProviderVertex:
		p, err := llm.NewVertexGemini(ctx, cfg.VertexProjectID, cfg.VertexLocation, cfg.LLMModel)
		if err != nil {
			log.WithError(err).Warn("vertex provider disabled")
			return nil
		}
		return p
	default:
		log.Info("no llm provider configured, using heuristic analysis")
		return nil
	}
}

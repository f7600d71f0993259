package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/resumeats/internal/api/handlers"
	"github.com/yoockh/resumeats/internal/api/middleware"
)

type Deps struct {
	Logger        *logrus.Logger
	Tokens        middleware.TokenVerifier
	AllowOrigins  []string
	ShowErrorText bool

	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Upload   *handlers.UploadHandler
	Analysis *handlers.AnalysisHandler
	Resume   *handlers.ResumeHandler
	AI       *handlers.AIHandler
	Chat     *handlers.ChatHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Logger, "/api/health"))
	r.Use(cors.New(corsConfig(d.AllowOrigins)))
	r.Use(middleware.ErrorDetails(d.ShowErrorText))

	RegisterRoutes(r, d)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	api.GET("/health", d.Health.Health)
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)

	// Protected routes (JWT)
	auth := api.Group("/")
	auth.Use(middleware.JWTAuth(d.Tokens))

	auth.GET("/auth/me", d.Auth.Me)

	auth.POST("/upload", d.Upload.Upload)
	auth.POST("/upload/resume", d.Upload.Resume)
	auth.POST("/upload/job-description", d.Upload.JobDescription)

	auth.POST("/analyze", d.Analysis.Analyze)
	auth.GET("/analyze", d.Analysis.Recent)
	auth.GET("/analyze/:id", d.Analysis.Get)

	auth.GET("/resume/analyses", d.Analysis.List)
	auth.GET("/resume/analyses/:id", d.Analysis.Get)
	auth.DELETE("/resume/analyses/:id", d.Analysis.Delete)
	auth.GET("/resume/stats", d.Analysis.Stats)
	auth.GET("/resume/export/:id", d.Analysis.Export)

	auth.GET("/resume", d.Resume.List)
	auth.POST("/resume", d.Resume.Create)
	auth.GET("/resume/:id", d.Resume.Get)
	auth.PUT("/resume/:id", d.Resume.Update)
	auth.DELETE("/resume/:id", d.Resume.Delete)
	auth.POST("/resume/:id/analyze", d.Resume.Analyze)
	auth.POST("/resume/:id/optimize", d.Resume.Optimize)

	auth.POST("/ai/analyze", d.AI.Analyze)
	auth.POST("/ai/optimize", d.AI.Optimize)

	auth.POST("/chat", d.Chat.Save)
	auth.GET("/chat/history", d.Chat.History)
	auth.GET("/chat/:id", d.Chat.Get)
	auth.DELETE("/chat/:id", d.Chat.Delete)
}

package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/studyhall/quizdeck-backend/internal/config"
	"github.com/studyhall/quizdeck-backend/internal/handler"
	"github.com/studyhall/quizdeck-backend/internal/middleware"
	"github.com/studyhall/quizdeck-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz    *handler.QuizHandler
	History *handler.HistoryHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the generation route: one model call per request,
	// so keep it tight (5 per minute per user).
	genLimiter := middleware.NewRateLimiter(5, time.Minute)

	// ─── Quiz Group (JWT, no caching) ──────────────────────────────────
	quizAPI := router.Group("/api/v1/quiz")
	quizAPI.Use(
		middleware.RequireUserJWT(cfg.JWTSecret),
		middleware.NoStore(),
	)
	{
		quizAPI.POST("/generate", genLimiter.Middleware(), handlers.Quiz.Generate)
		quizAPI.POST("/start", handlers.Quiz.Start)
		quizAPI.POST("/submit", handlers.Quiz.Submit)

		quizAPI.GET("/history", handlers.History.GetHistory)
		quizAPI.GET("/result/:result_id", handlers.History.GetResult)
	}

	return router
}

package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aivora/aivora-backend/controllers"
	"github.com/aivora/aivora-backend/middleware"
	"github.com/aivora/aivora-backend/services"
	"github.com/aivora/aivora-backend/ws"
)

type Deps struct {
	DB           *gorm.DB
	Services     *services.Container
	LoginLimiter *middleware.IPRateLimiter
	StaticDir    string
}

func SetupRouter(r *gin.Engine, deps Deps) *gin.Engine {
	if deps.LoginLimiter == nil {
		deps.LoginLimiter = middleware.NewIPRateLimiter(10)
	}

	r.Use(middleware.DBMiddleware(deps.DB), middleware.ServicesMiddleware(deps.Services))

	r.GET("/ping", controllers.Ping)
	r.GET("/health", controllers.HealthCheck)
	r.GET("/ws/events", ws.H.HandleUserWebSocket)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", deps.LoginLimiter.Middleware(), controllers.Login)
		auth.POST("/logout", controllers.Logout)
		auth.POST("/refresh", controllers.Refresh)
		auth.POST("/google", controllers.GoogleLogin)
		auth.GET("/me", middleware.AuthMiddleware(), controllers.Me)
		auth.GET("/profile", middleware.AuthMiddleware(), controllers.Me)
		auth.PUT("/password", middleware.AuthMiddleware(), controllers.ChangePassword)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/chat", controllers.Chat)
		protected.GET("/chat/history", controllers.GetChatHistory)
		protected.POST("/code-help", controllers.CodeHelp)

		protected.POST("/notes/summarize", controllers.Summarize)
		protected.POST("/notes/ocr", controllers.OCRNote)
		protected.POST("/notes/upload", controllers.UploadNote)
		protected.GET("/notes", controllers.GetNotes)
		protected.GET("/notes/:id", controllers.GetNote)
		protected.DELETE("/notes/:id", controllers.DeleteNote)
		protected.POST("/notes/:id/summarize", controllers.SummarizeNote)

		protected.POST("/quiz/generate", controllers.GenerateQuiz)
		protected.GET("/quiz", controllers.GetQuizzes)
		protected.GET("/quiz/:id", controllers.GetQuiz)
		protected.GET("/quiz/:id/export", controllers.ExportQuiz)

		protected.POST("/tts", controllers.TextToSpeech)
	}

	user := api.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/notes", controllers.GetUserNotes)
		user.GET("/progress", controllers.GetProgress)
	}

	r.NoRoute(controllers.StaticFallback(deps.StaticDir))
	return r
}

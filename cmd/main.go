package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aivora/aivora-backend/config"
	"github.com/aivora/aivora-backend/logger"
	"github.com/aivora/aivora-backend/middleware"
	"github.com/aivora/aivora-backend/routes"
	"github.com/aivora/aivora-backend/services"
	"github.com/aivora/aivora-backend/utils"
	"github.com/aivora/aivora-backend/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()
	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Sync()

	if err := cfg.Validate(); err != nil {
		appLog.Fatal("invalid configuration", "error", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		appLog.Fatal("database init failed", "error", err)
	}
	utils.ConfigureTokens(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gemini, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiTextModel, cfg.GeminiVisionModel)
	if err != nil {
		appLog.Fatal("gemini init failed", "error", err)
	}
	defer gemini.Close()

	svc := &services.Container{AI: gemini, Log: appLog, CookieSecure: cfg.CookieSecure}
	if cfg.StorageEnabled() {
		svc.Storage = utils.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	}
	if cfg.GoogleCredentialsPath != "" {
		speech, err := services.NewGoogleSpeech(ctx, cfg.GoogleCredentialsPath)
		if err != nil {
			appLog.Warn("text-to-speech disabled", "error", err)
		} else {
			svc.Speech = speech
			defer speech.Close()
		}
	}
	if cfg.GoogleClientID != "" {
		svc.Google = services.IDTokenVerifier{ClientID: cfg.GoogleClientID}
	}

	scheduler, err := utils.StartCleanupJob(db, appLog)
	if err != nil {
		appLog.Fatal("cleanup scheduler failed", "error", err)
	}
	defer scheduler.Stop()

	ws.H.SetLogger(appLog)

	if cfg.LogMode != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(appLog), middleware.RequestLogger(appLog))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRouter(r, routes.Deps{
		DB:           db,
		Services:     svc,
		LoginLimiter: middleware.NewIPRateLimiter(cfg.LoginRatePerMinute),
		StaticDir:    cfg.StaticDir,
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		appLog.Info("server listening", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("graceful shutdown failed", "error", err)
	}
	appLog.Info("server stopped")
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aivora/aivora-backend/models"
)

type Config struct {
	Host string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	GeminiAPIKey      string
	GeminiTextModel   string
	GeminiVisionModel string

	JWTSecret    string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	CookieSecure bool

	CORSOrigins []string
	StaticDir   string

	GoogleClientID        string
	GoogleCredentialsPath string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	LoginRatePerMinute int
	LogMode            string
}

// Load reads the configuration from the environment. godotenv has already
// merged .env into it by the time this runs.
func Load() Config {
	return Config{
		Host: env("SERVER_HOST", "0.0.0.0"),
		Port: env("PORT", "5000"),

		DBHost:     env("DB_HOST", "localhost"),
		DBPort:     env("DB_PORT", "5432"),
		DBUser:     env("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     env("DB_NAME", "aivora_db"),
		DBSSLMode:  env("DB_SSLMODE", "disable"),

		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiTextModel:   env("GEMINI_TEXT_MODEL", "gemini-2.0-flash"),
		GeminiVisionModel: env("GEMINI_VISION_MODEL", "gemini-2.0-flash"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		AccessTTL:    time.Duration(envInt("ACCESS_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		RefreshTTL:   time.Duration(envInt("REFRESH_TOKEN_TTL_DAYS", 14)) * 24 * time.Hour,
		CookieSecure: envBool("COOKIE_SECURE", false),

		CORSOrigins: envList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		StaticDir:   env("STATIC_DIR", "frontend/dist"),

		GoogleClientID:        os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleCredentialsPath: os.Getenv("GOOGLE_CREDENTIALS_JSON"),

		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		SupabaseBucket: env("SUPABASE_BUCKET", "uploads"),

		LoginRatePerMinute: envInt("LOGIN_RATE_PER_MINUTE", 10),
		LogMode:            env("LOG_MODE", "development"),
	}
}

// Validate reports settings without which the server cannot start.
func (c Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func (c Config) StorageEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// InitDB opens postgres, applies pool settings and migrates the schema.
func InitDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the five domain tables plus refresh sessions.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Note{},
		&models.Quiz{},
		&models.ChatHistory{},
		&models.Progress{},
		&models.Session{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func env(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envList(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
